// Package gpu uploads laid-out values into GPU buffers through gogpu/wgpu.
//
// An [Uploader] sizes a sequence of host values with a [gpulayout.Sizer],
// creates one buffer large enough for all of them, encodes them with a
// [gpulayout.Writer] and hands the bytes to the queue in a single write.
// Each value gets a [Binding] that records where it lives in the buffer.
//
// Usage:
//
//	up, err := gpu.NewUploader(device, queue, gpulayout.Std140)
//	buf, err := up.Upload(camera, gpulayout.Dynamic(model0), gpulayout.Dynamic(model1))
//	defer buf.Destroy()
//	layout := buf.Bindings()[1].Layout() // gputypes.BufferBindingLayout
//
// Devices can also come from a [gpucontext.DeviceProvider] whose device and
// queue are, or expose, HAL handles.
package gpu
