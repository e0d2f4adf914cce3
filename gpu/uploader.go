package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpulayout"
)

// Uploader lays out host values under one rule set and uploads them into
// GPU buffers.
//
// An Uploader holds no per-upload state and is safe for concurrent use.
type Uploader struct {
	device hal.Device
	queue  hal.Queue
	rules  gpulayout.Rules
	opts   options
}

// NewUploader returns an Uploader that creates buffers on device and writes
// them through queue.
func NewUploader(device hal.Device, queue hal.Queue, rules gpulayout.Rules, opts ...Option) (*Uploader, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	o := defaultOptions(rules)
	for _, opt := range opts {
		opt(&o)
	}
	return &Uploader{device: device, queue: queue, rules: rules, opts: o}, nil
}

// NewUploaderFromProvider returns an Uploader on the device shared by
// provider. The provider's Device and Queue must be HAL handles, or the
// provider must expose them through HalDevice and HalQueue methods.
func NewUploaderFromProvider(provider gpucontext.DeviceProvider, rules gpulayout.Rules, opts ...Option) (*Uploader, error) {
	if provider == nil {
		return nil, ErrNoHAL
	}
	device, queue := halHandles(provider)
	if device == nil || queue == nil {
		return nil, ErrNoHAL
	}
	return NewUploader(device, queue, rules, opts...)
}

func halHandles(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if hp, ok := provider.(halProvider); ok {
		device, _ := hp.HalDevice().(hal.Device)
		queue, _ := hp.HalQueue().(hal.Queue)
		return device, queue
	}
	device, _ := provider.Device().(hal.Device)
	queue, _ := provider.Queue().(hal.Queue)
	return device, queue
}

// Rules returns the rule set values are laid out with.
func (u *Uploader) Rules() gpulayout.Rules {
	return u.rules
}

// Upload lays out values one after another, as a gpulayout.Writer would,
// and uploads them into a new buffer. The buffer's bindings record where
// each value was placed.
//
// Values wrapped in gpulayout.DynamicUniform start at a multiple of the
// dynamic offset alignment and can be selected per draw.
func (u *Uploader) Upload(values ...any) (*Buffer, error) {
	if len(values) == 0 {
		return nil, ErrNothingToUpload
	}

	sizer := gpulayout.NewSizer(u.rules)
	bindings := make([]Binding, len(values))
	for i, v := range values {
		b := Binding{
			Offset:  uint64(sizer.AddValue(v)),
			Size:    uint64(u.rules.SizeOf(v)),
			Type:    u.opts.bindingType(),
			Dynamic: isDynamic(v),
		}
		if err := u.checkBinding(b); err != nil {
			return nil, fmt.Errorf("gpu: value %d (%T): %w", i, v, err)
		}
		bindings[i] = b
	}

	buf, err := CreateBuffer(u.device, &BufferDescriptor{
		Label:            u.opts.label,
		Size:             uint64(sizer.Len()),
		Usage:            u.opts.bufferUsage(),
		MappedAtCreation: u.opts.mapped,
	})
	if err != nil {
		return nil, err
	}
	buf.bindings = bindings

	if u.opts.mapped {
		err = u.writeMapped(buf, values)
	} else {
		err = u.writeQueued(buf, values)
	}
	if err != nil {
		buf.Destroy()
		return nil, err
	}

	gpulayout.Logger().Debug("gpu: uploaded values",
		"label", buf.Label(), "rules", u.rules.String(),
		"values", len(values), "size", buf.Size())
	return buf, nil
}

func (u *Uploader) checkBinding(b Binding) error {
	if limit := u.opts.maxBindingSize(); limit > 0 && b.Size > limit {
		return fmt.Errorf("%w: %d > %d", ErrBindingTooLarge, b.Size, limit)
	}
	if align := u.opts.offsetAlignment(); b.Dynamic && align > 0 && b.Offset%align != 0 {
		return fmt.Errorf("%w: offset %d, alignment %d", ErrBindingMisaligned, b.Offset, align)
	}
	return nil
}

// encode lays values out into mem, which must be large enough.
func (u *Uploader) encode(mem []byte, values []any) error {
	w := gpulayout.NewWriter(gpulayout.NewFixedBuffer(mem), u.rules)
	for _, v := range values {
		if _, err := w.Write(v); err != nil {
			return fmt.Errorf("gpu: encode: %w", err)
		}
	}
	return nil
}

func (u *Uploader) writeQueued(buf *Buffer, values []any) error {
	mem := make([]byte, buf.Size())
	if err := u.encode(mem, values); err != nil {
		return err
	}
	if err := u.queue.WriteBuffer(buf.Raw(), 0, mem); err != nil {
		return fmt.Errorf("gpu: write buffer: %w", err)
	}
	return nil
}

func (u *Uploader) writeMapped(buf *Buffer, values []any) error {
	raw := buf.Raw()
	mapping, err := u.device.MapBuffer(raw, 0, buf.Size())
	if err != nil {
		return fmt.Errorf("gpu: map buffer: %w", err)
	}
	mem := unsafe.Slice((*byte)(mapping.Ptr), buf.Size()) //nolint:gosec // mapping covers Size bytes
	encodeErr := u.encode(mem, values)
	if err := u.device.UnmapBuffer(raw); err != nil && encodeErr == nil {
		return fmt.Errorf("gpu: unmap buffer: %w", err)
	}
	return encodeErr
}

// Update re-encodes v over the i-th binding of buf. v must have the same
// device size as the value originally uploaded there.
func (u *Uploader) Update(buf *Buffer, i int, v any) error {
	raw := buf.Raw()
	if raw == nil {
		return ErrBufferDestroyed
	}
	b, err := buf.Binding(i)
	if err != nil {
		return err
	}
	data := u.rules.Marshal(v)
	if uint64(len(data)) != b.Size {
		return fmt.Errorf("%w: %T is %d bytes, binding %d is %d",
			ErrSizeMismatch, v, len(data), i, b.Size)
	}
	if err := u.queue.WriteBuffer(raw, b.Offset, data); err != nil {
		return fmt.Errorf("gpu: write buffer: %w", err)
	}
	return nil
}

// Read copies the i-th binding of buf into a staging buffer, maps it and
// decodes it into the value ptr points to. The buffer must have been
// created WithReadback.
func (u *Uploader) Read(buf *Buffer, i int, ptr any) error {
	raw := buf.Raw()
	if raw == nil {
		return ErrBufferDestroyed
	}
	if !buf.Usage().Contains(gputypes.BufferUsageCopySrc) {
		return ErrNotReadable
	}
	b, err := buf.Binding(i)
	if err != nil {
		return err
	}
	if b.Size == 0 {
		return u.rules.Unmarshal(nil, ptr)
	}

	data, err := u.readBack(raw, b.Offset, b.Size)
	if err != nil {
		return err
	}
	return u.rules.Unmarshal(data, ptr)
}

// readBack returns size bytes of src starting at offset. Uniform and
// storage buffers cannot be mapped for reading, so the range goes through
// a MapRead|CopyDst staging buffer mapped from offset 0.
func (u *Uploader) readBack(src hal.Buffer, offset, size uint64) ([]byte, error) {
	copySize := (size + copyBufferAlignment - 1) &^ (copyBufferAlignment - 1)
	staging, err := u.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gpulayout_staging",
		Size:  copySize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer u.device.DestroyBuffer(staging)

	encoder, err := u.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gpulayout_readback"})
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gpulayout_readback"); err != nil {
		return nil, fmt.Errorf("gpu: begin encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(src, staging, []hal.BufferCopy{
		{SrcOffset: offset, DstOffset: 0, Size: copySize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer u.device.FreeCommandBuffer(cmdBuf)

	if _, err := u.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return nil, fmt.Errorf("gpu: submit: %w", err)
	}
	if err := u.device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("gpu: wait for copy: %w", err)
	}

	mapping, err := u.device.MapBuffer(staging, 0, copySize)
	if err != nil {
		return nil, fmt.Errorf("gpu: map staging buffer: %w", err)
	}
	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(mapping.Ptr), size)) //nolint:gosec // mapping covers copySize bytes
	if err := u.device.UnmapBuffer(staging); err != nil {
		gpulayout.Logger().Warn("gpu: unmap staging buffer failed", "err", err)
	}
	return data, nil
}

func isDynamic(v any) bool {
	_, ok := gpulayout.TypeOf(v).(gpulayout.DynamicOffset)
	return ok
}
