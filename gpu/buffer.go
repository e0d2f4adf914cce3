package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyBufferAlignment is the granularity of buffer sizes and queue writes.
const copyBufferAlignment uint64 = 4

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the buffer size in bytes. It is rounded up to a multiple of 4.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage gputypes.BufferUsage

	// MappedAtCreation creates the buffer pre-mapped for writing.
	MappedAtCreation bool
}

// Binding is the placement of one uploaded value inside a Buffer.
type Binding struct {
	// Offset is the byte offset of the value. For dynamic bindings it is the
	// dynamic offset to pass at draw time.
	Offset uint64

	// Size is the device size of the value in bytes.
	Size uint64

	// Type is the binding type the buffer's usage implies.
	Type gputypes.BufferBindingType

	// Dynamic reports whether the value was wrapped in a DynamicUniform.
	Dynamic bool
}

// Layout returns the bind group layout entry for the binding.
func (b Binding) Layout() gputypes.BufferBindingLayout {
	return gputypes.BufferBindingLayout{
		Type:             b.Type,
		HasDynamicOffset: b.Dynamic,
		MinBindingSize:   b.Size,
	}
}

// Buffer is a GPU buffer holding laid-out values.
//
// Buffer is safe for concurrent use.
type Buffer struct {
	mu sync.RWMutex

	halBuffer  hal.Buffer
	device     hal.Device
	descriptor BufferDescriptor
	bindings   []Binding
	destroyed  bool
}

// Label returns the buffer's debug label.
func (b *Buffer) Label() string {
	return b.descriptor.Label
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 {
	return b.descriptor.Size
}

// Usage returns the buffer usage flags.
func (b *Buffer) Usage() gputypes.BufferUsage {
	return b.descriptor.Usage
}

// Descriptor returns a copy of the buffer descriptor.
func (b *Buffer) Descriptor() BufferDescriptor {
	return b.descriptor
}

// Bindings returns the placement of every uploaded value, in upload order.
func (b *Buffer) Bindings() []Binding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Binding(nil), b.bindings...)
}

// Binding returns the placement of the i-th uploaded value.
func (b *Buffer) Binding(i int) (Binding, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.bindings) {
		return Binding{}, fmt.Errorf("%w: %d of %d", ErrNoBinding, i, len(b.bindings))
	}
	return b.bindings[i], nil
}

// IsDestroyed reports whether Destroy has been called.
func (b *Buffer) IsDestroyed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.destroyed
}

// Raw returns the underlying HAL buffer, or nil after Destroy.
func (b *Buffer) Raw() hal.Buffer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.destroyed {
		return nil
	}
	return b.halBuffer
}

// Destroy releases the buffer. It is safe to call more than once.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.destroyed = true
	device, raw := b.device, b.halBuffer
	b.halBuffer = nil
	b.mu.Unlock()

	if device != nil && raw != nil {
		device.DestroyBuffer(raw)
	}
}

// CreateBuffer creates a buffer on device.
//
// Returns an error if the device or descriptor is nil, the size is zero,
// the usage is empty, or the device fails to create the buffer.
func CreateBuffer(device hal.Device, desc *BufferDescriptor) (*Buffer, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if desc == nil {
		return nil, fmt.Errorf("gpu: buffer descriptor is nil")
	}
	if desc.Size == 0 {
		return nil, fmt.Errorf("%w: size is 0", ErrInvalidBufferSize)
	}
	if desc.Usage == 0 {
		return nil, ErrEmptyUsage
	}

	alignedSize := (desc.Size + copyBufferAlignment - 1) &^ (copyBufferAlignment - 1)
	halBuffer, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label:            desc.Label,
		Size:             alignedSize,
		Usage:            desc.Usage,
		MappedAtCreation: desc.MappedAtCreation,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: buffer creation failed: %w", err)
	}

	resolved := *desc
	resolved.Size = alignedSize
	return &Buffer{
		halBuffer:  halBuffer,
		device:     device,
		descriptor: resolved,
	}, nil
}
