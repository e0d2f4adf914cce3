package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpulayout"
)

// Option configures an Uploader.
//
// Example:
//
//	up, err := gpu.NewUploader(device, queue, gpulayout.Std430,
//		gpu.WithLabel("particles"),
//		gpu.WithReadback(),
//	)
type Option func(*options)

type options struct {
	limits   gputypes.Limits
	usage    gputypes.BufferUsage
	readback bool
	mapped   bool
	label    string
}

// defaultOptions binds std140-style rules to uniform buffers and every
// other rule set to storage buffers.
func defaultOptions(r gpulayout.Rules) options {
	usage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst
	if r.MinArrayAlign >= 16 {
		usage = gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst
	}
	return options{
		limits: gputypes.DefaultLimits(),
		usage:  usage,
		label:  "gpulayout-" + r.String(),
	}
}

// WithLimits sets the device limits bindings are checked against.
// The default is gputypes.DefaultLimits.
func WithLimits(l gputypes.Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// WithUsage replaces the buffer usage flags. Include BufferUsageStorage to
// get storage bindings; otherwise bindings are uniform.
func WithUsage(u gputypes.BufferUsage) Option {
	return func(o *options) {
		o.usage = u
	}
}

// WithReadback adds CopySrc usage so values can be copied to a staging
// buffer and read back with Uploader.Read.
func WithReadback() Option {
	return func(o *options) {
		o.readback = true
	}
}

// WithMappedUpload creates buffers mapped at creation and writes values
// through that mapping instead of a queue write.
func WithMappedUpload() Option {
	return func(o *options) {
		o.mapped = true
	}
}

// WithLabel sets the debug label of created buffers.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

func (o *options) bufferUsage() gputypes.BufferUsage {
	u := o.usage
	if o.readback {
		u |= gputypes.BufferUsageCopySrc
	}
	return u
}

func (o *options) bindingType() gputypes.BufferBindingType {
	if o.usage.Contains(gputypes.BufferUsageStorage) {
		return gputypes.BufferBindingTypeStorage
	}
	return gputypes.BufferBindingTypeUniform
}

// offsetAlignment returns the dynamic offset alignment for the binding type.
func (o *options) offsetAlignment() uint64 {
	if o.bindingType() == gputypes.BufferBindingTypeStorage {
		return uint64(o.limits.MinStorageBufferOffsetAlignment)
	}
	return uint64(o.limits.MinUniformBufferOffsetAlignment)
}

func (o *options) maxBindingSize() uint64 {
	if o.bindingType() == gputypes.BufferBindingTypeStorage {
		return o.limits.MaxStorageBufferBindingSize
	}
	return o.limits.MaxUniformBufferBindingSize
}
