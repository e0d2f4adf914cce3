package gpu

import "errors"

var (
	// ErrNilDevice is returned when a device is required but nil.
	ErrNilDevice = errors.New("gpu: device is nil")

	// ErrNilQueue is returned when a queue is required but nil.
	ErrNilQueue = errors.New("gpu: queue is nil")

	// ErrNoHAL is returned when a device provider exposes no HAL device or queue.
	ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("gpu: buffer has been destroyed")

	// ErrInvalidBufferSize is returned when a buffer size is zero.
	ErrInvalidBufferSize = errors.New("gpu: invalid buffer size")

	// ErrEmptyUsage is returned when a buffer descriptor has no usage flags.
	ErrEmptyUsage = errors.New("gpu: buffer usage is empty")

	// ErrNothingToUpload is returned by Upload without values.
	ErrNothingToUpload = errors.New("gpu: nothing to upload")

	// ErrBindingTooLarge is returned when a value exceeds the device's
	// maximum binding size.
	ErrBindingTooLarge = errors.New("gpu: value exceeds max binding size")

	// ErrBindingMisaligned is returned when a dynamic-offset value does not
	// start at a multiple of the device's offset alignment.
	ErrBindingMisaligned = errors.New("gpu: dynamic binding offset misaligned")

	// ErrNoBinding is returned for a binding index the buffer does not have.
	ErrNoBinding = errors.New("gpu: no such binding")

	// ErrSizeMismatch is returned when an update does not match the binding size.
	ErrSizeMismatch = errors.New("gpu: value size does not match binding")

	// ErrNotReadable is returned by Read on a buffer created without
	// WithReadback.
	ErrNotReadable = errors.New("gpu: buffer has no CopySrc usage")
)
