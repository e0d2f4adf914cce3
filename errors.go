package gpulayout

import "errors"

var (
	// ErrPoisoned is returned by every Writer method after a write to the
	// underlying sink failed. The sink's error is wrapped alongside it.
	ErrPoisoned = errors.New("gpulayout: writer poisoned by an earlier sink error")

	// ErrShortBuffer is returned when decoding from fewer bytes than the
	// device size of the target.
	ErrShortBuffer = errors.New("gpulayout: buffer shorter than device size")

	// ErrInvalidTarget is returned when a decode target is not a non-nil
	// pointer.
	ErrInvalidTarget = errors.New("gpulayout: decode target must be a non-nil pointer")

	// ErrBufferFull is returned by FixedBuffer when a write does not fit.
	ErrBufferFull = errors.New("gpulayout: fixed buffer full")
)
