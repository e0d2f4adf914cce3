package gpulayout

import (
	"fmt"
	"math/bits"
)

// Descriptor is the size and alignment of a value in device memory.
//
// Align is always a power of two. Size does not have to be a multiple of
// Align: a vec3 is 12 bytes with 16-byte alignment, and a std430 struct is
// not padded at its end.
type Descriptor struct {
	Size  int
	Align int
}

// Stride returns the distance between consecutive elements of an array of
// d under r.
func (d Descriptor) Stride(r Rules) int {
	return AlignUp(d.Size, r.ArrayAlign(d))
}

// String returns "size N align A".
func (d Descriptor) String() string {
	return fmt.Sprintf("size %d align %d", d.Size, d.Align)
}

// mustValid panics if d is not a usable descriptor. what names the value
// for the panic message.
func (d Descriptor) mustValid(what string) {
	if !isPowerOfTwo(d.Align) {
		panic(fmt.Sprintf("gpulayout: %s: alignment %d is not a power of two", what, d.Align))
	}
	if d.Size < 0 {
		panic(fmt.Sprintf("gpulayout: %s: negative size %d", what, d.Size))
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// PadTo returns the number of bytes needed to move offset up to the next
// multiple of align. It returns 0 when offset is already aligned.
//
// PadTo panics if align is not a power of two.
func PadTo(offset, align int) int {
	if !isPowerOfTwo(align) {
		panic(fmt.Sprintf("gpulayout: alignment %d is not a power of two", align))
	}
	return (align - offset&(align-1)) & (align - 1)
}

// AlignUp rounds offset up to the next multiple of align.
func AlignUp(offset, align int) int {
	return offset + PadTo(offset, align)
}
