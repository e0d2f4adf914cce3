package gpulayout

import "strings"

// Rules selects a device buffer layout convention.
//
// The two standard conventions, Std140 and Std430, share the offset
// algorithm and the primitive catalog. They differ only in the three
// parameters below.
type Rules struct {
	// Name identifies the rule set in logs and shader declarations.
	Name string

	// MinStructAlign is the smallest alignment a struct may have.
	// 16 for std140, 0 for std430.
	MinStructAlign int

	// MinArrayAlign is the smallest alignment (and stride granularity) of
	// an array element or matrix column. 0 means the element's own
	// alignment is used.
	MinArrayAlign int

	// PadStructEnd rounds a struct's size up to its alignment. Structs used
	// as array elements are padded by the array stride regardless.
	PadStructEnd bool
}

var (
	// Std140 is the uniform block layout: structs and arrays are rounded
	// to 16 bytes and every struct is padded at its end.
	Std140 = Rules{
		Name:           "std140",
		MinStructAlign: 16,
		MinArrayAlign:  16,
		PadStructEnd:   true,
	}

	// Std430 is the storage block layout: arrays and structs keep the
	// alignment of their members and structs are only padded when used as
	// array elements.
	Std430 = Rules{
		Name: "std430",
	}
)

// String returns the rule set name.
func (r Rules) String() string {
	if r.Name == "" {
		return "custom"
	}
	return r.Name
}

// WithStructEndPadding returns a copy of r with PadStructEnd set to pad.
// Std430.WithStructEndPadding(true) matches WGSL host-shareable layout.
//
// The name records the change from the named rule set; toggling back
// restores the original value, so both compare equal and share caches.
func (r Rules) WithStructEndPadding(pad bool) Rules {
	if r.PadStructEnd == pad {
		return r
	}
	r.PadStructEnd = pad
	if r.Name == "" {
		return r
	}
	add, undo := "+endpad", "-endpad"
	if !pad {
		add, undo = undo, add
	}
	if base, ok := strings.CutSuffix(r.Name, undo); ok {
		r.Name = base
	} else {
		r.Name += add
	}
	return r
}

// ArrayAlign returns the alignment of an array whose elements are
// described by elem.
func (r Rules) ArrayAlign(elem Descriptor) int {
	return max(r.MinArrayAlign, elem.Align)
}

// structAlign returns the alignment of a struct whose widest member has
// alignment widest.
func (r Rules) structAlign(widest int) int {
	return max(r.MinStructAlign, widest, 1)
}
