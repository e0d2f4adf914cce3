// Package std430 lays out values with the std430 rules.
//
// It is a shorthand for the [gpulayout.Std430] rule set.
package std430

import (
	"io"

	"github.com/gogpu/gpulayout"
)

// Rules is the std430 rule set.
var Rules = gpulayout.Std430

// Marshal returns the std430 bytes of v.
func Marshal(v any) []byte { return Rules.Marshal(v) }

// Unmarshal decodes std430 bytes into the value ptr points to.
func Unmarshal(data []byte, ptr any) error { return Rules.Unmarshal(data, ptr) }

// Mirror encodes v as a std430 mirror.
func Mirror(v any) gpulayout.Mirror { return Rules.Mirror(v) }

// LayoutOf returns the std430 layout of struct value v.
func LayoutOf(v any) *gpulayout.Layout { return Rules.LayoutOf(v) }

// SizeOf returns the std430 size of v.
func SizeOf(v any) int { return Rules.SizeOf(v) }

// NewWriter returns a Writer that lays values out with std430.
func NewWriter(w io.Writer) *gpulayout.Writer { return gpulayout.NewWriter(w, Rules) }

// NewSizer returns a Sizer for std430.
func NewSizer() *gpulayout.Sizer { return gpulayout.NewSizer(Rules) }
