// Package std140 lays out values with the std140 rules.
//
// It is a shorthand for the [gpulayout.Std140] rule set.
package std140

import (
	"io"

	"github.com/gogpu/gpulayout"
)

// Rules is the std140 rule set.
var Rules = gpulayout.Std140

// Marshal returns the std140 bytes of v.
func Marshal(v any) []byte { return Rules.Marshal(v) }

// Unmarshal decodes std140 bytes into the value ptr points to.
func Unmarshal(data []byte, ptr any) error { return Rules.Unmarshal(data, ptr) }

// Mirror encodes v as a std140 mirror.
func Mirror(v any) gpulayout.Mirror { return Rules.Mirror(v) }

// LayoutOf returns the std140 layout of struct value v.
func LayoutOf(v any) *gpulayout.Layout { return Rules.LayoutOf(v) }

// SizeOf returns the std140 size of v.
func SizeOf(v any) int { return Rules.SizeOf(v) }

// NewWriter returns a Writer that lays values out with std140.
func NewWriter(w io.Writer) *gpulayout.Writer { return gpulayout.NewWriter(w, Rules) }

// NewSizer returns a Sizer for std140.
func NewSizer() *gpulayout.Sizer { return gpulayout.NewSizer(Rules) }
