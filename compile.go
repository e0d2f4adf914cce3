package gpulayout

import (
	"fmt"
	"strings"
)

// Field is one member of a composite, in declaration order.
type Field struct {
	Name string
	Desc Descriptor
}

// FieldLayout is the placement of one field inside a compiled Layout.
type FieldLayout struct {
	Name   string
	Offset int
	Size   int
	Align  int

	// Padding is the number of zeroed bytes between the end of this field
	// and the start of the next one. For the last field it is the padding
	// at the end of the struct.
	Padding int
}

// End returns the offset just past the field's data bytes.
func (f FieldLayout) End() int {
	return f.Offset + f.Size
}

// Layout is a compiled composite: every field's offset and padding, the
// total size and the alignment, under one rule set.
type Layout struct {
	Rules  Rules
	Fields []FieldLayout
	Size   int
	Align  int
}

// Compile lays out fields in order under r.
//
// Each field starts at the first offset after the previous field's data
// that satisfies the field's own alignment. The struct alignment is the
// widest field alignment, raised to r.MinStructAlign. When r.PadStructEnd
// is set the size is rounded up to that alignment.
//
// Compile panics if a field has an invalid descriptor.
func Compile(fields []Field, r Rules) *Layout {
	l := &Layout{
		Rules:  r,
		Fields: make([]FieldLayout, len(fields)),
	}

	var offset, widest int
	for i, f := range fields {
		f.Desc.mustValid("field " + f.Name)

		pad := PadTo(offset, f.Desc.Align)
		if i > 0 {
			l.Fields[i-1].Padding = pad
		}
		offset += pad

		l.Fields[i] = FieldLayout{
			Name:   f.Name,
			Offset: offset,
			Size:   f.Desc.Size,
			Align:  f.Desc.Align,
		}
		offset += f.Desc.Size
		widest = max(widest, f.Desc.Align)
	}

	l.Align = r.structAlign(widest)
	l.Size = offset
	if r.PadStructEnd {
		l.Size = AlignUp(offset, l.Align)
	}
	if n := len(l.Fields); n > 0 {
		l.Fields[n-1].Padding = l.Size - offset
	}
	return l
}

// Descriptor returns the layout's size and alignment.
func (l *Layout) Descriptor() Descriptor {
	return Descriptor{Size: l.Size, Align: l.Align}
}

// Field returns the placement of the named field.
func (l *Layout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Offsets returns the field offsets in declaration order.
func (l *Layout) Offsets() []int {
	offsets := make([]int, len(l.Fields))
	for i, f := range l.Fields {
		offsets[i] = f.Offset
	}
	return offsets
}

// String renders the layout as a small table, one field per line.
func (l *Layout) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: size %d align %d\n", l.Rules, l.Size, l.Align)
	for _, f := range l.Fields {
		fmt.Fprintf(&sb, "  %-16s offset %4d size %4d align %3d pad %3d\n",
			f.Name, f.Offset, f.Size, f.Align, f.Padding)
	}
	return sb.String()
}
