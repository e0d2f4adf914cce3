package gpulayout

import (
	"fmt"
	"strconv"
	"sync"
)

// Type is a device-side type: a catalog primitive, an array, a struct or
// an adapter around one of those. Types are independent of the rule set;
// Descriptor resolves one under a given Rules.
type Type interface {
	// Descriptor returns the size and alignment of the type under r.
	Descriptor(r Rules) Descriptor

	// String returns the type's GLSL spelling.
	String() string
}

// ScalarKind is the component type of scalars, vectors and matrices.
type ScalarKind uint8

const (
	KindFloat ScalarKind = iota + 1
	KindInt
	KindUint
	KindBool
	KindDouble
)

// Width returns the size of one component in bytes.
func (k ScalarKind) Width() int {
	switch k {
	case KindFloat, KindInt, KindUint, KindBool:
		return 4
	case KindDouble:
		return 8
	default:
		panic(fmt.Sprintf("gpulayout: unknown scalar kind %d", k))
	}
}

// String returns the GLSL scalar name.
func (k ScalarKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindDouble:
		return "double"
	default:
		return "ScalarKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// vectorPrefix is the GLSL prefix for vectors and matrices of k.
func (k ScalarKind) vectorPrefix() string {
	switch k {
	case KindInt:
		return "i"
	case KindUint:
		return "u"
	case KindBool:
		return "b"
	case KindDouble:
		return "d"
	default:
		return ""
	}
}

// Scalar is a single float, int, uint, bool or double.
type Scalar struct {
	Kind ScalarKind
}

// Scalar types.
var (
	TypeFloat  = Scalar{Kind: KindFloat}
	TypeInt    = Scalar{Kind: KindInt}
	TypeUint   = Scalar{Kind: KindUint}
	TypeBool   = Scalar{Kind: KindBool}
	TypeDouble = Scalar{Kind: KindDouble}
)

// Descriptor implements Type.
func (s Scalar) Descriptor(Rules) Descriptor {
	w := s.Kind.Width()
	return Descriptor{Size: w, Align: w}
}

func (s Scalar) String() string { return s.Kind.String() }

// Vector is a 2, 3 or 4 component vector.
//
// A 3-component vector is aligned like a 4-component one but keeps its
// 3-component size, so the next member may start in its fourth slot.
type Vector struct {
	Kind ScalarKind
	Len  int
}

// Vec returns the vector type with n components of kind k.
func Vec(k ScalarKind, n int) Vector {
	v := Vector{Kind: k, Len: n}
	v.mustValid()
	return v
}

func (v Vector) mustValid() {
	if v.Len < 2 || v.Len > 4 {
		panic(fmt.Sprintf("gpulayout: vector of %d components", v.Len))
	}
}

// Descriptor implements Type.
func (v Vector) Descriptor(Rules) Descriptor {
	v.mustValid()
	w := v.Kind.Width()
	align := 4 * w
	if v.Len == 2 {
		align = 2 * w
	}
	return Descriptor{Size: v.Len * w, Align: align}
}

func (v Vector) String() string {
	return v.Kind.vectorPrefix() + "vec" + strconv.Itoa(v.Len)
}

// Matrix is a column-major matrix of Cols columns, each a vector of Rows
// components. Columns are laid out as array elements, so under std140 every
// column occupies a multiple of 16 bytes.
type Matrix struct {
	Kind ScalarKind
	Cols int
	Rows int
}

// Mat returns the matrix type with cols columns of rows components.
func Mat(k ScalarKind, cols, rows int) Matrix {
	m := Matrix{Kind: k, Cols: cols, Rows: rows}
	m.mustValid()
	return m
}

func (m Matrix) mustValid() {
	if m.Kind != KindFloat && m.Kind != KindDouble {
		panic(fmt.Sprintf("gpulayout: matrix of %s", m.Kind))
	}
	if m.Cols < 2 || m.Cols > 4 || m.Rows < 2 || m.Rows > 4 {
		panic(fmt.Sprintf("gpulayout: matrix of %dx%d", m.Cols, m.Rows))
	}
}

// Column returns the type of one column.
func (m Matrix) Column() Vector {
	return Vector{Kind: m.Kind, Len: m.Rows}
}

// ColumnStride returns the distance between columns under r.
func (m Matrix) ColumnStride(r Rules) int {
	return m.Column().Descriptor(r).Stride(r)
}

// Descriptor implements Type.
func (m Matrix) Descriptor(r Rules) Descriptor {
	m.mustValid()
	col := m.Column().Descriptor(r)
	return Descriptor{
		Size:  m.Cols * col.Stride(r),
		Align: r.ArrayAlign(col),
	}
}

func (m Matrix) String() string {
	name := m.Kind.vectorPrefix() + "mat" + strconv.Itoa(m.Cols)
	if m.Cols != m.Rows {
		name += "x" + strconv.Itoa(m.Rows)
	}
	return name
}

// Array is a fixed-length array. Each element is padded to the array
// stride with zeroed bytes.
type Array struct {
	Elem Type
	Len  int
}

// ArrayOf returns the array type of n elements of elem.
func ArrayOf(elem Type, n int) Array {
	if n < 0 {
		panic(fmt.Sprintf("gpulayout: array of negative length %d", n))
	}
	return Array{Elem: elem, Len: n}
}

// Stride returns the distance between elements under r.
func (a Array) Stride(r Rules) int {
	return a.Elem.Descriptor(r).Stride(r)
}

// Descriptor implements Type.
func (a Array) Descriptor(r Rules) Descriptor {
	elem := a.Elem.Descriptor(r)
	return Descriptor{
		Size:  a.Len * elem.Stride(r),
		Align: r.ArrayAlign(elem),
	}
}

func (a Array) String() string {
	base, dims := a.split()
	return base.String() + dims
}

// split returns the innermost element type and the GLSL dimension suffix,
// outermost dimension first.
func (a Array) split() (Type, string) {
	dims := "[" + strconv.Itoa(a.Len) + "]"
	if inner, ok := a.Elem.(Array); ok {
		base, rest := inner.split()
		return base, dims + rest
	}
	return a.Elem, dims
}

// StructField is a named member of a Struct.
type StructField struct {
	Name string
	Type Type
}

// Struct is a composite of named members in declaration order.
//
// A Struct compiles its layout once per rule set and caches it; nested
// structs are therefore compiled once no matter how often they are
// referenced.
type Struct struct {
	Name   string
	Fields []StructField

	layouts sync.Map // Rules -> *Layout
}

// NewStruct returns a struct type with the given members.
func NewStruct(name string, fields ...StructField) *Struct {
	return &Struct{Name: name, Fields: fields}
}

// Layout returns the compiled layout of s under r.
func (s *Struct) Layout(r Rules) *Layout {
	if l, ok := s.layouts.Load(r); ok {
		return l.(*Layout)
	}

	fields := make([]Field, len(s.Fields))
	for i, f := range s.Fields {
		if f.Type == nil {
			panic(fmt.Sprintf("gpulayout: %s.%s has no type", s.Name, f.Name))
		}
		fields[i] = Field{Name: f.Name, Desc: f.Type.Descriptor(r)}
	}
	l := Compile(fields, r)
	Logger().Debug("gpulayout: compiled struct",
		"struct", s.Name, "rules", r.String(), "size", l.Size, "align", l.Align)

	actual, _ := s.layouts.LoadOrStore(r, l)
	return actual.(*Layout)
}

// Descriptor implements Type.
func (s *Struct) Descriptor(r Rules) Descriptor {
	return s.Layout(r).Descriptor()
}

func (s *Struct) String() string { return s.Name }

// DynamicOffset marks a value that starts its own dynamically offset
// binding. Its alignment is raised to DynamicOffsetAlignment; its size and
// bytes are those of Inner.
type DynamicOffset struct {
	Inner Type
}

// DynamicOffsetAlignment is the smallest dynamic buffer offset alignment
// every WebGPU, Vulkan and Metal implementation accepts.
const DynamicOffsetAlignment = 256

// Descriptor implements Type.
func (d DynamicOffset) Descriptor(r Rules) Descriptor {
	inner := d.Inner.Descriptor(r)
	return Descriptor{
		Size:  inner.Size,
		Align: max(DynamicOffsetAlignment, inner.Align),
	}
}

func (d DynamicOffset) String() string { return d.Inner.String() }
