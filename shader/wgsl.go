package shader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gogpu/gpulayout"
)

// ErrInexpressible is returned when WGSL cannot declare a layout: double
// precision values, matrices whose column stride differs from WGSL's, and
// members smaller than WGSL's size for their type.
var ErrInexpressible = errors.New("shader: layout not expressible in WGSL")

// wgslType is a WGSL type name with the alignment and size WGSL gives it
// when no attributes apply.
type wgslType struct {
	name   string
	align  int
	size   int
	attrib bool // alignment depends on member attributes; always spell it out
}

// wgslGen emits WGSL declarations for one rule set.
type wgslGen struct {
	rules   gpulayout.Rules
	out     strings.Builder
	structs map[*gpulayout.Struct]wgslType
	names   map[string]int
	wrapped map[string]bool

	// order lists emitted structs with their WGSL names.
	order []emitted
}

type emitted struct {
	s    *gpulayout.Struct
	name string
}

func newWGSLGen(r gpulayout.Rules) *wgslGen {
	return &wgslGen{
		rules:   r,
		structs: make(map[*gpulayout.Struct]wgslType),
		names:   make(map[string]int),
		wrapped: make(map[string]bool),
	}
}

// WGSL returns WGSL struct declarations for s and every struct it contains
// whose member offsets are those of s laid out with r. bool members are
// declared as u32, since WGSL bool is not host-shareable.
func WGSL(s *gpulayout.Struct, r gpulayout.Rules) (string, error) {
	g := newWGSLGen(r)
	if _, err := g.structType(s); err != nil {
		return "", err
	}
	return g.out.String(), nil
}

func (g *wgslGen) typeOf(t gpulayout.Type) (wgslType, error) {
	switch t := t.(type) {
	case gpulayout.Scalar:
		name, err := wgslScalar(t.Kind)
		if err != nil {
			return wgslType{}, err
		}
		return wgslType{name: name, align: 4, size: 4}, nil

	case gpulayout.Vector:
		name, err := wgslScalar(t.Kind)
		if err != nil {
			return wgslType{}, err
		}
		align := 16
		if t.Len == 2 {
			align = 8
		}
		return wgslType{
			name:  "vec" + strconv.Itoa(t.Len) + "<" + name + ">",
			align: align,
			size:  4 * t.Len,
		}, nil

	case gpulayout.Matrix:
		if t.Kind != gpulayout.KindFloat {
			return wgslType{}, fmt.Errorf("%w: %s", ErrInexpressible, t)
		}
		colAlign := 16
		if t.Rows == 2 {
			colAlign = 8
		}
		if stride := t.ColumnStride(g.rules); stride != colAlign {
			return wgslType{}, fmt.Errorf("%w: %s column stride %d under %s, WGSL uses %d",
				ErrInexpressible, t, stride, g.rules, colAlign)
		}
		return wgslType{
			name:  "mat" + strconv.Itoa(t.Cols) + "x" + strconv.Itoa(t.Rows) + "<f32>",
			align: colAlign,
			size:  colAlign * t.Cols,
		}, nil

	case gpulayout.Array:
		return g.arrayType(t)

	case *gpulayout.Struct:
		return g.structType(t)

	case gpulayout.DynamicOffset:
		return g.typeOf(t.Inner)

	default:
		return wgslType{}, fmt.Errorf("%w: %T", ErrInexpressible, t)
	}
}

func wgslScalar(k gpulayout.ScalarKind) (string, error) {
	switch k {
	case gpulayout.KindFloat:
		return "f32", nil
	case gpulayout.KindInt:
		return "i32", nil
	case gpulayout.KindUint, gpulayout.KindBool:
		return "u32", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInexpressible, k)
	}
}

// arrayType declares the array directly when WGSL's stride matches and
// through a struct wrapping one padded element otherwise.
func (g *wgslGen) arrayType(a gpulayout.Array) (wgslType, error) {
	if a.Len == 0 {
		return wgslType{}, fmt.Errorf("%w: zero-length array", ErrInexpressible)
	}
	elem, err := g.typeOf(a.Elem)
	if err != nil {
		return wgslType{}, err
	}
	stride := a.Stride(g.rules)
	if natural := gpulayout.AlignUp(elem.size, elem.align); natural != stride {
		if stride < elem.size || stride%elem.align != 0 {
			return wgslType{}, fmt.Errorf("%w: %s stride %d", ErrInexpressible, a, stride)
		}
		elem = g.wrapper(elem, stride)
	}
	return wgslType{
		name:   "array<" + elem.name + ", " + strconv.Itoa(a.Len) + ">",
		align:  elem.align,
		size:   stride * a.Len,
		attrib: elem.attrib,
	}, nil
}

// wrapper declares a struct holding one elem padded to stride bytes.
func (g *wgslGen) wrapper(elem wgslType, stride int) wgslType {
	name := "Padded_" + ident(elem.name) + "_" + strconv.Itoa(stride)
	if !g.wrapped[name] {
		g.wrapped[name] = true
		fmt.Fprintf(&g.out, "struct %s {\n    @size(%d) value: %s,\n}\n\n", name, stride, elem.name)
	}
	return wgslType{name: name, align: elem.align, size: stride, attrib: true}
}

// structType declares s, after the types it depends on, and returns its
// WGSL name and natural size.
func (g *wgslGen) structType(s *gpulayout.Struct) (wgslType, error) {
	if t, ok := g.structs[s]; ok {
		return t, nil
	}

	layout := s.Layout(g.rules)
	members := make([]string, len(s.Fields))
	natural := 1
	effective := 1
	for i, f := range s.Fields {
		ft, err := g.typeOf(f.Type)
		if err != nil {
			return wgslType{}, fmt.Errorf("%s.%s: %w", s.Name, f.Name, err)
		}
		place := layout.Fields[i]

		size := place.Size
		if i == len(s.Fields)-1 {
			size += place.Padding
		}
		if size < ft.size {
			return wgslType{}, fmt.Errorf("%w: %s.%s is %d bytes, WGSL %s needs %d",
				ErrInexpressible, s.Name, f.Name, size, ft.name, ft.size)
		}

		var attrs []string
		if place.Align != ft.align || ft.attrib {
			attrs = append(attrs, "@align("+strconv.Itoa(place.Align)+")")
		}
		if size != ft.size {
			attrs = append(attrs, "@size("+strconv.Itoa(size)+")")
		}
		attrs = append(attrs, f.Name+": "+ft.name)
		members[i] = strings.Join(attrs, " ")

		natural = max(natural, ft.align)
		effective = max(effective, place.Align)
	}

	name := g.structName(s.Name)
	fmt.Fprintf(&g.out, "struct %s {\n", name)
	for _, m := range members {
		g.out.WriteString("    " + m + ",\n")
	}
	g.out.WriteString("}\n\n")

	end := 0
	if n := len(layout.Fields); n > 0 {
		last := layout.Fields[n-1]
		end = last.End() + last.Padding
	}
	t := wgslType{
		name:   name,
		align:  natural,
		size:   gpulayout.AlignUp(end, effective),
		attrib: true,
	}
	g.structs[s] = t
	g.order = append(g.order, emitted{s: s, name: name})
	return t, nil
}

// structName returns a WGSL name for a struct, unique within the output.
func (g *wgslGen) structName(name string) string {
	name = ident(name)
	g.names[name]++
	if n := g.names[name]; n > 1 {
		return name + "_" + strconv.Itoa(n)
	}
	return name
}

// ident turns a type spelling such as "vec3<f32>" into an identifier
// such as "vec3_f32".
func ident(s string) string {
	var sb strings.Builder
	sep := false
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			sep = sb.Len() > 0
			continue
		}
		if sep {
			sb.WriteByte('_')
			sep = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return "Struct"
	}
	return sb.String()
}
