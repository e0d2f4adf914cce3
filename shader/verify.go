package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/gpulayout"
)

// ErrMismatch is returned by Verify when the compiler places a member at a
// different offset than gpulayout.
var ErrMismatch = errors.New("shader: compiler layout differs")

// Verify declares s in WGSL, compiles the declaration with naga and checks
// that naga places every member of s and of the structs it contains at the
// offset gpulayout computes under r.
func Verify(s *gpulayout.Struct, r gpulayout.Rules) error {
	g := newWGSLGen(r)
	top, err := g.structType(s)
	if err != nil {
		return err
	}
	src := g.out.String() +
		"@group(0) @binding(0) var<storage, read> gpulayout_block: " + top.name + ";\n"

	ast, err := naga.Parse(src)
	if err != nil {
		return fmt.Errorf("shader: parse generated WGSL: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return fmt.Errorf("shader: lower generated WGSL: %w", err)
	}

	compiled := make(map[string]ir.StructType)
	for _, t := range module.Types {
		if st, ok := t.Inner.(ir.StructType); ok && t.Name != "" {
			compiled[t.Name] = st
		}
	}

	for _, e := range g.order {
		st, ok := compiled[e.name]
		if !ok {
			return fmt.Errorf("%w: struct %s missing from compiled module", ErrMismatch, e.name)
		}
		if err := compareStruct(e.s.Layout(r), e.name, st); err != nil {
			return err
		}
	}

	gpulayout.Logger().Debug("shader: verified layout with naga",
		"struct", s.Name, "rules", r.String(), "structs", len(g.order))
	return nil
}

func compareStruct(l *gpulayout.Layout, name string, st ir.StructType) error {
	if len(st.Members) != len(l.Fields) {
		return fmt.Errorf("%w: %s has %d members, compiled struct has %d",
			ErrMismatch, name, len(l.Fields), len(st.Members))
	}
	for i, f := range l.Fields {
		if got := int(st.Members[i].Offset); got != f.Offset {
			return fmt.Errorf("%w: %s.%s at offset %d, naga places it at %d",
				ErrMismatch, name, f.Name, f.Offset, got)
		}
	}
	if l.Rules.PadStructEnd && int(st.Span) != l.Size {
		return fmt.Errorf("%w: %s is %d bytes, naga makes it %d",
			ErrMismatch, name, l.Size, st.Span)
	}
	return nil
}
