package shader

import (
	"strconv"
	"strings"

	"github.com/gogpu/gpulayout"
)

// BlockKind selects the interface block storage qualifier.
type BlockKind int

const (
	// BlockUniform declares a uniform block.
	BlockUniform BlockKind = iota
	// BlockBuffer declares a shader storage block.
	BlockBuffer
)

func (k BlockKind) String() string {
	if k == BlockBuffer {
		return "buffer"
	}
	return "uniform"
}

// GLSL returns the GLSL definitions of s and every struct it contains,
// innermost first.
func GLSL(s *gpulayout.Struct) string {
	var sb strings.Builder
	seen := make(map[*gpulayout.Struct]bool)
	writeGLSLDeps(&sb, s, seen)
	writeGLSLStruct(&sb, s)
	return sb.String()
}

// GLSLBlock returns an interface block with the members of s, laid out
// with r, preceded by the definitions of the structs it contains.
//
//	layout(std140) uniform Camera {
//	    mat4 view_proj;
//	    vec3 eye;
//	} camera;
func GLSLBlock(s *gpulayout.Struct, r gpulayout.Rules, kind BlockKind, instance string) string {
	var sb strings.Builder
	seen := make(map[*gpulayout.Struct]bool)
	writeGLSLDeps(&sb, s, seen)

	sb.WriteString("layout(" + layoutQualifier(r) + ") " + kind.String() + " " + s.Name + " {\n")
	writeGLSLMembers(&sb, s)
	sb.WriteString("}")
	if instance != "" {
		sb.WriteString(" " + instance)
	}
	sb.WriteString(";\n")
	return sb.String()
}

// layoutQualifier maps a rule set to the GLSL layout qualifier with the
// same array and struct rounding.
func layoutQualifier(r gpulayout.Rules) string {
	if r.MinArrayAlign >= 16 {
		return "std140"
	}
	return "std430"
}

func writeGLSLDeps(sb *strings.Builder, s *gpulayout.Struct, seen map[*gpulayout.Struct]bool) {
	for _, f := range s.Fields {
		dep, ok := baseType(f.Type).(*gpulayout.Struct)
		if !ok || seen[dep] {
			continue
		}
		seen[dep] = true
		writeGLSLDeps(sb, dep, seen)
		writeGLSLStruct(sb, dep)
		sb.WriteString("\n")
	}
}

func writeGLSLStruct(sb *strings.Builder, s *gpulayout.Struct) {
	sb.WriteString("struct " + s.Name + " {\n")
	writeGLSLMembers(sb, s)
	sb.WriteString("};\n")
}

func writeGLSLMembers(sb *strings.Builder, s *gpulayout.Struct) {
	for _, f := range s.Fields {
		base, dims := glslDecl(f.Type)
		sb.WriteString("    " + base + " " + f.Name + dims + ";\n")
	}
}

// glslDecl splits t into the base type name and the array suffix that
// follows the member name.
func glslDecl(t gpulayout.Type) (string, string) {
	var dims strings.Builder
	for {
		switch tt := t.(type) {
		case gpulayout.Array:
			dims.WriteString("[" + strconv.Itoa(tt.Len) + "]")
			t = tt.Elem
			continue
		case gpulayout.DynamicOffset:
			t = tt.Inner
			continue
		}
		return t.String(), dims.String()
	}
}

// baseType strips arrays and adapters from t.
func baseType(t gpulayout.Type) gpulayout.Type {
	for {
		switch tt := t.(type) {
		case gpulayout.Array:
			t = tt.Elem
		case gpulayout.DynamicOffset:
			t = tt.Inner
		default:
			return t
		}
	}
}
