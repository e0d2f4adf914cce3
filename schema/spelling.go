package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gpulayout"
)

// parseType resolves a type spelling such as "vec3", "Light[2][4]" or
// "dynamic<mat4>".
func (s *Schema) parseType(spelling string) (gpulayout.Type, error) {
	spelling = strings.TrimSpace(spelling)
	if spelling == "" {
		return nil, fmt.Errorf("%w: empty type", ErrSyntax)
	}

	base, dims, err := splitDims(spelling)
	if err != nil {
		return nil, err
	}

	var t gpulayout.Type
	if inner, ok := strings.CutPrefix(base, "dynamic<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return nil, fmt.Errorf("%w: unterminated %q", ErrSyntax, spelling)
		}
		it, err := s.parseType(inner)
		if err != nil {
			return nil, err
		}
		t = gpulayout.DynamicOffset{Inner: it}
	} else if strings.ContainsAny(base, "[]<>") {
		return nil, fmt.Errorf("%w: malformed %q", ErrSyntax, spelling)
	} else if st, ok := s.byName[base]; ok {
		t = st
	} else if t, err = catalogType(base); err != nil {
		return nil, err
	}

	// "T[2][4]" is two arrays of four T.
	for i := len(dims) - 1; i >= 0; i-- {
		t = gpulayout.ArrayOf(t, dims[i])
	}
	return t, nil
}

// splitDims separates trailing array dimensions from a spelling.
func splitDims(spelling string) (string, []int, error) {
	var dims []int
	for strings.HasSuffix(spelling, "]") {
		open := strings.LastIndexByte(spelling, '[')
		if open < 0 {
			return "", nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrSyntax, spelling)
		}
		n, err := strconv.Atoi(strings.TrimSpace(spelling[open+1 : len(spelling)-1]))
		if err != nil || n < 0 {
			return "", nil, fmt.Errorf("%w: bad array length in %q", ErrSyntax, spelling)
		}
		dims = append([]int{n}, dims...)
		spelling = strings.TrimSpace(spelling[:open])
	}
	return spelling, dims, nil
}

var scalars = map[string]gpulayout.ScalarKind{
	"float":  gpulayout.KindFloat,
	"int":    gpulayout.KindInt,
	"uint":   gpulayout.KindUint,
	"bool":   gpulayout.KindBool,
	"double": gpulayout.KindDouble,
}

var prefixes = map[string]gpulayout.ScalarKind{
	"":  gpulayout.KindFloat,
	"i": gpulayout.KindInt,
	"u": gpulayout.KindUint,
	"b": gpulayout.KindBool,
	"d": gpulayout.KindDouble,
}

// catalogType resolves a GLSL scalar, vector or matrix name.
func catalogType(name string) (gpulayout.Type, error) {
	if k, ok := scalars[name]; ok {
		return gpulayout.Scalar{Kind: k}, nil
	}

	if prefix, n, ok := strings.Cut(name, "vec"); ok {
		if k, ok := prefixes[prefix]; ok {
			if n, ok := dim(n); ok {
				return gpulayout.Vec(k, n), nil
			}
		}
	}

	if prefix, shape, ok := strings.Cut(name, "mat"); ok {
		k, ok := prefixes[prefix]
		if ok && (k == gpulayout.KindFloat || k == gpulayout.KindDouble) {
			colSpec, rowSpec, hasRows := strings.Cut(shape, "x")
			cols, okC := dim(colSpec)
			rows, okR := cols, true
			if hasRows {
				rows, okR = dim(rowSpec)
			}
			if okC && okR {
				return gpulayout.Mat(k, cols, rows), nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// dim parses a single vector or matrix dimension digit.
func dim(s string) (int, bool) {
	if len(s) != 1 || s[0] < '2' || s[0] > '4' {
		return 0, false
	}
	return int(s[0] - '0'), true
}
