// Package schema loads device struct declarations from YAML.
//
// A schema lists structs in dependency order. Member types use GLSL
// spellings, array dimensions follow the type, and dynamic<T> marks a
// value bound with a dynamic offset:
//
//	structs:
//	  - name: Light
//	    fields:
//	      - {name: position, type: vec3}
//	      - {name: intensity, type: float}
//	  - name: Scene
//	    fields:
//	      - {name: lights, type: "Light[4]"}
//	      - {name: view, type: "dynamic<mat4>"}
//
// A struct may only reference structs declared before it.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gpulayout"
)

var (
	// ErrEmpty is returned for a document that declares no structs.
	ErrEmpty = errors.New("schema: no structs declared")

	// ErrDuplicate is returned when a struct or a member name repeats.
	ErrDuplicate = errors.New("schema: duplicate name")

	// ErrUnknownType is returned for a type spelling that is neither a
	// catalog type nor an earlier struct.
	ErrUnknownType = errors.New("schema: unknown type")

	// ErrSyntax is returned for malformed type spellings and missing names.
	ErrSyntax = errors.New("schema: syntax error")
)

type document struct {
	Structs []structDecl `yaml:"structs"`
}

type structDecl struct {
	Name   string      `yaml:"name"`
	Fields []fieldDecl `yaml:"fields"`
}

type fieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Schema is a set of resolved struct types.
type Schema struct {
	structs []*gpulayout.Struct
	byName  map[string]*gpulayout.Struct
}

// Parse decodes a YAML schema and resolves every member type.
// Unknown keys are rejected.
func Parse(data []byte) (*Schema, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if len(doc.Structs) == 0 {
		return nil, ErrEmpty
	}

	s := &Schema{byName: make(map[string]*gpulayout.Struct, len(doc.Structs))}
	for _, decl := range doc.Structs {
		st, err := s.resolve(decl)
		if err != nil {
			return nil, err
		}
		s.structs = append(s.structs, st)
		s.byName[st.Name] = st
	}

	gpulayout.Logger().Debug("schema: parsed", "structs", len(s.structs))
	return s, nil
}

func (s *Schema) resolve(decl structDecl) (*gpulayout.Struct, error) {
	if decl.Name == "" {
		return nil, fmt.Errorf("%w: struct without a name", ErrSyntax)
	}
	if _, ok := s.byName[decl.Name]; ok {
		return nil, fmt.Errorf("%w: struct %s", ErrDuplicate, decl.Name)
	}
	if _, err := catalogType(decl.Name); err == nil {
		return nil, fmt.Errorf("%w: struct %s shadows a built-in type", ErrDuplicate, decl.Name)
	}

	seen := make(map[string]bool, len(decl.Fields))
	fields := make([]gpulayout.StructField, len(decl.Fields))
	for i, f := range decl.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: %s member %d has no name", ErrSyntax, decl.Name, i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicate, decl.Name, f.Name)
		}
		seen[f.Name] = true

		t, err := s.parseType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", decl.Name, f.Name, err)
		}
		fields[i] = gpulayout.StructField{Name: f.Name, Type: t}
	}
	return gpulayout.NewStruct(decl.Name, fields...), nil
}

// Struct returns the struct declared with name.
func (s *Schema) Struct(name string) (*gpulayout.Struct, bool) {
	st, ok := s.byName[name]
	return st, ok
}

// Structs returns every struct in declaration order.
func (s *Schema) Structs() []*gpulayout.Struct {
	return append([]*gpulayout.Struct(nil), s.structs...)
}
