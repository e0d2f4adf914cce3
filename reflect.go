package gpulayout

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Host struct fields are mapped to device members in declaration order.
// Unexported fields are skipped. The gpu struct tag renames a member or,
// with "-", skips it:
//
//	type Light struct {
//		Position gpulayout.Vec3 `gpu:"position"`
//		Color    gpulayout.Vec3 `gpu:"color"`
//		cache    int            // not part of the device layout
//		Debug    string         `gpu:"-"`
//	}
const tagName = "gpu"

var (
	typeCache       sync.Map // reflect.Type -> Type
	deviceTyperType = reflect.TypeFor[deviceTyper]()
)

// hostField is a host struct field that takes part in the device layout.
type hostField struct {
	index int
	name  string
}

// hostFields returns the fields of struct type t that map to device
// members, in declaration order.
func hostFields(t reflect.Type) []hostField {
	fields := make([]hostField, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup(tagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, hostField{index: i, name: name})
	}
	return fields
}

// TypeFor returns the device type of host type t.
//
// float32, int32, uint32, float64 and bool map to scalars; the catalog
// types in this package map to vectors and matrices; Go arrays map to
// arrays; other structs map to a Struct of their mapped fields. A
// top-level pointer is dereferenced; pointer fields are not supported.
//
// TypeFor panics if t or one of its fields has no device mapping, such as
// int, string, slices or maps.
func TypeFor(t reflect.Type) Type {
	if t == nil {
		panic("gpulayout: TypeFor(nil)")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return typeFor(t)
}

func typeFor(t reflect.Type) Type {
	if typ, ok := typeCache.Load(t); ok {
		return typ.(Type)
	}
	typ, _ := typeCache.LoadOrStore(t, buildType(t))
	return typ.(Type)
}

// TypeOf returns the device type of v's dynamic type.
func TypeOf(v any) Type {
	if v == nil {
		panic("gpulayout: TypeOf(nil)")
	}
	return TypeFor(reflect.TypeOf(v))
}

// isCatalogType reports whether t is one of this package's catalog or
// adapter types. Embedding one in a struct promotes deviceType, so structs
// with embedded fields are laid out as structs.
func isCatalogType(t reflect.Type) bool {
	if !t.Implements(deviceTyperType) {
		return false
	}
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			if t.Field(i).Anonymous {
				return false
			}
		}
	}
	return true
}

func buildType(t reflect.Type) Type {
	if isCatalogType(t) {
		return reflect.Zero(t).Interface().(deviceTyper).deviceType()
	}
	switch t.Kind() {
	case reflect.Float32:
		return TypeFloat
	case reflect.Int32:
		return TypeInt
	case reflect.Uint32:
		return TypeUint
	case reflect.Float64:
		return TypeDouble
	case reflect.Bool:
		return TypeBool
	case reflect.Array:
		return ArrayOf(typeFor(t.Elem()), t.Len())
	case reflect.Struct:
		hf := hostFields(t)
		fields := make([]StructField, len(hf))
		for i, f := range hf {
			fields[i] = StructField{Name: f.name, Type: typeFor(t.Field(f.index).Type)}
		}
		name := t.Name()
		if name == "" {
			name = "anonymous"
		}
		return NewStruct(name, fields...)
	default:
		panic(fmt.Sprintf("gpulayout: %s has no device representation", t))
	}
}
