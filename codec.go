package gpulayout

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"sync"
)

// codec encodes and decodes one host type under one rule set.
//
// enc fills all desc.Size bytes of dst, padding included, so callers may
// pass reused scratch memory. dec reads from src of the same length.
type codec struct {
	desc Descriptor
	enc  func(dst []byte, v reflect.Value)
	dec  func(src []byte, v reflect.Value)
}

type codecKey struct {
	t reflect.Type
	r Rules
}

var codecCache sync.Map // codecKey -> *codec

func codecFor(t reflect.Type, r Rules) *codec {
	key := codecKey{t: t, r: r}
	if c, ok := codecCache.Load(key); ok {
		return c.(*codec)
	}
	c, _ := codecCache.LoadOrStore(key, buildCodec(t, typeFor(t), r))
	return c.(*codec)
}

func buildCodec(t reflect.Type, typ Type, r Rules) *codec {
	switch typ := typ.(type) {
	case Scalar:
		return scalarCodec(t)
	case Vector:
		return vectorCodec(t, typ, r)
	case Matrix:
		return matrixCodec(t, typ, r)
	case Array:
		return arrayCodec(t, typ, r)
	case *Struct:
		return structCodec(t, typ, r)
	case DynamicOffset:
		inner := codecFor(t.Field(0).Type, r)
		return &codec{
			desc: typ.Descriptor(r),
			enc:  func(dst []byte, v reflect.Value) { inner.enc(dst, v.Field(0)) },
			dec:  func(src []byte, v reflect.Value) { inner.dec(src, v.Field(0)) },
		}
	default:
		panic(fmt.Sprintf("gpulayout: no codec for %T", typ))
	}
}

func scalarCodec(t reflect.Type) *codec {
	le := binary.LittleEndian
	switch t.Kind() {
	case reflect.Float32:
		return &codec{
			desc: Descriptor{Size: 4, Align: 4},
			enc:  func(dst []byte, v reflect.Value) { le.PutUint32(dst, float32Bits(v)) },
			dec: func(src []byte, v reflect.Value) {
				*(*uint32)(v.Addr().UnsafePointer()) = le.Uint32(src)
			},
		}
	case reflect.Float64:
		return &codec{
			desc: Descriptor{Size: 8, Align: 8},
			enc:  func(dst []byte, v reflect.Value) { le.PutUint64(dst, math.Float64bits(v.Float())) },
			dec:  func(src []byte, v reflect.Value) { v.SetFloat(math.Float64frombits(le.Uint64(src))) },
		}
	case reflect.Int32:
		return &codec{
			desc: Descriptor{Size: 4, Align: 4},
			enc:  func(dst []byte, v reflect.Value) { le.PutUint32(dst, uint32(int32(v.Int()))) },
			dec:  func(src []byte, v reflect.Value) { v.SetInt(int64(int32(le.Uint32(src)))) },
		}
	case reflect.Uint32:
		return &codec{
			desc: Descriptor{Size: 4, Align: 4},
			enc:  func(dst []byte, v reflect.Value) { le.PutUint32(dst, uint32(v.Uint())) },
			dec:  func(src []byte, v reflect.Value) { v.SetUint(uint64(le.Uint32(src))) },
		}
	case reflect.Bool:
		return &codec{
			desc: Descriptor{Size: 4, Align: 4},
			enc:  func(dst []byte, v reflect.Value) { le.PutUint32(dst, uint32(NewBool(v.Bool()))) },
			dec:  func(src []byte, v reflect.Value) { v.SetBool(Bool(le.Uint32(src)).Bool()) },
		}
	default:
		panic(fmt.Sprintf("gpulayout: %s is not a scalar", t))
	}
}

// float32Bits returns the bits of a float32 value. Converting through
// float64 would quiet signalling NaNs, so addressable values are read in
// place; encoders make their input addressable first.
func float32Bits(v reflect.Value) uint32 {
	if v.CanAddr() {
		return *(*uint32)(v.Addr().UnsafePointer())
	}
	return math.Float32bits(float32(v.Float()))
}

// addressable returns v, or an addressable copy of it.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Elem()
}

// vectorCodec handles the catalog vector types: structs whose fields are
// the components in order.
func vectorCodec(t reflect.Type, vec Vector, r Rules) *codec {
	w := vec.Kind.Width()
	comp := make([]*codec, vec.Len)
	for i := range comp {
		comp[i] = codecFor(t.Field(i).Type, r)
	}
	return &codec{
		desc: vec.Descriptor(r),
		enc: func(dst []byte, v reflect.Value) {
			for i, c := range comp {
				c.enc(dst[i*w:(i+1)*w], v.Field(i))
			}
		},
		dec: func(src []byte, v reflect.Value) {
			for i, c := range comp {
				c.dec(src[i*w:(i+1)*w], v.Field(i))
			}
		},
	}
}

// matrixCodec handles the catalog matrix types: structs whose fields are
// the columns in order.
func matrixCodec(t reflect.Type, m Matrix, r Rules) *codec {
	stride := m.ColumnStride(r)
	cols := make([]*codec, m.Cols)
	for i := range cols {
		cols[i] = codecFor(t.Field(i).Type, r)
	}
	return &codec{
		desc: m.Descriptor(r),
		enc: func(dst []byte, v reflect.Value) {
			for i, c := range cols {
				slot := dst[i*stride : (i+1)*stride]
				c.enc(slot[:c.desc.Size], v.Field(i))
				clear(slot[c.desc.Size:])
			}
		},
		dec: func(src []byte, v reflect.Value) {
			for i, c := range cols {
				c.dec(src[i*stride:i*stride+c.desc.Size], v.Field(i))
			}
		},
	}
}

func arrayCodec(t reflect.Type, a Array, r Rules) *codec {
	elem := codecFor(t.Elem(), r)
	stride := a.Stride(r)
	return &codec{
		desc: a.Descriptor(r),
		enc: func(dst []byte, v reflect.Value) {
			for i := range a.Len {
				slot := dst[i*stride : (i+1)*stride]
				elem.enc(slot[:elem.desc.Size], v.Index(i))
				clear(slot[elem.desc.Size:])
			}
		},
		dec: func(src []byte, v reflect.Value) {
			for i := range a.Len {
				elem.dec(src[i*stride:i*stride+elem.desc.Size], v.Index(i))
			}
		},
	}
}

func structCodec(t reflect.Type, s *Struct, r Rules) *codec {
	layout := s.Layout(r)
	hf := hostFields(t)
	type member struct {
		index int
		place FieldLayout
		c     *codec
	}
	members := make([]member, len(hf))
	for i, f := range hf {
		members[i] = member{
			index: f.index,
			place: layout.Fields[i],
			c:     codecFor(t.Field(f.index).Type, r),
		}
	}
	// The first member is at offset 0, so member bytes plus padding cover dst.
	return &codec{
		desc: layout.Descriptor(),
		enc: func(dst []byte, v reflect.Value) {
			if len(members) == 0 {
				clear(dst)
				return
			}
			for _, m := range members {
				m.c.enc(dst[m.place.Offset:m.place.End()], v.Field(m.index))
				clear(dst[m.place.End() : m.place.End()+m.place.Padding])
			}
		},
		dec: func(src []byte, v reflect.Value) {
			for _, m := range members {
				m.c.dec(src[m.place.Offset:m.place.End()], v.Field(m.index))
			}
		},
	}
}
