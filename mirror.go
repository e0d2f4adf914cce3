package gpulayout

import (
	"fmt"
	"reflect"
)

// Mirror is the device-layout image of a host value under one rule set.
// Every byte is initialized: padding is zero.
type Mirror struct {
	typ   Type
	rules Rules
	data  []byte
}

// Mirror encodes v under r. v may be a value or a pointer to one.
//
// Mirror panics if v's type has no device representation.
func (r Rules) Mirror(v any) Mirror {
	rv := addressable(indirect(v))
	c := codecFor(rv.Type(), r)
	data := make([]byte, c.desc.Size)
	c.enc(data, rv)
	return Mirror{typ: typeFor(rv.Type()), rules: r, data: data}
}

// Type returns the device type the mirror was encoded as.
func (m Mirror) Type() Type { return m.typ }

// Rules returns the rule set the mirror was encoded under.
func (m Mirror) Rules() Rules { return m.rules }

// Descriptor returns the mirror's size and alignment.
func (m Mirror) Descriptor() Descriptor { return m.typ.Descriptor(m.rules) }

// Size returns the number of bytes in the mirror.
func (m Mirror) Size() int { return len(m.data) }

// Bytes returns the mirror's bytes. The slice aliases the mirror.
func (m Mirror) Bytes() []byte { return m.data }

// Decode reconstructs a host value from the mirror into ptr.
func (m Mirror) Decode(ptr any) error {
	return m.rules.Unmarshal(m.data, ptr)
}

// AsBytes returns the bytes of m, ready to copy into a GPU buffer.
func AsBytes(m Mirror) []byte {
	return m.data
}

// Marshal returns the device bytes of v under r.
func (r Rules) Marshal(v any) []byte {
	return r.Mirror(v).data
}

// Unmarshal decodes the leading device bytes in data into the value ptr
// points to. Bytes past the device size of the target are ignored.
func (r Rules) Unmarshal(data []byte, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: got %T", ErrInvalidTarget, ptr)
	}
	rv = rv.Elem()
	c := codecFor(rv.Type(), r)
	if len(data) < c.desc.Size {
		return fmt.Errorf("%w: %s needs %d bytes, have %d",
			ErrShortBuffer, rv.Type(), c.desc.Size, len(data))
	}
	c.dec(data[:c.desc.Size], rv)
	return nil
}

// TypeOf returns the device type of v. The type is the same under every
// rule set; the method exists so a Rules value is a complete entry point.
func (r Rules) TypeOf(v any) Type {
	return TypeOf(v)
}

// DescriptorOf returns the size and alignment of v under r.
func (r Rules) DescriptorOf(v any) Descriptor {
	return TypeOf(v).Descriptor(r)
}

// SizeOf returns the device size of v under r.
func (r Rules) SizeOf(v any) int {
	return r.DescriptorOf(v).Size
}

// LayoutOf returns the compiled layout of struct value v under r.
//
// LayoutOf panics if v does not map to a struct.
func (r Rules) LayoutOf(v any) *Layout {
	s, ok := TypeOf(v).(*Struct)
	if !ok {
		panic(fmt.Sprintf("gpulayout: LayoutOf(%T): not a struct", v))
	}
	return s.Layout(r)
}

// indirect returns the value v holds, following pointers.
func indirect(v any) reflect.Value {
	if v == nil {
		panic("gpulayout: nil value")
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			panic(fmt.Sprintf("gpulayout: nil %s", rv.Type()))
		}
		rv = rv.Elem()
	}
	return rv
}
