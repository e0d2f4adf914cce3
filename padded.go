package gpulayout

import "reflect"

// Padded holds a value together with the trailing zero bytes that pad it
// to its array stride. It is the element form used by arrays and matrix
// columns, available on its own for hand-built buffers.
type Padded[T any] struct {
	value T
	rules Rules
}

// Wrap pads v to its array stride under r.
func Wrap[T any](v T, r Rules) Padded[T] {
	return Padded[T]{value: v, rules: r}
}

// Unwrap returns the wrapped value.
func (p Padded[T]) Unwrap() T {
	return p.value
}

// Stride returns the padded size: the value's size rounded up to its array
// alignment.
func (p Padded[T]) Stride() int {
	return p.codec().desc.Stride(p.rules)
}

// Bytes returns the value's device bytes followed by zeroed padding. The
// result is exactly Stride bytes long.
func (p Padded[T]) Bytes() []byte {
	c := p.codec()
	buf := make([]byte, c.desc.Stride(p.rules))
	c.enc(buf[:c.desc.Size], reflect.ValueOf(&p.value).Elem())
	return buf
}

func (p Padded[T]) codec() *codec {
	return codecFor(reflect.TypeFor[T](), p.rules)
}
