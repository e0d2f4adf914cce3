package gpulayout

import "reflect"

// DynamicUniform wraps a value that is bound with a dynamic offset.
//
// Writing a DynamicUniform aligns it to DynamicOffsetAlignment, so several
// of them can share one buffer and be selected per draw with dynamic
// offsets. The encoded bytes are exactly those of Value.
type DynamicUniform[T any] struct {
	Value T
}

// Dynamic wraps v in a DynamicUniform.
func Dynamic[T any](v T) DynamicUniform[T] {
	return DynamicUniform[T]{Value: v}
}

func (DynamicUniform[T]) deviceType() Type {
	return DynamicOffset{Inner: typeFor(reflect.TypeFor[T]())}
}
