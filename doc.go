// Package gpulayout lays out host values in GPU buffer memory according to
// the std140 and std430 rules.
//
// # Overview
//
// Shaders read uniform and storage buffers with a fixed layout: every
// member sits at an offset that satisfies its alignment, and arrays,
// matrices and (under std140) structs are rounded up in ways Go's own
// struct layout never is. gpulayout computes those layouts and converts
// between Go values and the exact bytes a shader expects.
//
// # Quick Start
//
//	type Light struct {
//		Position  gpulayout.Vec3
//		Color     gpulayout.Vec3
//		Intensity float32
//	}
//
//	data := gpulayout.Std140.Marshal(Light{...}) // 32 bytes
//	fmt.Print(gpulayout.Std140.LayoutOf(Light{}))
//
// # Rule Sets
//
// A [Rules] value selects the convention. [Std140] rounds struct and array
// alignment up to 16 bytes and pads structs at their end. [Std430] keeps
// the natural alignment of members and pads structs only where they are
// array elements. The std140 and std430 sub-packages bind one rule set for
// callers that always use the same one.
//
// # Types
//
// Host Go types map to device types through reflection ([TypeFor]):
// float32, int32, uint32, float64 and bool are scalars; [Vec3], [Mat4] and
// the other catalog types are vectors and matrices; Go arrays are arrays;
// structs are composites of their exported fields. Device types can also be
// built directly ([NewStruct], [ArrayOf], [Vec], [Mat]) when no Go type
// exists, for example when they are loaded from a schema file.
//
// # Writing Sequences
//
// [Writer] writes values one after another with the padding between them,
// and [Sizer] computes the size of such a sequence ahead of time. Use
// [DynamicUniform] for values that are bound with dynamic offsets.
//
// # Logging
//
// Nothing is logged by default. See [SetLogger].
package gpulayout
