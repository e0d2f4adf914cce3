package gpulayout

// Host-side vector and matrix types. Each one maps to a catalog entry and
// is encoded component by component, so their Go memory layout is
// irrelevant to the device layout.

// deviceTyper is implemented by host types that map directly to a catalog
// entry instead of being laid out as a struct.
type deviceTyper interface {
	deviceType() Type
}

// Vec2 is a GLSL vec2.
type Vec2 struct{ X, Y float32 }

// Vec3 is a GLSL vec3.
type Vec3 struct{ X, Y, Z float32 }

// Vec4 is a GLSL vec4.
type Vec4 struct{ X, Y, Z, W float32 }

// IVec2 is a GLSL ivec2.
type IVec2 struct{ X, Y int32 }

// IVec3 is a GLSL ivec3.
type IVec3 struct{ X, Y, Z int32 }

// IVec4 is a GLSL ivec4.
type IVec4 struct{ X, Y, Z, W int32 }

// UVec2 is a GLSL uvec2.
type UVec2 struct{ X, Y uint32 }

// UVec3 is a GLSL uvec3.
type UVec3 struct{ X, Y, Z uint32 }

// UVec4 is a GLSL uvec4.
type UVec4 struct{ X, Y, Z, W uint32 }

// BVec2 is a GLSL bvec2.
type BVec2 struct{ X, Y Bool }

// BVec3 is a GLSL bvec3.
type BVec3 struct{ X, Y, Z Bool }

// BVec4 is a GLSL bvec4.
type BVec4 struct{ X, Y, Z, W Bool }

// DVec2 is a GLSL dvec2.
type DVec2 struct{ X, Y float64 }

// DVec3 is a GLSL dvec3.
type DVec3 struct{ X, Y, Z float64 }

// DVec4 is a GLSL dvec4.
type DVec4 struct{ X, Y, Z, W float64 }

// Mat2 is a GLSL mat2. X and Y are columns.
type Mat2 struct{ X, Y Vec2 }

// Mat3 is a GLSL mat3. X, Y and Z are columns.
type Mat3 struct{ X, Y, Z Vec3 }

// Mat4 is a GLSL mat4. X, Y, Z and W are columns.
type Mat4 struct{ X, Y, Z, W Vec4 }

// DMat2 is a GLSL dmat2.
type DMat2 struct{ X, Y DVec2 }

// DMat3 is a GLSL dmat3.
type DMat3 struct{ X, Y, Z DVec3 }

// DMat4 is a GLSL dmat4.
type DMat4 struct{ X, Y, Z, W DVec4 }

func (Vec2) deviceType() Type  { return Vector{Kind: KindFloat, Len: 2} }
func (Vec3) deviceType() Type  { return Vector{Kind: KindFloat, Len: 3} }
func (Vec4) deviceType() Type  { return Vector{Kind: KindFloat, Len: 4} }
func (IVec2) deviceType() Type { return Vector{Kind: KindInt, Len: 2} }
func (IVec3) deviceType() Type { return Vector{Kind: KindInt, Len: 3} }
func (IVec4) deviceType() Type { return Vector{Kind: KindInt, Len: 4} }
func (UVec2) deviceType() Type { return Vector{Kind: KindUint, Len: 2} }
func (UVec3) deviceType() Type { return Vector{Kind: KindUint, Len: 3} }
func (UVec4) deviceType() Type { return Vector{Kind: KindUint, Len: 4} }
func (BVec2) deviceType() Type { return Vector{Kind: KindBool, Len: 2} }
func (BVec3) deviceType() Type { return Vector{Kind: KindBool, Len: 3} }
func (BVec4) deviceType() Type { return Vector{Kind: KindBool, Len: 4} }
func (DVec2) deviceType() Type { return Vector{Kind: KindDouble, Len: 2} }
func (DVec3) deviceType() Type { return Vector{Kind: KindDouble, Len: 3} }
func (DVec4) deviceType() Type { return Vector{Kind: KindDouble, Len: 4} }

func (Mat2) deviceType() Type  { return Matrix{Kind: KindFloat, Cols: 2, Rows: 2} }
func (Mat3) deviceType() Type  { return Matrix{Kind: KindFloat, Cols: 3, Rows: 3} }
func (Mat4) deviceType() Type  { return Matrix{Kind: KindFloat, Cols: 4, Rows: 4} }
func (DMat2) deviceType() Type { return Matrix{Kind: KindDouble, Cols: 2, Rows: 2} }
func (DMat3) deviceType() Type { return Matrix{Kind: KindDouble, Cols: 3, Rows: 3} }
func (DMat4) deviceType() Type { return Matrix{Kind: KindDouble, Cols: 4, Rows: 4} }

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		X: Vec3{1, 0, 0},
		Y: Vec3{0, 1, 0},
		Z: Vec3{0, 0, 1},
	}
}

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		X: Vec4{1, 0, 0, 0},
		Y: Vec4{0, 1, 0, 0},
		Z: Vec4{0, 0, 1, 0},
		W: Vec4{0, 0, 0, 1},
	}
}
