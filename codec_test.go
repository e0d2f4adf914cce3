package gpulayout

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// le builds little-endian device bytes from float32, uint32 and int32 values
// and zero padding expressed as pad(n).
func le(parts ...any) []byte {
	var b []byte
	for _, p := range parts {
		switch v := p.(type) {
		case float32:
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
		case float64:
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
		case uint32:
			b = binary.LittleEndian.AppendUint32(b, v)
		case int32:
			b = binary.LittleEndian.AppendUint32(b, uint32(v))
		case pad:
			b = append(b, make([]byte, v)...)
		default:
			panic("le: unsupported part")
		}
	}
	return b
}

type pad int

func TestMarshalBytes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		rules Rules
		want  []byte
	}{
		{
			"two f32 std140", twoF32{1, 2}, Std140,
			le(float32(1), float32(2), pad(8)),
		},
		{
			"two f32 std430", twoF32{1, 2}, Std430,
			le(float32(1), float32(2)),
		},
		{
			"vec3 then f32", vec3ThenF32{Vec3{1, 2, 3}, 4}, Std140,
			le(float32(1), float32(2), float32(3), float32(4)),
		},
		{
			"array std140", arrayHolder{[3]float32{1, 2, 3}, 4}, Std140,
			le(float32(1), pad(12), float32(2), pad(12), float32(3), pad(12), float32(4), pad(12)),
		},
		{
			"mat2 std430", Mat2{Vec2{1, 2}, Vec2{3, 4}}, Std430,
			le(float32(1), float32(2), float32(3), float32(4)),
		},
		{
			"mat2 std140", Mat2{Vec2{1, 2}, Vec2{3, 4}}, Std140,
			le(float32(1), float32(2), pad(8), float32(3), float32(4), pad(8)),
		},
		{
			"mat3 std430", Identity3(), Std430,
			le(float32(1), float32(0), float32(0), pad(4),
				float32(0), float32(1), float32(0), pad(4),
				float32(0), float32(0), float32(1), pad(4)),
		},
		{
			"ints", IVec2{-1, 7}, Std430,
			le(int32(-1), int32(7)),
		},
		{
			"double", fourF64{1, 2, 3, 4}, Std430,
			le(float64(1), float64(2), float64(3), float64(4)),
		},
		{
			"nested std140", paddingAfterStruct{inner{5}, 6}, Std140,
			le(float32(5), pad(12), float32(6), pad(12)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rules.Marshal(tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rules.SizeOf(tt.value), len(got))
		})
	}
}

type flags struct {
	On   bool
	Mask uint32
	Raw  Bool
	Vec  BVec2
}

func TestBoolAdapter(t *testing.T) {
	got := Std430.Marshal(flags{On: true, Mask: 7, Raw: 9, Vec: BVec2{NewBool(true), NewBool(false)}})
	assert.Equal(t, le(uint32(1), uint32(7), uint32(9), pad(4), uint32(1), uint32(0)), got)

	// Any nonzero device value decodes as true.
	var f flags
	require.NoError(t, Std430.Unmarshal(le(uint32(2), uint32(0), uint32(5), pad(4), uint32(0), uint32(3)), &f))
	assert.True(t, f.On)
	assert.True(t, f.Raw.Bool())
	assert.Equal(t, Bool(5), f.Raw)
	assert.False(t, f.Vec.X.Bool())
	assert.True(t, f.Vec.Y.Bool())

	assert.Equal(t, Bool(1), NewBool(true))
	assert.Equal(t, Bool(0), NewBool(false))
	assert.Equal(t, "true", Bool(42).String())
}

type everything struct {
	F     float32
	I     int32
	U     uint32
	B     bool
	D     float64
	V2    Vec2
	V3    Vec3
	V4    Vec4
	IV3   IVec3
	UV4   UVec4
	BV3   BVec3
	DV3   DVec3
	M2    Mat2
	M3    Mat3
	M4    Mat4
	DM3   DMat3
	Arr   [3]Vec3
	Grid  [2][3]float32
	Inner paddingAfterStruct
	Dyn   DynamicUniform[Vec4]
}

func sampleEverything() everything {
	return everything{
		F: 1.5, I: -3, U: 42, B: true, D: math.Pi,
		V2:  Vec2{1, 2},
		V3:  Vec3{3, 4, 5},
		V4:  Vec4{6, 7, 8, 9},
		IV3: IVec3{-1, 0, 1},
		UV4: UVec4{1, 2, 3, 4},
		BV3: BVec3{1, 0, 1},
		DV3: DVec3{0.25, 0.5, 0.75},
		M2:  Mat2{Vec2{1, 2}, Vec2{3, 4}},
		M3:  Identity3(),
		M4:  Identity4(),
		DM3: DMat3{DVec3{1, 2, 3}, DVec3{4, 5, 6}, DVec3{7, 8, 9}},
		Arr: [3]Vec3{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}},
		Grid: [2][3]float32{
			{1, 2, 3},
			{4, 5, 6},
		},
		Inner: paddingAfterStruct{inner{7}, 8},
		Dyn:   Dynamic(Vec4{1, 0, 0, 1}),
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleEverything()
	for _, r := range []Rules{Std140, Std430, Std430.WithStructEndPadding(true)} {
		t.Run(r.String(), func(t *testing.T) {
			m := r.Mirror(want)
			assert.Equal(t, r.SizeOf(want), m.Size())
			assert.Equal(t, m.Bytes(), AsBytes(m))

			var got everything
			require.NoError(t, m.Decode(&got))
			assert.Equal(t, want, got)
		})
	}
}

// Padding bytes are zero regardless of the host value.
func TestPaddingIsZero(t *testing.T) {
	v := sampleEverything()
	for _, r := range []Rules{Std140, Std430} {
		data := r.Marshal(v)
		l := r.LayoutOf(v)
		for _, f := range l.Fields {
			for i := f.End(); i < f.End()+f.Padding; i++ {
				if data[i] != 0 {
					t.Fatalf("%s: padding byte %d after %s = %#x, want 0", r, i, f.Name, data[i])
				}
			}
		}
	}
}

func TestMarshalPointer(t *testing.T) {
	v := twoF32{1, 2}
	assert.Equal(t, Std140.Marshal(v), Std140.Marshal(&v))
}

func TestUnmarshalErrors(t *testing.T) {
	var v twoF32
	err := Std140.Unmarshal(make([]byte, 8), &v)
	assert.True(t, errors.Is(err, ErrShortBuffer), "got %v", err)

	err = Std140.Unmarshal(make([]byte, 16), v)
	assert.True(t, errors.Is(err, ErrInvalidTarget), "got %v", err)

	err = Std140.Unmarshal(make([]byte, 16), (*twoF32)(nil))
	assert.True(t, errors.Is(err, ErrInvalidTarget), "got %v", err)

	// Trailing bytes are ignored.
	require.NoError(t, Std430.Unmarshal(le(float32(1), float32(2), float32(99)), &v))
	assert.Equal(t, twoF32{1, 2}, v)
}

func TestPadded(t *testing.T) {
	p := Wrap(float32(3), Std140)
	assert.Equal(t, float32(3), p.Unwrap())
	assert.Equal(t, 16, p.Stride())
	assert.Equal(t, le(float32(3), pad(12)), p.Bytes())

	q := Wrap(vec3Only{Vec3{1, 2, 3}}, Std430)
	assert.Equal(t, 16, q.Stride())
	assert.Equal(t, le(float32(1), float32(2), float32(3), pad(4)), q.Bytes())

	v := Wrap(Vec2{1, 2}, Std430)
	assert.Equal(t, 8, v.Stride())
	assert.Len(t, v.Bytes(), 8)
}

func TestDynamicUniformBytes(t *testing.T) {
	for _, r := range []Rules{Std140, Std430} {
		plain := r.Marshal(Vec4{1, 2, 3, 4})
		dyn := r.Marshal(Dynamic(Vec4{1, 2, 3, 4}))
		assert.Equal(t, plain, dyn, r.String())
		assert.Equal(t, 256, r.DescriptorOf(Dynamic(Vec4{})).Align)
	}
}

func TestDynamicUniformScalars(t *testing.T) {
	data := Std140.Marshal(Dynamic(float32(1)))
	assert.Equal(t, le(float32(1)), data)

	var got DynamicUniform[float32]
	require.NoError(t, Std140.Unmarshal(le(float32(5)), &got))
	assert.Equal(t, float32(5), got.Value)

	var m DynamicUniform[Mat2]
	require.NoError(t, Std430.Unmarshal(le(float32(1), float32(2), float32(3), float32(4)), &m))
	assert.Equal(t, Mat2{Vec2{1, 2}, Vec2{3, 4}}, m.Value)
}

type nanPayload struct {
	A float32
	V Vec2
	L [2]float32
}

// Signalling NaNs and other float32 payloads survive encode and decode
// bit for bit.
func TestFloat32BitsPreserved(t *testing.T) {
	const snan = 0x7f800001
	const payload = 0xffbadbad
	data := le(uint32(snan), pad(4), uint32(payload), uint32(snan), uint32(payload), uint32(snan))

	var v nanPayload
	require.NoError(t, Std430.Unmarshal(data, &v))
	assert.Equal(t, uint32(snan), math.Float32bits(v.A))
	assert.Equal(t, uint32(payload), math.Float32bits(v.L[0]))

	assert.Equal(t, data, Std430.Marshal(v))
	assert.Equal(t, data, Std430.Marshal(&v))
	assert.Equal(t, data, Std430.Mirror(v).Bytes())

	var buf bytes.Buffer
	w := NewWriter(&buf, Std430)
	_, err := w.Write(v)
	require.NoError(t, err)
	_, err = w.WriteSlice(v.L)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte(nil), data...), data[16:]...), buf.Bytes())
}
