package gpulayout

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterDynamicUniform(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Std140)

	off, err := w.Write(Dynamic(float32(1)))
	require.NoError(t, err)
	assert.Equal(t, 0, off)
	assert.Equal(t, 4, w.Len())

	off, err = w.Write(Dynamic(float32(2)))
	require.NoError(t, err)
	assert.Equal(t, 256, off)
	assert.Equal(t, 260, w.Len())
	assert.Equal(t, 260, buf.Len())

	want := append(le(float32(1)), make([]byte, 252)...)
	want = append(want, le(float32(2))...)
	assert.Equal(t, want, buf.Bytes())
}

type light struct {
	Position   Vec3
	Color      Vec3
	Brightness float32
}

func TestWriterCountThenList(t *testing.T) {
	lights := []light{
		{Vec3{0, 1, 0}, Vec3{1, 0, 0}, 0.6},
		{Vec3{0, 4, 3}, Vec3{1, 1, 1}, 1},
	}
	for _, r := range []Rules{Std140, Std430} {
		t.Run(r.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, r)

			off, err := w.Write(uint32(len(lights)))
			require.NoError(t, err)
			assert.Equal(t, 0, off)

			off, err = w.WriteSlice(lights)
			require.NoError(t, err)
			assert.Equal(t, 16, off, "list aligned to 16 after the count")
			assert.Equal(t, 80, w.Len())
			assert.Equal(t, 80, buf.Len())

			var got light
			require.NoError(t, r.Unmarshal(buf.Bytes()[48:], &got))
			assert.Equal(t, lights[1], got)
		})
	}
}

func TestWriterSliceStride(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Std140)
	_, err := w.Write(float32(9))
	require.NoError(t, err)

	off, err := w.WriteSlice([]float32{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 16, off)
	assert.Equal(t, le(float32(9), pad(12), float32(1), pad(12), float32(2), pad(12)), buf.Bytes())

	// Arrays are accepted as well as slices.
	off, err = w.WriteSlice([2]Vec2{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 48, off)
	assert.Equal(t, 80, w.Len())
}

func TestWriterEmptySlice(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Std140)
	_, err := w.Write(float32(1))
	require.NoError(t, err)

	off, err := w.WriteSlice([]Vec4{})
	require.NoError(t, err)
	assert.Equal(t, 4, off)
	assert.Equal(t, 4, w.Len())
}

func TestWriterSlicePanicsOnNonSlice(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, Std430)
	assert.Panics(t, func() { _, _ = w.WriteSlice(float32(1)) })
}

var errSink = errors.New("sink failed")

// failingWriter accepts limit bytes, then fails.
type failingWriter struct {
	limit int
	n     int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.n+len(p) > f.limit {
		return 0, errSink
	}
	f.n += len(p)
	return len(p), nil
}

// shortWriter reports fewer bytes than it was given without an error.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestWriterPoisoning(t *testing.T) {
	w := NewWriter(&failingWriter{limit: 4}, Std430)

	_, err := w.Write(float32(1))
	require.NoError(t, err)

	_, err = w.Write(Vec4{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPoisoned))
	assert.True(t, errors.Is(err, errSink))
	assert.Equal(t, 4, w.Len(), "cursor must not advance on failure")

	// Later calls fail without touching the sink.
	_, err = w.Write(float32(2))
	assert.True(t, errors.Is(err, ErrPoisoned))
	_, err = w.WriteSlice([]float32{1})
	assert.True(t, errors.Is(err, errSink))
	assert.Equal(t, 4, w.Len())
	assert.Equal(t, err, w.Err())
}

func TestWriterShortWrite(t *testing.T) {
	w := NewWriter(shortWriter{}, Std430)
	_, err := w.Write(Vec4{})
	assert.True(t, errors.Is(err, ErrPoisoned))
	assert.Equal(t, 0, w.Len())
}

// Sizer reports the same length as a Writer fed the same sequence.
func TestSizerMatchesWriter(t *testing.T) {
	values := []any{
		uint32(3),
		Vec3{},
		Dynamic(Mat4{}),
		float32(0),
		mat3Padding{},
		Dynamic(float32(0)),
		DVec3{},
		twoF32{},
	}
	for _, r := range []Rules{Std140, Std430} {
		t.Run(r.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, r)
			s := NewSizer(r)
			for _, v := range values {
				woff, err := w.Write(v)
				require.NoError(t, err)
				soff := s.AddValue(v)
				assert.Equal(t, woff, soff, "offset of %T", v)
			}
			woff, err := w.WriteSlice([]light{{}, {}, {}})
			require.NoError(t, err)
			assert.Equal(t, woff, s.AddArray(TypeOf(light{}), 3))

			assert.Equal(t, w.Len(), s.Len())
			assert.Equal(t, buf.Len(), s.Len())
		})
	}
}

func TestSizerAdd(t *testing.T) {
	s := NewSizer(Std140)
	assert.Equal(t, 0, s.Add(TypeUint))
	assert.Equal(t, 16, s.Add(Mat(KindFloat, 3, 3)))
	assert.Equal(t, 64, s.Len())
	assert.Equal(t, 256, s.Add(DynamicOffset{Inner: TypeFloat}))
	assert.Equal(t, 260, s.Len())
	assert.Equal(t, 260, s.AddArray(TypeFloat, 0))
	assert.Equal(t, 260, s.Len())
	assert.Equal(t, 272, s.AddArray(TypeFloat, 2))
	assert.Equal(t, 304, s.Len())
}

func TestFixedBuffer(t *testing.T) {
	mem := make([]byte, 20)
	fb := NewFixedBuffer(mem)
	w := NewWriter(fb, Std430)

	_, err := w.Write(Vec4{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 16, fb.Len())
	assert.Equal(t, le(float32(1), float32(2), float32(3), float32(4)), fb.Bytes())

	_, err = w.Write(Vec2{})
	assert.True(t, errors.Is(err, ErrBufferFull))
	assert.True(t, errors.Is(err, ErrPoisoned))
	assert.Equal(t, 16, fb.Len(), "a failed write leaves the buffer untouched")
}
