package gpulayout

import (
	"fmt"
	"io"
	"reflect"
)

// Writer writes a sequence of values to an io.Writer, inserting zeroed
// padding so each value starts at an offset that satisfies its alignment.
//
// Use a Writer when values are laid out one after another in a way a single
// struct cannot describe, such as a count followed by a runtime-length list:
//
//	w := gpulayout.NewWriter(buf, gpulayout.Std430)
//	w.Write(uint32(len(lights)))
//	w.WriteSlice(lights)
//
// A Writer is not safe for concurrent use.
type Writer struct {
	sink    io.Writer
	rules   Rules
	offset  int
	scratch []byte
	err     error
}

// NewWriter returns a Writer that appends to w under r.
func NewWriter(w io.Writer, r Rules) *Writer {
	return &Writer{sink: w, rules: r}
}

// Rules returns the rule set the writer lays values out with.
func (w *Writer) Rules() Rules { return w.rules }

// Len returns the number of bytes written so far, padding included.
func (w *Writer) Len() int { return w.offset }

// Err returns the error that poisoned the writer, or nil.
func (w *Writer) Err() error { return w.err }

// Write pads to v's alignment and writes v's device bytes. It returns the
// offset v was written at.
//
// If the sink fails, nothing is counted and the writer is poisoned: this
// and every later call return an error wrapping ErrPoisoned and the sink's
// error.
func (w *Writer) Write(v any) (int, error) {
	rv := addressable(indirect(v))
	c := codecFor(rv.Type(), w.rules)
	return w.emit(c.desc.Align, c.desc.Size, func(dst []byte) {
		c.enc(dst, rv)
	})
}

// WriteSlice writes the elements of slice or array s as an array: aligned
// to the array alignment with every element padded to the stride. It
// returns the offset of the first element, or Len for an empty s.
func (w *Writer) WriteSlice(s any) (int, error) {
	rv := addressable(indirect(s))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		panic(fmt.Sprintf("gpulayout: WriteSlice(%T): not a slice or array", s))
	}
	c := codecFor(rv.Type().Elem(), w.rules)
	n := rv.Len()
	stride := c.desc.Stride(w.rules)
	return w.emitRun(w.rules.ArrayAlign(c.desc), stride, n, func(dst []byte, i int) {
		c.enc(dst[:c.desc.Size], rv.Index(i))
		clear(dst[c.desc.Size:])
	})
}

// emit places one value of the given size at the next offset aligned to
// align. fill produces the value bytes; a Writer with no sink never calls it.
func (w *Writer) emit(align, size int, fill func(dst []byte)) (int, error) {
	return w.emitRun(align, size, 1, func(dst []byte, _ int) { fill(dst) })
}

// emitRun places n consecutive items of size bytes each, the first aligned
// to align. It returns the offset of the first item.
func (w *Writer) emitRun(align, size, n int, fill func(dst []byte, i int)) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if n == 0 {
		return w.offset, nil
	}

	pad := PadTo(w.offset, align)
	start := w.offset + pad
	total := pad + size*n
	if w.sink == nil {
		w.offset += total
		return start, nil
	}

	buf := w.buffer(total)
	clear(buf[:pad])
	for i := range n {
		fill(buf[pad+i*size:pad+(i+1)*size], i)
	}
	written, err := w.sink.Write(buf)
	if err == nil && written < len(buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = fmt.Errorf("%w: %w", ErrPoisoned, err)
		Logger().Warn("gpulayout: writer poisoned", "offset", w.offset, "err", err)
		return 0, w.err
	}
	w.offset += total
	return start, nil
}

// buffer returns a scratch slice of n bytes, reused across calls.
func (w *Writer) buffer(n int) []byte {
	if cap(w.scratch) < n {
		w.scratch = make([]byte, n)
	}
	return w.scratch[:n]
}

// Sizer computes the buffer size a sequence of writes would need without
// encoding anything. Sizer and Writer share the placement code, so for the
// same sequence Sizer.Len equals Writer.Len.
type Sizer struct {
	w Writer
}

// NewSizer returns a Sizer under r.
func NewSizer(r Rules) *Sizer {
	return &Sizer{w: Writer{rules: r}}
}

// Add reserves space for a value of type t and returns its offset.
func (s *Sizer) Add(t Type) int {
	return s.place(t.Descriptor(s.w.rules))
}

// AddValue reserves space for host value v and returns its offset.
func (s *Sizer) AddValue(v any) int {
	return s.place(codecFor(indirect(v).Type(), s.w.rules).desc)
}

// AddArray reserves space for n elements of type elem written with
// Writer.WriteSlice and returns the offset of the first element.
func (s *Sizer) AddArray(elem Type, n int) int {
	d := elem.Descriptor(s.w.rules)
	off, _ := s.w.emitRun(s.w.rules.ArrayAlign(d), d.Stride(s.w.rules), n, nil)
	return off
}

// Len returns the total size reserved so far.
func (s *Sizer) Len() int { return s.w.offset }

func (s *Sizer) place(d Descriptor) int {
	off, _ := s.w.emit(d.Align, d.Size, nil)
	return off
}

// FixedBuffer is an io.Writer over a caller-provided slice, such as mapped
// GPU memory. Writes that do not fit fail with ErrBufferFull and write
// nothing.
type FixedBuffer struct {
	buf []byte
	n   int
}

// NewFixedBuffer returns a FixedBuffer that writes into buf from the start.
func NewFixedBuffer(buf []byte) *FixedBuffer {
	return &FixedBuffer{buf: buf}
}

func (b *FixedBuffer) Write(p []byte) (int, error) {
	if len(p) > len(b.buf)-b.n {
		return 0, fmt.Errorf("%w: %d bytes at offset %d, capacity %d",
			ErrBufferFull, len(p), b.n, len(b.buf))
	}
	b.n += copy(b.buf[b.n:], p)
	return len(p), nil
}

// Len returns the number of bytes written.
func (b *FixedBuffer) Len() int { return b.n }

// Bytes returns the written part of the buffer.
func (b *FixedBuffer) Bytes() []byte { return b.buf[:b.n] }
