package plane

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
	"honnef.co/go/safeish"
)

// Desc describes the element layout of a Buffer.
type Desc struct {
	ElemSize int // bytes per element
}

// Buffer is a 2D grid of fixed-size elements stored row-major in one flat
// allocation. Rows may be padded: Stride >= Width*ElemSize.
type Buffer struct {
	desc   Desc
	width  int
	height int
	stride int
	words  []uint64 // backing store, 8-byte aligned
	data   []byte   // byte view of words, len = stride*height
}

// Empty returns a buffer with a layout but no storage. SetSize must be
// called before any element access.
func Empty(desc Desc) *Buffer {
	if desc.ElemSize <= 0 {
		panic(fmt.Sprintf("plane: invalid element size %d", desc.ElemSize))
	}
	return &Buffer{desc: desc}
}

// New allocates a zeroed w×h buffer. A stride of 0 selects w*ElemSize.
func New(desc Desc, w, h, stride int) *Buffer {
	b := Empty(desc)
	b.SetSize(w, h, stride)
	return b
}

// SetSize changes the dimensions. Storage is reallocated only when the byte
// size changes; otherwise the existing contents are kept as-is.
func (b *Buffer) SetSize(w, h, stride int) {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("plane: invalid size %dx%d", w, h))
	}
	minStride := w * b.desc.ElemSize
	if stride == 0 {
		stride = minStride
	}
	if stride < minStride {
		panic(fmt.Sprintf("plane: stride %d < %d", stride, minStride))
	}

	n := stride * h
	if n != len(b.data) || b.words == nil {
		b.words = make([]uint64, (n+7)/8)
		b.data = safeish.SliceCast[[]byte](b.words)[:n]
	}
	b.width = w
	b.height = h
	b.stride = stride
}

// Clear zero-fills the whole backing store, padding included.
func (b *Buffer) Clear() {
	clear(b.words)
}

func (b *Buffer) Desc() Desc       { return b.desc }
func (b *Buffer) ElemSize() int    { return b.desc.ElemSize }
func (b *Buffer) Width() int       { return b.width }
func (b *Buffer) Height() int      { return b.height }
func (b *Buffer) Stride() int      { return b.stride }
func (b *Buffer) SizeInBytes() int { return len(b.data) }
func (b *Buffer) Bytes() []byte    { return b.data }
func (b *Buffer) Allocated() bool  { return b.data != nil }

// SameSize reports whether the buffer already has dimensions w×h.
func (b *Buffer) SameSize(w, h int) bool { return b.width == w && b.height == h }

// Row returns the Width*ElemSize bytes of row y, without padding.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.height {
		panic(fmt.Sprintf("plane: row %d out of range [0,%d)", y, b.height))
	}
	off := y * b.stride
	n := b.width * b.desc.ElemSize
	return b.data[off : off+n : off+n]
}

// Pixel returns the ElemSize bytes of the element at (x, y).
func (b *Buffer) Pixel(x, y int) []byte {
	if x < 0 || x >= b.width {
		panic(fmt.Sprintf("plane: column %d out of range [0,%d)", x, b.width))
	}
	es := b.desc.ElemSize
	row := b.Row(y)
	return row[x*es : (x+1)*es : (x+1)*es]
}

// At reinterprets the element at (x, y) as a T. T must not be larger than
// the element size.
func At[T any](b *Buffer, x, y int) *T {
	checkElem[T](b, false)
	return safeish.Cast[*T](&b.Pixel(x, y)[0])
}

// RowOf returns row y viewed as a []T. T must have exactly the element size.
func RowOf[T any](b *Buffer, y int) []T {
	checkElem[T](b, true)
	return safeish.SliceCast[[]T](b.Row(y))
}

func checkElem[T any](b *Buffer, exact bool) {
	size := int(unsafe.Sizeof(*new(T)))
	if size > b.desc.ElemSize || (exact && size != b.desc.ElemSize) {
		panic(fmt.Sprintf("plane: %T (%d bytes) does not fit element size %d", *new(T), size, b.desc.ElemSize))
	}
}

// AlignedStride returns the smallest stride >= w*ElemSize that is a multiple
// of align bytes.
func AlignedStride(w int, desc Desc, align int) int {
	if align <= 1 {
		return w * desc.ElemSize
	}
	return nextMultipleOf(w*desc.ElemSize, align)
}

func nextMultipleOf[T constraints.Integer](x, y T) T {
	if r := x % y; r != 0 {
		return x + y - r
	}
	return x
}
