/*
Package packed implements a fixed-width packed integer array.

Every cell occupies exactly Width() bits of a []uint64 backing store, cells
may straddle word boundaries. The cell width is derived from the largest value
the array has to hold. All accessors are bounds-checked; an out-of-range index
or a value wider than a cell is a programming error and panics.
*/
package packed

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/npillmayer/cdat/internal/binio"
)

// Array is a fixed-length array of unsigned integers of equal bit width.
type Array struct {
	length uint64
	width  uint
	mask   uint64
	words  []uint64
}

// WidthFor returns the number of bits needed to store values up to maxValue.
// The result is at least 1.
func WidthFor(maxValue uint64) uint {
	w := uint(bits.Len64(maxValue))
	if w == 0 {
		w = 1
	}
	return w
}

// New creates a zero-filled array of length cells, wide enough to hold
// values up to maxValue.
func New(length uint64, maxValue uint64) *Array {
	return NewWidth(length, WidthFor(maxValue))
}

// NewWidth creates a zero-filled array of length cells of width bits each.
func NewWidth(length uint64, width uint) *Array {
	if width == 0 || width > 64 {
		panic(fmt.Sprintf("packed: invalid cell width %d", width))
	}
	a := &Array{
		length: length,
		width:  width,
		mask:   maskFor(width),
	}
	a.words = make([]uint64, wordsFor(length, width))
	return a
}

func maskFor(width uint) uint64 {
	if width == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func wordsFor(length uint64, width uint) uint64 {
	return (length*uint64(width) + 63) / 64
}

// Len returns the number of cells.
func (a *Array) Len() uint64 { return a.length }

// Width returns the cell width in bits.
func (a *Array) Width() uint { return a.width }

// SizeInBytes returns the size of the backing store.
func (a *Array) SizeInBytes() int { return 8 * len(a.words) }

// Get returns the value of cell i.
func (a *Array) Get(i uint64) uint64 {
	if i >= a.length {
		panic(fmt.Sprintf("packed: index %d out of range [0,%d)", i, a.length))
	}
	pos := i * uint64(a.width)
	w, off := pos>>6, uint(pos&63)
	v := a.words[w] >> off
	if off+a.width > 64 {
		v |= a.words[w+1] << (64 - off)
	}
	return v & a.mask
}

// Set stores v in cell i.
func (a *Array) Set(i uint64, v uint64) {
	if i >= a.length {
		panic(fmt.Sprintf("packed: index %d out of range [0,%d)", i, a.length))
	}
	if v&^a.mask != 0 {
		panic(fmt.Sprintf("packed: value %d does not fit into %d bits", v, a.width))
	}
	pos := i * uint64(a.width)
	w, off := pos>>6, uint(pos&63)
	a.words[w] = a.words[w]&^(a.mask<<off) | v<<off
	if off+a.width > 64 {
		rest := 64 - off
		a.words[w+1] = a.words[w+1]&^(a.mask>>rest) | v>>rest
	}
}

// WriteTo serializes the array as length, width and the backing words.
func (a *Array) WriteTo(w io.Writer) (int64, error) {
	bw := binio.NewWriter(w)
	bw.U64(a.length)
	bw.U64(uint64(a.width))
	bw.U64s(a.words)
	return bw.Count(), bw.Err()
}

// ReadFrom replaces the contents of a by an array serialized with WriteTo.
func (a *Array) ReadFrom(r io.Reader) (int64, error) {
	br := binio.NewReader(r)
	length := br.U64()
	width := br.U64()
	if br.Err() != nil {
		return br.Count(), br.Err()
	}
	if width == 0 || width > 64 {
		return br.Count(), fmt.Errorf("packed: corrupt cell width %d", width)
	}
	words := make([]uint64, wordsFor(length, uint(width)))
	br.U64s(words)
	if br.Err() != nil {
		return br.Count(), br.Err()
	}
	a.length, a.width, a.mask, a.words = length, uint(width), maskFor(uint(width)), words
	return br.Count(), nil
}

// Read deserializes an array written by WriteTo.
func Read(r io.Reader) (*Array, error) {
	a := &Array{}
	if _, err := a.ReadFrom(r); err != nil {
		return nil, err
	}
	return a, nil
}
