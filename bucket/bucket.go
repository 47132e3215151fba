/*
Package bucket implements the bucket index of a direct-address word table.

The index is a bit vector holding one marker (a one bit) per possible word
value in ascending order, each followed by one occurrence (a zero bit) per
sampled window carrying that value, and a final terminating marker:

	1 0^c(0) 1 0^c(1) ... 1 0^c(V-1) 1

Zero bits are numbered in the order of the permutation, so the zeros between
the markers of v and v+1 are exactly the permutation range of v. Rank and
select are answered by an rsdic dictionary; the raw bits are persisted as a
bitset and the dictionary is rebuilt on load.
*/
package bucket

import (
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/hillbig/rsdic"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("cdat.bucket")
}

// Index is the rank/select-capable bucket bit vector.
type Index struct {
	bits    *bitset.BitSet
	dict    *rsdic.RSDic
	values  uint64 // number of possible word values V
	windows uint64 // number of occurrence bits m
}

// FromCounts lays out the bucket vector for a histogram: counts[v] is the
// number of windows with word value v.
func FromCounts(counts []uint32) *Index {
	var m uint64
	for _, c := range counts {
		m += uint64(c)
	}
	values := uint64(len(counts))
	length := values + 1 + m
	ix := &Index{
		bits:    bitset.New(uint(length)),
		dict:    rsdic.New(),
		values:  values,
		windows: m,
	}
	pos := uint(0)
	for _, c := range counts {
		ix.bits.Set(pos)
		ix.dict.PushBack(true)
		pos++
		for range c {
			ix.dict.PushBack(false)
			pos++
		}
	}
	ix.bits.Set(pos)
	ix.dict.PushBack(true)
	tracer().Debugf("bucket: %d values, %d windows, %d bits", values, m, length)
	return ix
}

// Values returns the size of the word space.
func (ix *Index) Values() uint64 { return ix.values }

// Windows returns the number of occurrence bits.
func (ix *Index) Windows() uint64 { return ix.windows }

// Len returns the length of the bit vector.
func (ix *Index) Len() uint64 { return ix.dict.Num() }

// Range returns the half-open permutation range [lo, hi) of windows with word
// value v. Values outside the word space yield an empty range.
func (ix *Index) Range(v uint64) (lo, hi uint64) {
	if v >= ix.values {
		return 0, 0
	}
	lo = ix.dict.Select(v, true) - v
	hi = ix.dict.Select(v+1, true) - (v + 1)
	return lo, hi
}

// Count returns the number of windows with word value v.
func (ix *Index) Count(v uint64) uint64 {
	lo, hi := ix.Range(v)
	return hi - lo
}

// Rank1 returns the number of marker bits in [0, pos).
func (ix *Index) Rank1(pos uint64) uint64 {
	return ix.dict.Rank(pos, true)
}

// Select0 returns the bit position of the occurrence with permutation rank r.
func (ix *Index) Select0(r uint64) uint64 {
	return ix.dict.Select(r, false)
}

// ValueOfRank returns the word value of the window at permutation rank r.
func (ix *Index) ValueOfRank(r uint64) uint64 {
	return ix.ValueAtZero(ix.Select0(r))
}

// ValueAtZero returns the word value owning the occurrence bit at pos.
func (ix *Index) ValueAtZero(pos uint64) uint64 {
	return ix.Rank1(pos) - 1
}

// SizeInBytes reports the memory held by the rank/select dictionary and the
// raw bits.
func (ix *Index) SizeInBytes() int {
	return ix.dict.AllocSize() + int(ix.bits.BinaryStorageSize())
}

// WriteTo serializes the raw bit vector.
func (ix *Index) WriteTo(w io.Writer) (int64, error) {
	return ix.bits.WriteTo(w)
}

// Read deserializes a bucket vector written by WriteTo and rebuilds its
// rank/select support.
func Read(r io.Reader) (*Index, error) {
	bits := &bitset.BitSet{}
	if _, err := bits.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("bucket: %w", err)
	}
	n := bits.Len()
	if n == 0 || !bits.Test(n-1) {
		return nil, fmt.Errorf("bucket: bit vector lacks terminating marker")
	}
	ix := &Index{bits: bits, dict: rsdic.New()}
	for i := uint(0); i < n; i++ {
		ix.dict.PushBack(bits.Test(i))
	}
	ix.values = ix.dict.OneNum() - 1
	ix.windows = ix.dict.ZeroNum()
	return ix, nil
}
