package cdat

import (
	"fmt"
	"io"

	"github.com/npillmayer/cdat/bucket"
	"github.com/npillmayer/cdat/perm"
)

// textFreeBackend stores no text. The word value of window i is recovered
// from its rank in the permutation: the occurrence bit of that rank lies
// behind exactly value+1 markers of the bucket vector.
//
// Text positions are decoded window by window: position p is digit p mod shift
// of window floor(p/shift), and the remaining digits of that window serve the
// following positions without another lookup.
type textFreeBackend struct {
	ix    *Index
	zeros *bucket.ZeroSelect
}

var _ textBackend = &textFreeBackend{}

func (b *textFreeBackend) NewPermutation(length uint64) perm.Permutation {
	return perm.NewReverse(length)
}

func (b *textFreeBackend) Populate(ix *Index, _ []byte) error {
	zs, err := bucket.NewZeroSelect(ix.buckets)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTextTooLong, err)
	}
	b.ix, b.zeros = ix, zs
	return nil
}

func (b *textFreeBackend) WindowValue(i uint64) uint64 {
	r := b.ix.perm.RevPi(i)
	return b.ix.buckets.ValueAtZero(b.zeros.Select(r))
}

func (b *textFreeBackend) Scan(from, to uint64, visit func(v uint64) bool) {
	ix := b.ix
	s, w := uint64(ix.shift), uint64(ix.wordSize)
	p := from
	for p < to {
		i := p / s
		if i >= ix.windows {
			// beyond the last window only padding remains
			if !visit(0) {
				return
			}
			p++
			continue
		}
		v := b.WindowValue(i)
		off := p - i*s
		n := min(w-off, to-p)
		// digit off is the most significant of v mod radix^(w-off)
		v %= ix.pow[w-off]
		for k := uint64(0); k < n; k++ {
			div := ix.pow[w-off-k-1]
			if !visit(v / div) {
				return
			}
			v %= div
		}
		p += n
	}
}

func (b *textFreeBackend) Save(w io.Writer) error {
	_, err := b.zeros.WriteTo(w)
	return err
}

func (b *textFreeBackend) Load(ix *Index, r io.Reader) error {
	zs, err := bucket.ReadZeroSelect(r)
	if err != nil {
		return err
	}
	if zs.Len() != ix.windows {
		return fmt.Errorf("%w: zero-select over %d occurrences, want %d", ErrCorruptIndex,
			zs.Len(), ix.windows)
	}
	if _, ok := ix.perm.(*perm.Reverse); !ok {
		return fmt.Errorf("%w: text-free index needs a reversible permutation", ErrCorruptIndex)
	}
	b.ix, b.zeros = ix, zs
	return nil
}

func (b *textFreeBackend) Stats() backendStats {
	return backendStats{ExtraBytes: b.zeros.SizeInBytes()}
}
