package cdat

import (
	"fmt"
	"io"

	"github.com/npillmayer/cdat/perm"
	"github.com/npillmayer/cdat/wavelet"
)

// waveletBackend keeps the text as a Huffman-shaped wavelet tree over the
// alphabet values.
type waveletBackend struct {
	ix   *Index
	tree *wavelet.Tree
}

var _ textBackend = &waveletBackend{}

func (b *waveletBackend) NewPermutation(length uint64) perm.Permutation {
	return perm.NewPlain(length)
}

func (b *waveletBackend) Populate(ix *Index, text []byte) error {
	b.ix = ix
	seq := make([]byte, len(text))
	for i, c := range text {
		seq[i] = byte(ix.alpha.CharValue(c))
	}
	b.tree = wavelet.New(seq, ix.alpha.Size())
	return nil
}

func (b *waveletBackend) Scan(from, to uint64, visit func(v uint64) bool) {
	end := min(to, b.tree.Len())
	p := from
	for ; p < end; p++ {
		if !visit(uint64(b.tree.Access(p))) {
			return
		}
	}
	for ; p < to; p++ {
		if !visit(0) {
			return
		}
	}
}

func (b *waveletBackend) WindowValue(i uint64) uint64 {
	return windowValueByScan(b.ix, b, i)
}

func (b *waveletBackend) Save(w io.Writer) error {
	_, err := b.tree.WriteTo(w)
	return err
}

func (b *waveletBackend) Load(ix *Index, r io.Reader) error {
	tree, err := wavelet.Read(r)
	if err != nil {
		return err
	}
	if tree.Len() != ix.textLength {
		return fmt.Errorf("%w: wavelet tree of %d symbols, want %d", ErrCorruptIndex,
			tree.Len(), ix.textLength)
	}
	b.ix, b.tree = ix, tree
	return nil
}

func (b *waveletBackend) Stats() backendStats {
	return backendStats{TextBytes: b.tree.SizeInBytes()}
}
