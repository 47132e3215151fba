package cdat

import (
	"fmt"
	"io"

	"github.com/npillmayer/cdat/packed"
	"github.com/npillmayer/cdat/perm"
)

// packedBackend keeps every text position as a fixed-width alphabet value,
// followed by paddingLength zero cells.
type packedBackend struct {
	ix   *Index
	text *packed.Array
}

var _ textBackend = &packedBackend{}

func (b *packedBackend) NewPermutation(length uint64) perm.Permutation {
	return perm.NewPlain(length)
}

func (b *packedBackend) Populate(ix *Index, text []byte) error {
	b.ix = ix
	b.text = packed.New(ix.textLength+ix.padding, uint64(ix.alpha.Size()-1))
	for i, c := range text {
		b.text.Set(uint64(i), ix.alpha.CharValue(c))
	}
	return nil
}

func (b *packedBackend) Scan(from, to uint64, visit func(v uint64) bool) {
	end := min(to, b.text.Len())
	p := from
	for ; p < end; p++ {
		if !visit(b.text.Get(p)) {
			return
		}
	}
	for ; p < to; p++ {
		if !visit(0) {
			return
		}
	}
}

func (b *packedBackend) WindowValue(i uint64) uint64 {
	return windowValueByScan(b.ix, b, i)
}

func (b *packedBackend) Save(w io.Writer) error {
	_, err := b.text.WriteTo(w)
	return err
}

func (b *packedBackend) Load(ix *Index, r io.Reader) error {
	text, err := packed.Read(r)
	if err != nil {
		return err
	}
	if text.Len() != ix.textLength+ix.padding {
		return fmt.Errorf("%w: packed text of %d cells, want %d", ErrCorruptIndex,
			text.Len(), ix.textLength+ix.padding)
	}
	b.ix, b.text = ix, text
	return nil
}

func (b *packedBackend) Stats() backendStats {
	return backendStats{TextBytes: b.text.SizeInBytes()}
}
