package cdat

import (
	"io"

	"github.com/npillmayer/cdat/perm"
)

type backendStats struct {
	TextBytes  int // size of the stored text representation
	ExtraBytes int // backend-specific auxiliary structures
}

// textBackend is the internal abstraction for how the text of an index is
// kept for verification and extraction.
//
// Positions at or beyond the text length decode to alphabet value 0. All
// methods except populate and load are read-only.
type textBackend interface {
	// NewPermutation returns an empty permutation of the variant this backend
	// needs.
	NewPermutation(length uint64) perm.Permutation
	// Populate is called after the permutation and bucket index of ix are
	// complete.
	Populate(ix *Index, text []byte) error
	// Scan calls visit with the alphabet value of every position in
	// [from, to), in ascending order, until visit returns false.
	Scan(from, to uint64, visit func(v uint64) bool)
	// WindowValue returns the word value of window i.
	WindowValue(i uint64) uint64
	Save(w io.Writer) error
	Load(ix *Index, r io.Reader) error
	Stats() backendStats
}

func newBackend(k Kind) (textBackend, error) {
	switch k {
	case KindPacked:
		return &packedBackend{}, nil
	case KindWavelet:
		return &waveletBackend{}, nil
	case KindTextFree:
		return &textFreeBackend{}, nil
	}
	return nil, ErrUnknownKind
}

// windowValueByScan computes the word value of window i from the symbols the
// backend decodes.
func windowValueByScan(ix *Index, b textBackend, i uint64) uint64 {
	from := i * uint64(ix.shift)
	var v uint64
	radix := uint64(ix.alpha.Size())
	b.Scan(from, from+uint64(ix.wordSize), func(c uint64) bool {
		v = v*radix + c
		return true
	})
	return v
}
