/*
Package perm implements the permutation that maps sorted window ranks to
window indices, and its reversible variant with O(1) inverse lookup.

Both variants are written once while an index is built and are read-only
afterwards. Cells are stored in packed arrays just wide enough for the
permutation length.
*/
package perm

import (
	"fmt"
	"io"

	"github.com/npillmayer/cdat/packed"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("cdat.perm")
}

// Permutation is a bijection on [0, Len()).
type Permutation interface {
	Len() uint64
	Pi(i uint64) uint64    // image of i
	RevPi(v uint64) uint64 // preimage of v
	Set(i, v uint64)
	SizeInBytes() int
	WriteTo(w io.Writer) (int64, error)
}

func widthFor(length uint64) uint {
	if length == 0 {
		return 1
	}
	return packed.WidthFor(length - 1)
}

// --- Plain -----------------------------------------------------------------

// Plain stores only the forward mapping. RevPi scans linearly.
type Plain struct {
	perm *packed.Array
}

var _ Permutation = &Plain{}

// NewPlain creates a permutation of length cells, all mapped to 0.
func NewPlain(length uint64) *Plain {
	return &Plain{perm: packed.NewWidth(length, widthFor(length))}
}

func (p *Plain) Len() uint64 { return p.perm.Len() }

func (p *Plain) Pi(i uint64) uint64 { return p.perm.Get(i) }

// RevPi returns the i with Pi(i) == v. It panics if v is not an image.
func (p *Plain) RevPi(v uint64) uint64 {
	for i := uint64(0); i < p.perm.Len(); i++ {
		if p.perm.Get(i) == v {
			return i
		}
	}
	panic(fmt.Sprintf("perm: %d has no preimage", v))
}

func (p *Plain) Set(i, v uint64) { p.perm.Set(i, v) }

func (p *Plain) SizeInBytes() int { return p.perm.SizeInBytes() }

func (p *Plain) WriteTo(w io.Writer) (int64, error) {
	return p.perm.WriteTo(w)
}

// ReadPlain deserializes a permutation written by (*Plain).WriteTo.
func ReadPlain(r io.Reader) (*Plain, error) {
	a, err := packed.Read(r)
	if err != nil {
		return nil, fmt.Errorf("perm: %w", err)
	}
	return &Plain{perm: a}, nil
}

// --- Reverse ---------------------------------------------------------------

// Reverse stores the forward and the inverse mapping. Set keeps both in sync.
type Reverse struct {
	perm    *packed.Array
	revperm *packed.Array
}

var _ Permutation = &Reverse{}

// NewReverse creates a reversible permutation of length cells.
func NewReverse(length uint64) *Reverse {
	width := widthFor(length)
	return &Reverse{
		perm:    packed.NewWidth(length, width),
		revperm: packed.NewWidth(length, width),
	}
}

func (p *Reverse) Len() uint64 { return p.perm.Len() }

func (p *Reverse) Pi(i uint64) uint64 { return p.perm.Get(i) }

func (p *Reverse) RevPi(v uint64) uint64 { return p.revperm.Get(v) }

func (p *Reverse) Set(i, v uint64) {
	p.perm.Set(i, v)
	p.revperm.Set(v, i)
}

func (p *Reverse) SizeInBytes() int {
	return p.perm.SizeInBytes() + p.revperm.SizeInBytes()
}

func (p *Reverse) WriteTo(w io.Writer) (int64, error) {
	n, err := p.perm.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := p.revperm.WriteTo(w)
	return n + m, err
}

// ReadReverse deserializes a permutation written by (*Reverse).WriteTo.
func ReadReverse(r io.Reader) (*Reverse, error) {
	a, err := packed.Read(r)
	if err != nil {
		return nil, fmt.Errorf("perm: %w", err)
	}
	b, err := packed.Read(r)
	if err != nil {
		return nil, fmt.Errorf("perm: inverse: %w", err)
	}
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("perm: forward length %d and inverse length %d differ", a.Len(), b.Len())
	}
	return &Reverse{perm: a, revperm: b}, nil
}

// IsBijection checks that p maps [0, Len()) onto itself and, for reversible
// permutations, that RevPi(Pi(i)) == i.
func IsBijection(p Permutation) bool {
	n := p.Len()
	seen := make([]bool, n)
	for i := uint64(0); i < n; i++ {
		v := p.Pi(i)
		if v >= n || seen[v] {
			tracer().Debugf("perm: %d -> %d breaks bijection", i, v)
			return false
		}
		seen[v] = true
	}
	if rev, ok := p.(*Reverse); ok {
		for i := uint64(0); i < n; i++ {
			if rev.RevPi(rev.Pi(i)) != i {
				tracer().Debugf("perm: inverse of %d is stale", i)
				return false
			}
		}
	}
	return true
}
