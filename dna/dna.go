/*
Package dna prepares genomic texts for indexing by resolving IUPAC ambiguity
codes to concrete bases, leaving a text over A, C, G and T (plus line breaks).
*/
package dna

import (
	"bufio"
	"io"
	"math/bits"
	"math/rand/v2"
)

// iupacMask maps IUPAC nucleotide codes to a 4-bit mask (A=1, C=2, G=4, T=8).
var iupacMask [256]byte

const (
	maskA   = 1
	maskC   = 2
	maskG   = 4
	maskT   = 8
	maskAny = maskA | maskC | maskG | maskT
)

var bases = [4]byte{'A', 'C', 'G', 'T'}

func init() {
	codes := map[byte]byte{
		'A': maskA, 'C': maskC, 'G': maskG, 'T': maskT, 'U': maskT,
		'R': maskA | maskG, 'Y': maskC | maskT, 'S': maskC | maskG,
		'W': maskA | maskT, 'K': maskG | maskT, 'M': maskA | maskC,
		'B': maskC | maskG | maskT, 'D': maskA | maskG | maskT,
		'H': maskA | maskC | maskT, 'V': maskA | maskC | maskG,
		'N': maskAny,
	}
	for c, m := range codes {
		iupacMask[c] = m
		iupacMask[c+'a'-'A'] = m
	}
}

// Sanitizer replaces every byte other than A, C, G, T and line breaks by a
// base compatible with its IUPAC code. Unknown bytes may become any base.
type Sanitizer struct {
	rng *rand.Rand
}

// NewSanitizer creates a sanitizer drawing from a generator seeded with seed.
func NewSanitizer(seed uint64) *Sanitizer {
	return &Sanitizer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Resolve returns c if it is a base or a line break, else a random base
// compatible with c.
func (s *Sanitizer) Resolve(c byte) byte {
	switch c {
	case 'A', 'C', 'G', 'T', '\n', '\r':
		return c
	}
	mask := iupacMask[c]
	if mask == 0 {
		mask = maskAny
	}
	k := s.rng.IntN(bits.OnesCount8(mask))
	for i, b := range bases {
		if mask&(1<<i) == 0 {
			continue
		}
		if k == 0 {
			return b
		}
		k--
	}
	panic("unreachable")
}

// Sanitize streams r to w, resolving ambiguous bytes. It returns the number
// of bytes replaced.
func (s *Sanitizer) Sanitize(r io.Reader, w io.Writer) (int64, error) {
	bw := bufio.NewWriterSize(w, 16*1024)
	buf := make([]byte, 16*1024)
	var replaced int64
	for {
		n, err := r.Read(buf)
		for i, c := range buf[:n] {
			if d := s.Resolve(c); d != c {
				buf[i] = d
				replaced++
			}
		}
		if _, werr := bw.Write(buf[:n]); werr != nil {
			return replaced, werr
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return replaced, err
		}
	}
	return replaced, bw.Flush()
}
