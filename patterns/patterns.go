// Package patterns generates query patterns by sampling random substrings
// of a text.
package patterns

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
)

// Generate samples n substrings of the given length from text. Start offsets
// are uniform in [0, len(text)-length] and the result is ordered by offset.
func Generate(text []byte, n, length int, seed uint64) ([][]byte, error) {
	if length < 1 {
		return nil, fmt.Errorf("patterns: invalid pattern length %d", length)
	}
	if len(text) < length {
		return nil, fmt.Errorf("patterns: text of %d bytes is shorter than pattern length %d", len(text), length)
	}
	rng := rand.New(rand.NewPCG(seed, ^seed))
	offsets := make([]int, n)
	for i := range offsets {
		offsets[i] = rng.IntN(len(text) - length + 1)
	}
	slices.Sort(offsets)
	out := make([][]byte, n)
	for i, off := range offsets {
		out[i] = text[off : off+length]
	}
	return out, nil
}

// Write writes one pattern per line.
func Write(w io.Writer, patterns [][]byte) error {
	bw := bufio.NewWriter(w)
	for _, p := range patterns {
		bw.Write(p)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
