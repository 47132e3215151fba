/*
Package alphabet maps the bytes occurring in a text to a dense range of
values [0, Size()) and encodes fixed-length words over that range as
mixed-radix integers.

Values are assigned in order of first occurrence in the text. Once built, an
Alphabet is immutable and is persisted verbatim together with an index.
*/
package alphabet

import (
	"bufio"
	"fmt"
	"io"
	"math/bits"

	"github.com/npillmayer/cdat/internal/binio"
)

// MaxSize is the largest number of distinct symbols an alphabet can hold.
const MaxSize = 256

const absent = -1

// Alphabet is a bijection between the bytes of a text and [0, Size()).
type Alphabet struct {
	size    int
	forward [MaxSize]int16 // byte -> value, absent if unseen
	reverse []byte         // value -> byte
	pow2    bool           // size is a power of two
	log2    uint           // exponent if pow2
}

func newAlphabet() *Alphabet {
	a := &Alphabet{reverse: make([]byte, 0, 16)}
	for i := range a.forward {
		a.forward[i] = absent
	}
	return a
}

func (a *Alphabet) add(b byte) {
	if a.forward[b] != absent {
		return
	}
	a.forward[b] = int16(a.size)
	a.reverse = append(a.reverse, b)
	a.size++
}

func (a *Alphabet) freeze() {
	a.pow2 = a.size > 0 && a.size&(a.size-1) == 0
	a.log2 = 0
	if a.pow2 {
		a.log2 = uint(bits.TrailingZeros(uint(a.size)))
	}
}

// FromText builds the alphabet of text.
func FromText(text []byte) *Alphabet {
	a := newAlphabet()
	for _, b := range text {
		a.add(b)
	}
	a.freeze()
	return a
}

// FromReader builds an alphabet in a single pass over r.
func FromReader(r io.Reader) (*Alphabet, error) {
	a := newAlphabet()
	br := bufio.NewReaderSize(r, 16*1024)
	buf := make([]byte, 16*1024)
	for {
		n, err := br.Read(buf)
		for _, b := range buf[:n] {
			a.add(b)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	a.freeze()
	return a, nil
}

// Size returns the number of distinct symbols.
func (a *Alphabet) Size() int { return a.size }

// IsPowerOfTwo reports whether Size() is a power of two, and if so its
// exponent.
func (a *Alphabet) IsPowerOfTwo() (bool, uint) { return a.pow2, a.log2 }

// Value returns the value assigned to b.
func (a *Alphabet) Value(b byte) (uint64, bool) {
	v := a.forward[b]
	if v == absent {
		return 0, false
	}
	return uint64(v), true
}

// CharValue returns the value of b, or 0 if b is not part of the alphabet.
func (a *Alphabet) CharValue(b byte) uint64 {
	v := a.forward[b]
	if v == absent {
		return 0
	}
	return uint64(v)
}

// Char returns the byte with value v.
func (a *Alphabet) Char(v uint64) byte {
	return a.reverse[v]
}

// Validate reports whether every byte of word is part of the alphabet.
func (a *Alphabet) Validate(word []byte) bool {
	for _, b := range word {
		if a.forward[b] == absent {
			return false
		}
	}
	return true
}

// WordValue returns the mixed-radix value of word.
func (a *Alphabet) WordValue(word []byte) uint64 {
	return a.WordValueRange(word, 0, len(word))
}

// WordValueRange returns the mixed-radix value of word[start:end], most
// significant symbol first. Bytes outside the alphabet count as value 0; use
// Validate for untrusted input.
func (a *Alphabet) WordValueRange(word []byte, start, end int) uint64 {
	var result uint64
	if a.pow2 {
		for _, b := range word[start:end] {
			result = result<<a.log2 | a.CharValue(b)
		}
		return result
	}
	radix := uint64(a.size)
	for _, b := range word[start:end] {
		result = result*radix + a.CharValue(b)
	}
	return result
}

// Word decodes value into length symbols, most significant first.
func (a *Alphabet) Word(value uint64, length int) []byte {
	word := make([]byte, length)
	radix := uint64(a.size)
	for i := length - 1; i >= 0; i-- {
		word[i] = a.reverse[value%radix]
		value /= radix
	}
	return word
}

// Pow returns Size()^power. The caller is responsible for keeping the result
// within 64 bits.
func (a *Alphabet) Pow(power int) uint64 {
	if a.pow2 {
		return uint64(1) << (a.log2 * uint(power))
	}
	result, base := uint64(1), uint64(a.size)
	for p := power; p > 0; p >>= 1 {
		if p&1 == 1 {
			result *= base
		}
		base *= base
	}
	return result
}

// PowChecked returns Size()^power and false if the result overflows 64 bits.
func (a *Alphabet) PowChecked(power int) (uint64, bool) {
	result := uint64(1)
	for range power {
		hi, lo := bits.Mul64(result, uint64(a.size))
		if hi != 0 {
			return 0, false
		}
		result = lo
	}
	return result, true
}

// WriteTo serializes size, forward and reverse mapping.
func (a *Alphabet) WriteTo(w io.Writer) (int64, error) {
	bw := binio.NewWriter(w)
	bw.U64(uint64(a.size))
	bw.I16s(a.forward[:])
	bw.Bytes(a.reverse)
	return bw.Count(), bw.Err()
}

// Read deserializes an alphabet written by WriteTo.
func Read(r io.Reader) (*Alphabet, error) {
	br := binio.NewReader(r)
	size := br.U64()
	if br.Err() != nil {
		return nil, br.Err()
	}
	if size > MaxSize {
		return nil, fmt.Errorf("alphabet: corrupt size %d", size)
	}
	a := &Alphabet{size: int(size)}
	br.I16s(a.forward[:])
	a.reverse = make([]byte, size)
	br.Bytes(a.reverse)
	if br.Err() != nil {
		return nil, br.Err()
	}
	for v, b := range a.reverse {
		if a.forward[b] != int16(v) {
			return nil, fmt.Errorf("alphabet: forward and reverse mapping disagree at value %d", v)
		}
	}
	a.freeze()
	return a, nil
}
