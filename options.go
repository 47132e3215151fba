package cdat

import (
	"fmt"
	"strings"
)

// Kind selects the text backend of an index. The numeric value is the tag
// written at the start of an index file.
type Kind uint32

const (
	KindPacked   Kind = 128 // packed raw text, CLI name "bit"
	KindTextFree Kind = 256 // no text, CLI name "perm"
	KindWavelet  Kind = 512 // Huffman-shaped wavelet tree, CLI name "wt"
)

var kindNames = map[Kind]string{
	KindPacked:   "bit",
	KindTextFree: "perm",
	KindWavelet:  "wt",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a backend name ("bit", "wt", "perm") to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// DefaultMaxWordValues bounds the word space alphabetSize^wordSize, which
// determines the size of the bucket histogram and bit vector.
const DefaultMaxWordValues uint64 = 1 << 32

// Params are the build parameters of an index.
type Params struct {
	WordSize int // window length
	Shift    int // sampling stride, 1 <= Shift <= WordSize
	Kind     Kind
}

// Validate checks the parameters before any work is done.
func (p Params) Validate() error {
	switch {
	case p.WordSize < 1:
		return ErrInvalidWordSize
	case p.Shift < 1:
		return ErrInvalidShift
	case p.Shift > p.WordSize:
		return fmt.Errorf("%w: shift %d, word size %d", ErrShiftTooLarge, p.Shift, p.WordSize)
	case !p.Kind.valid():
		return fmt.Errorf("%w: %d", ErrUnknownKind, uint32(p.Kind))
	}
	return nil
}

type options struct {
	workers       int
	maxWordValues uint64
	expect        Kind // 0 accepts any kind
}

func defaultOptions() options {
	return options{workers: 1, maxWordValues: DefaultMaxWordValues}
}

// Option configures building and loading of an index.
type Option func(*options)

// WithWorkers sets the number of goroutines scanning alignment offsets of a
// query concurrently. Values below 2 scan sequentially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 1)
	}
}

// WithMaxWordValues overrides DefaultMaxWordValues.
func WithMaxWordValues(n uint64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxWordValues = n
		}
	}
}

// ExpectKind makes Load fail with ErrKindMismatch if the file holds an index
// of another backend kind.
func ExpectKind(k Kind) Option {
	return func(o *options) {
		o.expect = k
	}
}
