package cdat

import (
	"fmt"
	"math"
	"os"

	"github.com/npillmayer/cdat/alphabet"
	"github.com/npillmayer/cdat/bucket"
	"github.com/npillmayer/cdat/packed"
	"github.com/npillmayer/cdat/perm"
)

// Index is an immutable direct-address word index over a text.
//
// Window i covers text positions [i·shift, i·shift+wordSize). Windows reaching
// into the padding behind the text (tail windows) are part of the permutation
// and the bucket vector, but are never reported as occurrences of a pattern
// of length wordSize.
type Index struct {
	kind       Kind
	wordSize   int
	shift      int
	textLength uint64
	padding    uint64
	windows    uint64   // ceil(textLength/shift)
	firstTail  uint64   // index of the first tail window
	tailValues []uint64 // word values of windows [firstTail, windows)
	pow        []uint64 // alphabetSize^k for k in [0, wordSize]
	alpha      *alphabet.Alphabet
	buckets    *bucket.Index
	perm       perm.Permutation
	backend    textBackend
	opts       options
}

// Build indexes text with the given parameters.
func Build(text []byte, params Params, opts ...Option) (*Index, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return nil, ErrEmptyText
	}
	ix := &Index{
		kind:       params.Kind,
		wordSize:   params.WordSize,
		shift:      params.Shift,
		textLength: uint64(len(text)),
		padding:    uint64(params.WordSize),
		opts:       defaultOptions(),
	}
	for _, opt := range opts {
		opt(&ix.opts)
	}
	ix.alpha = alphabet.FromText(text)
	values, err := ix.wordSpace()
	if err != nil {
		return nil, err
	}
	if err := ix.initWindows(); err != nil {
		return nil, err
	}
	tracer().Infof("cdat: building %s index, w=%d s=%d n=%d sigma=%d word space=%d windows=%d",
		ix.kind, ix.wordSize, ix.shift, ix.textLength, ix.alpha.Size(), values, ix.windows)
	if ix.backend, err = newBackend(ix.kind); err != nil {
		return nil, err
	}
	wv := ix.windowValues(text, values)
	ix.sortWindows(wv, values)
	ix.tailValues = make([]uint64, ix.windows-ix.firstTail)
	for i := ix.firstTail; i < ix.windows; i++ {
		ix.tailValues[i-ix.firstTail] = wv.Get(i)
	}
	if err := ix.backend.Populate(ix, text); err != nil {
		return nil, err
	}
	st := ix.Stats()
	tracer().Infof("cdat: buckets %d bytes, permutation %d bytes, text %d bytes, extra %d bytes",
		st.BucketBytes, st.PermutationBytes, st.TextBytes, st.ExtraBytes)
	return ix, nil
}

// BuildFile indexes the contents of the file at path.
func BuildFile(path string, params Params, opts ...Option) (*Index, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(text, params, opts...)
}

// wordSpace checks alphabetSize^wordSize against the configured maximum and
// fills the power table.
func (ix *Index) wordSpace() (uint64, error) {
	values, ok := ix.alpha.PowChecked(ix.wordSize)
	if !ok || values > ix.opts.maxWordValues {
		return 0, fmt.Errorf("%w: %d^%d > %d", ErrWordSpaceTooLarge,
			ix.alpha.Size(), ix.wordSize, ix.opts.maxWordValues)
	}
	ix.initPow()
	return values, nil
}

// initPow fills the table of alphabetSize^k for k in [0, wordSize]. Entries
// beyond the word space wrap around and must not be used.
func (ix *Index) initPow() {
	ix.pow = make([]uint64, ix.wordSize+1)
	for k := range ix.pow {
		ix.pow[k] = ix.alpha.Pow(k)
	}
}

// initWindows derives the window count and the first tail window from text
// length, word size and shift.
func (ix *Index) initWindows() error {
	s, w := uint64(ix.shift), uint64(ix.wordSize)
	ix.windows = (ix.textLength + s - 1) / s
	if ix.windows > math.MaxUint32 {
		return fmt.Errorf("%w: %d windows", ErrTextTooLong, ix.windows)
	}
	if ix.textLength < w {
		ix.firstTail = 0
	} else {
		ix.firstTail = (ix.textLength-w)/s + 1
	}
	assert(ix.firstTail <= ix.windows, "first tail window beyond window count")
	return nil
}

// windowValues computes the word value of every window. Window i+1 shares
// wordSize-shift symbols with window i, so each value is derived from its
// predecessor by dropping the leading shift symbols and appending shift new
// ones. Positions in the padding have value 0.
func (ix *Index) windowValues(text []byte, values uint64) *packed.Array {
	s, w := uint64(ix.shift), uint64(ix.wordSize)
	wv := packed.New(ix.windows, values-1)
	v := ix.paddedValue(text, 0, w)
	wv.Set(0, v)
	keep, scale := ix.pow[w-s], ix.pow[s]
	for i := uint64(1); i < ix.windows; i++ {
		v = (v%keep)*scale + ix.paddedValue(text, i*s+w-s, s)
		wv.Set(i, v)
	}
	return wv
}

// paddedValue returns the word value of the count symbols starting at from,
// reading positions beyond the text as value 0.
func (ix *Index) paddedValue(text []byte, from, count uint64) uint64 {
	end := min(from+count, ix.textLength)
	if from >= end {
		return 0
	}
	return ix.alpha.WordValueRange(text, int(from), int(end)) * ix.pow[from+count-end]
}

// sortWindows counting-sorts the windows by word value into the permutation
// and lays out the bucket vector. Ties keep ascending window order.
func (ix *Index) sortWindows(wv *packed.Array, values uint64) {
	counts := make([]uint32, values)
	for i := uint64(0); i < ix.windows; i++ {
		counts[wv.Get(i)]++
	}
	ix.buckets = bucket.FromCounts(counts)
	assert(ix.buckets.Windows() == ix.windows, "bucket vector lost windows")
	// counts becomes the next free rank of each bucket; windows fit in uint32
	var sum uint32
	for v, c := range counts {
		counts[v] = sum
		sum += c
	}
	ix.perm = ix.backend.NewPermutation(ix.windows)
	for i := uint64(0); i < ix.windows; i++ {
		v := wv.Get(i)
		ix.perm.Set(uint64(counts[v]), i)
		counts[v]++
	}
}

// tailHits returns the number of tail windows with word value v.
func (ix *Index) tailHits(v uint64) uint64 {
	var hits uint64
	for _, tv := range ix.tailValues {
		if tv == v {
			hits++
		}
	}
	return hits
}

// Kind returns the backend kind of the index.
func (ix *Index) Kind() Kind { return ix.kind }

// WordSize returns the window length.
func (ix *Index) WordSize() int { return ix.wordSize }

// Shift returns the sampling stride.
func (ix *Index) Shift() int { return ix.shift }

// TextLength returns the length of the indexed text.
func (ix *Index) TextLength() uint64 { return ix.textLength }

// Alphabet returns the alphabet of the indexed text.
func (ix *Index) Alphabet() *alphabet.Alphabet { return ix.alpha }

// Stats describes the shape and memory footprint of an index.
type Stats struct {
	Kind             Kind
	WordSize         int
	Shift            int
	TextLength       uint64
	Windows          uint64
	AlphabetSize     int
	BucketBytes      int
	PermutationBytes int
	TextBytes        int
	ExtraBytes       int
}

// TotalBytes sums the sizes of all structures.
func (s Stats) TotalBytes() int {
	return s.BucketBytes + s.PermutationBytes + s.TextBytes + s.ExtraBytes
}

// MegaBytes returns TotalBytes in MiB.
func (s Stats) MegaBytes() float64 {
	return float64(s.TotalBytes()) / (1 << 20)
}

// BitsPerSymbol relates the index size to the text length.
func (s Stats) BitsPerSymbol() float64 {
	if s.TextLength == 0 {
		return 0
	}
	return float64(8*s.TotalBytes()) / float64(s.TextLength)
}

// Stats reports the shape and memory footprint of ix.
func (ix *Index) Stats() Stats {
	bs := ix.backend.Stats()
	return Stats{
		Kind:             ix.kind,
		WordSize:         ix.wordSize,
		Shift:            ix.shift,
		TextLength:       ix.textLength,
		Windows:          ix.windows,
		AlphabetSize:     ix.alpha.Size(),
		BucketBytes:      ix.buckets.SizeInBytes(),
		PermutationBytes: ix.perm.SizeInBytes(),
		TextBytes:        bs.TextBytes,
		ExtraBytes:       bs.ExtraBytes,
	}
}
