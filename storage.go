package cdat

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/cdat/alphabet"
	"github.com/npillmayer/cdat/bucket"
	"github.com/npillmayer/cdat/internal/binio"
	"github.com/npillmayer/cdat/perm"
)

// Save writes ix to w. The layout is, little-endian: a 4-byte backend tag,
// word size, shift, text length and padding length as 8-byte integers, the
// bucket vector, the alphabet, the permutation and the backend payload.
func (ix *Index) Save(w io.Writer) error {
	bw := binio.NewWriter(w)
	bw.U32(uint32(ix.kind))
	bw.U64(uint64(ix.wordSize))
	bw.U64(uint64(ix.shift))
	bw.U64(ix.textLength)
	bw.U64(ix.padding)
	bw.Object(ix.buckets)
	bw.Object(ix.alpha)
	bw.Object(ix.perm)
	if bw.Err() != nil {
		return bw.Err()
	}
	return ix.backend.Save(w)
}

// SaveFile writes ix to a file at path.
func (ix *Index) SaveFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriterSize(f, 1<<20)
	if err = ix.Save(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Load reads an index written by Save.
func Load(r io.Reader, opts ...Option) (*Index, error) {
	ix := &Index{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&ix.opts)
	}
	br := binio.NewReader(r)
	ix.kind = Kind(br.U32())
	wordSize, shift := br.U64(), br.U64()
	ix.textLength, ix.padding = br.U64(), br.U64()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("cdat: reading header: %w", err)
	}
	if !ix.kind.valid() {
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownKind, uint32(ix.kind))
	}
	if ix.opts.expect != 0 && ix.opts.expect != ix.kind {
		return nil, fmt.Errorf("%w: file holds %s, expected %s", ErrKindMismatch, ix.kind, ix.opts.expect)
	}
	if wordSize > 1<<16 || shift > 1<<16 {
		return nil, fmt.Errorf("%w: word size %d, shift %d", ErrCorruptIndex, wordSize, shift)
	}
	ix.wordSize, ix.shift = int(wordSize), int(shift)
	params := Params{WordSize: ix.wordSize, Shift: ix.shift, Kind: ix.kind}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	if ix.textLength == 0 || ix.padding != wordSize {
		return nil, fmt.Errorf("%w: text length %d, padding %d", ErrCorruptIndex, ix.textLength, ix.padding)
	}
	var err error
	if ix.buckets, err = bucket.Read(r); err != nil {
		return nil, err
	}
	if ix.alpha, err = alphabet.Read(r); err != nil {
		return nil, err
	}
	if ix.backend, err = newBackend(ix.kind); err != nil {
		return nil, err
	}
	if ix.kind == KindTextFree {
		ix.perm, err = perm.ReadReverse(r)
	} else {
		ix.perm, err = perm.ReadPlain(r)
	}
	if err != nil {
		return nil, err
	}
	if err := ix.checkShape(); err != nil {
		return nil, err
	}
	if !perm.IsBijection(ix.perm) {
		return nil, fmt.Errorf("%w: permutation is not a bijection", ErrCorruptIndex)
	}
	if err := ix.backend.Load(ix, r); err != nil {
		return nil, err
	}
	ix.tailValues = make([]uint64, ix.windows-ix.firstTail)
	for i := ix.firstTail; i < ix.windows; i++ {
		ix.tailValues[i-ix.firstTail] = ix.backend.WindowValue(i)
	}
	tracer().Infof("cdat: loaded %s index, w=%d s=%d n=%d windows=%d",
		ix.kind, ix.wordSize, ix.shift, ix.textLength, ix.windows)
	return ix, nil
}

// checkShape verifies that the structures read so far fit together.
func (ix *Index) checkShape() error {
	values, ok := ix.alpha.PowChecked(ix.wordSize)
	if !ok {
		return fmt.Errorf("%w: word space overflows", ErrCorruptIndex)
	}
	ix.initPow()
	if err := ix.initWindows(); err != nil {
		return err
	}
	switch {
	case ix.buckets.Values() != values:
		return fmt.Errorf("%w: bucket vector over %d values, want %d", ErrCorruptIndex, ix.buckets.Values(), values)
	case ix.buckets.Windows() != ix.windows:
		return fmt.Errorf("%w: bucket vector with %d windows, want %d", ErrCorruptIndex, ix.buckets.Windows(), ix.windows)
	case ix.perm.Len() != ix.windows:
		return fmt.Errorf("%w: permutation of length %d, want %d", ErrCorruptIndex, ix.perm.Len(), ix.windows)
	}
	return nil
}

// LoadFile reads an index from the file at path.
func LoadFile(path string, opts ...Option) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(bufio.NewReaderSize(f, 1<<20), opts...)
}
