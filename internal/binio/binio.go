// Package binio wraps little-endian encoding of the fixed-width fields of the
// index file. Writer and Reader keep the first error and turn every later call
// into a no-op, so a sequence of fields can be written or read without checking
// after each one.
package binio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer writes little-endian values to an underlying io.Writer.
type Writer struct {
	w   io.Writer
	n   int64
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered.
func (bw *Writer) Err() error { return bw.err }

// Count returns the number of bytes written so far.
func (bw *Writer) Count() int64 { return bw.n }

func (bw *Writer) write(v any, size int) {
	if bw.err != nil {
		return
	}
	if err := binary.Write(bw.w, binary.LittleEndian, v); err != nil {
		bw.err = err
		return
	}
	bw.n += int64(size)
}

func (bw *Writer) U32(v uint32) { bw.write(v, 4) }

func (bw *Writer) U64(v uint64) { bw.write(v, 8) }

func (bw *Writer) I16s(v []int16) { bw.write(v, 2*len(v)) }

func (bw *Writer) U64s(v []uint64) { bw.write(v, 8*len(v)) }

// Bytes writes raw bytes without a length prefix.
func (bw *Writer) Bytes(b []byte) {
	if bw.err != nil {
		return
	}
	n, err := bw.w.Write(b)
	bw.n += int64(n)
	bw.err = err
}

// Blob writes a length-prefixed byte slice.
func (bw *Writer) Blob(b []byte) {
	bw.U64(uint64(len(b)))
	bw.Bytes(b)
}

// Reader reads little-endian values from an underlying io.Reader.
type Reader struct {
	r   io.Reader
	n   int64
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered. A premature end of input is
// reported as io.ErrUnexpectedEOF.
func (br *Reader) Err() error { return br.err }

// Count returns the number of bytes consumed so far.
func (br *Reader) Count() int64 { return br.n }

func (br *Reader) read(v any, size int) {
	if br.err != nil {
		return
	}
	if err := binary.Read(br.r, binary.LittleEndian, v); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		br.err = err
		return
	}
	br.n += int64(size)
}

func (br *Reader) U32() uint32 {
	var v uint32
	br.read(&v, 4)
	return v
}

func (br *Reader) U64() uint64 {
	var v uint64
	br.read(&v, 8)
	return v
}

func (br *Reader) I16s(v []int16) { br.read(v, 2*len(v)) }

func (br *Reader) U64s(v []uint64) { br.read(v, 8*len(v)) }

// Bytes fills b completely.
func (br *Reader) Bytes(b []byte) {
	if br.err != nil {
		return
	}
	n, err := io.ReadFull(br.r, b)
	br.n += int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		br.err = err
	}
}

// Blob reads a length-prefixed byte slice. limit guards against corrupt
// length fields; a length above limit is an error.
func (br *Reader) Blob(limit uint64) []byte {
	size := br.U64()
	if br.err != nil {
		return nil
	}
	if size > limit {
		br.err = fmt.Errorf("binio: blob of %d bytes exceeds limit %d", size, limit)
		return nil
	}
	b := make([]byte, size)
	br.Bytes(b)
	return b
}

// Fail records err unless an earlier error is already present.
func (br *Reader) Fail(err error) {
	if br.err == nil {
		br.err = err
	}
}

// Object writes v through its own WriteTo method.
func (bw *Writer) Object(v io.WriterTo) {
	if bw.err != nil {
		return
	}
	n, err := v.WriteTo(bw.w)
	bw.n += n
	bw.err = err
}

// Object reads v through its own ReadFrom method.
func (br *Reader) Object(v io.ReaderFrom) {
	if br.err != nil {
		return
	}
	n, err := v.ReadFrom(br.r)
	br.n += n
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	br.err = err
}
