package bucket

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring"
	"github.com/npillmayer/cdat/internal/binio"
)

// ErrVectorTooLong is returned when a bucket vector exceeds the 32-bit
// position range of a ZeroSelect.
var ErrVectorTooLong = errors.New("bucket: vector too long for zero-select")

// ZeroSelect holds the positions of the occurrence bits of an Index in a
// compressed bitmap, answering select over zero bits without touching the
// rank/select dictionary. Runs of occurrences are stored as roaring runs.
type ZeroSelect struct {
	zeros *roaring.Bitmap
}

// NewZeroSelect collects the occurrence positions of ix.
func NewZeroSelect(ix *Index) (*ZeroSelect, error) {
	if ix.Len() > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bits", ErrVectorTooLong, ix.Len())
	}
	zs := &ZeroSelect{zeros: roaring.New()}
	// marker of value v sits at Select(v, true); its zeros follow directly
	next := ix.dict.Select(0, true)
	for v := uint64(0); v < ix.values; v++ {
		start := next + 1
		next = ix.dict.Select(v+1, true)
		if next > start {
			zs.zeros.AddRange(start, next)
		}
	}
	zs.zeros.RunOptimize()
	tracer().Debugf("bucket: zero-select over %d occurrences, %d bytes",
		zs.zeros.GetCardinality(), zs.zeros.GetSizeInBytes())
	return zs, nil
}

// Select returns the bit position of the occurrence with permutation rank r.
func (zs *ZeroSelect) Select(r uint64) uint64 {
	pos, err := zs.zeros.Select(uint32(r))
	if err != nil {
		panic(fmt.Sprintf("bucket: zero-select of rank %d: %v", r, err))
	}
	return uint64(pos)
}

// Len returns the number of occurrence positions.
func (zs *ZeroSelect) Len() uint64 { return zs.zeros.GetCardinality() }

func (zs *ZeroSelect) SizeInBytes() int { return int(zs.zeros.GetSizeInBytes()) }

// WriteTo writes the bitmap as a length-prefixed blob.
func (zs *ZeroSelect) WriteTo(w io.Writer) (int64, error) {
	data, err := zs.zeros.ToBytes()
	if err != nil {
		return 0, err
	}
	bw := binio.NewWriter(w)
	bw.Blob(data)
	return bw.Count(), bw.Err()
}

// ReadZeroSelect deserializes a ZeroSelect written by WriteTo.
func ReadZeroSelect(r io.Reader) (*ZeroSelect, error) {
	br := binio.NewReader(r)
	data := br.Blob(math.MaxUint32)
	if br.Err() != nil {
		return nil, fmt.Errorf("bucket: zero-select: %w", br.Err())
	}
	zs := &ZeroSelect{zeros: roaring.New()}
	if err := zs.zeros.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("bucket: zero-select: %w", err)
	}
	return zs, nil
}
