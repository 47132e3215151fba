package alphabet

import (
	"bufio"
	"io"
	"math"
)

// Report summarizes a text for choosing index parameters.
type Report struct {
	TextLength        uint64
	Size              int
	SuggestedWordSize int
}

// Survey scans r once and reports its length, the number of distinct bytes and
// a suggested word size of floor(log_Size(TextLength)).
func Survey(r io.Reader) (Report, error) {
	var seen [MaxSize]bool
	var rep Report
	br := bufio.NewReaderSize(r, 16*1024)
	buf := make([]byte, 16*1024)
	for {
		n, err := br.Read(buf)
		for _, b := range buf[:n] {
			if !seen[b] {
				seen[b] = true
				rep.Size++
			}
		}
		rep.TextLength += uint64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return rep, err
		}
	}
	rep.SuggestedWordSize = SuggestWordSize(rep.TextLength, rep.Size)
	return rep, nil
}

// SuggestWordSize returns floor(log(textLength)/log(size)), at least 1.
func SuggestWordSize(textLength uint64, size int) int {
	if size < 2 || textLength < 2 {
		return 1
	}
	w := int(math.Log(float64(textLength)) / math.Log(float64(size)))
	// guard against log rounding just below an exact power
	for p := math.Pow(float64(size), float64(w+1)); p <= float64(textLength); p *= float64(size) {
		w++
	}
	return max(w, 1)
}
