package cdat

import (
	"slices"

	"github.com/sourcegraph/conc/pool"
)

// Count returns the number of occurrences of pattern in the text.
// Patterns containing bytes outside the alphabet of the text occur 0 times.
func (ix *Index) Count(pattern []byte) uint64 {
	if fast, n := ix.countDirect(pattern); fast {
		return n
	}
	var total uint64
	for _, r := range ix.search(pattern, false) {
		total += r.count
	}
	return total
}

// Locate returns the start offsets of all occurrences of pattern, sorted
// ascending.
func (ix *Index) Locate(pattern []byte) []uint64 {
	var positions []uint64
	for _, r := range ix.search(pattern, true) {
		positions = append(positions, r.positions...)
	}
	slices.Sort(positions)
	return positions
}

// Extract returns text[from:to). to is clamped to the text length.
func (ix *Index) Extract(from, to uint64) ([]byte, error) {
	to = min(to, ix.textLength)
	if to < from {
		return nil, ErrInvalidRange
	}
	out := make([]byte, 0, to-from)
	ix.backend.Scan(from, to, func(v uint64) bool {
		out = append(out, ix.alpha.Char(v))
		return true
	})
	return out, nil
}

// admissible reports whether pattern can occur in the text at all.
func (ix *Index) admissible(pattern []byte) bool {
	return len(pattern) > 0 && uint64(len(pattern)) <= ix.textLength && ix.alpha.Validate(pattern)
}

// countDirect answers patterns of exactly wordSize over a shift of 1 from the
// bucket vector alone: every occurrence starts a window, and only tail
// windows need to be discounted.
func (ix *Index) countDirect(pattern []byte) (bool, uint64) {
	if ix.shift != 1 || len(pattern) != ix.wordSize {
		return false, 0
	}
	if !ix.admissible(pattern) {
		return true, 0
	}
	v := ix.alpha.WordValue(pattern)
	return true, ix.buckets.Count(v) - ix.tailHits(v)
}

type hits struct {
	count     uint64
	positions []uint64
}

// search runs one scan per alignment of the pattern. Every occurrence is
// found by exactly one scan, so the results are disjoint.
//
// An occurrence at p is anchored at the first window starting at or after p,
// i.e. at start = ceil(p/shift)·shift − p in [0, shift). If start < len(pattern)
// the window's first symbols equal a slice of the pattern. Otherwise the
// occurrence lies inside a single window at an offset in [1, shift−len].
func (ix *Index) search(pattern []byte, collect bool) []hits {
	if !ix.admissible(pattern) {
		return nil
	}
	L, s := len(pattern), ix.shift
	var scans []func() hits
	for start := 0; start < min(s, L); start++ {
		scans = append(scans, func() hits { return ix.scanAnchored(pattern, start, collect) })
	}
	for off := 1; off+L <= s; off++ {
		scans = append(scans, func() hits { return ix.scanInner(pattern, off, collect) })
	}
	tracer().Debugf("cdat: pattern of length %d, %d scans", L, len(scans))
	if ix.opts.workers < 2 || len(scans) < 2 {
		results := make([]hits, len(scans))
		for i, scan := range scans {
			results[i] = scan()
		}
		return results
	}
	p := pool.NewWithResults[hits]().WithMaxGoroutines(ix.opts.workers)
	for _, scan := range scans {
		p.Go(scan)
	}
	return p.Wait()
}

// valueRange returns the permutation range of all windows whose word value
// lies in [a, b).
func (ix *Index) valueRange(a, b uint64) (lo, hi uint64) {
	if a >= b {
		return 0, 0
	}
	lo, _ = ix.buckets.Range(a)
	_, hi = ix.buckets.Range(b - 1)
	return lo, hi
}

// scanAnchored finds the occurrences whose first window starts at pattern
// offset start. The window begins with pattern[start:start+k]; the rest of
// the pattern is verified against the text.
func (ix *Index) scanAnchored(pattern []byte, start int, collect bool) hits {
	L, w := len(pattern), ix.wordSize
	k := min(w, L-start)
	prefix := ix.alpha.WordValueRange(pattern, start, start+k)
	scale := ix.pow[w-k]
	lo, hi := ix.valueRange(prefix*scale, (prefix+1)*scale)
	left, right := pattern[:start], pattern[start+k:]
	var h hits
	s, n := uint64(ix.shift), ix.textLength
	for j := lo; j < hi; j++ {
		wp := ix.perm.Pi(j) * s
		if wp < uint64(start) {
			continue
		}
		p := wp - uint64(start)
		if p+uint64(L) > n {
			continue
		}
		if !ix.matchAt(p, left) || !ix.matchAt(wp+uint64(k), right) {
			continue
		}
		h.count++
		if collect {
			h.positions = append(h.positions, p)
		}
	}
	return h
}

// scanInner finds the occurrences lying strictly inside a window at offset
// off, not covering the start of the next window. The windows are those whose
// digits [off, off+len) equal the pattern; for each prefix of off symbols
// they form one value range. If there are more prefixes than windows, the
// windows are decoded one by one instead.
func (ix *Index) scanInner(pattern []byte, off int, collect bool) hits {
	L, w := len(pattern), ix.wordSize
	pat := ix.alpha.WordValue(pattern)
	below := ix.pow[w-off-L]
	var h hits
	s, n := uint64(ix.shift), ix.textLength
	record := func(j uint64) {
		p := ix.perm.Pi(j)*s + uint64(off)
		if p+uint64(L) > n {
			return
		}
		h.count++
		if collect {
			h.positions = append(h.positions, p)
		}
	}
	prefixes := ix.pow[off]
	if prefixes > ix.windows {
		for j := uint64(0); j < ix.windows; j++ {
			if (ix.buckets.ValueOfRank(j)/below)%ix.pow[L] == pat {
				record(j)
			}
		}
		return h
	}
	for q := uint64(0); q < prefixes; q++ {
		a := (q*ix.pow[L] + pat) * below
		lo, hi := ix.valueRange(a, a+below)
		for j := lo; j < hi; j++ {
			record(j)
		}
	}
	return h
}

// matchAt reports whether the text at pos equals seg.
func (ix *Index) matchAt(pos uint64, seg []byte) bool {
	if len(seg) == 0 {
		return true
	}
	k, ok := 0, true
	ix.backend.Scan(pos, pos+uint64(len(seg)), func(v uint64) bool {
		if v != ix.alpha.CharValue(seg[k]) {
			ok = false
			return false
		}
		k++
		return true
	})
	return ok
}
