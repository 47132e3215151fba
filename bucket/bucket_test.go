package bucket

import (
	"bytes"
	"testing"
)

// banana, w=2, s=1 over b=0 a=1 n=2: windows ba an na an na a<pad>
// values 1 5 7 5 7 3 in a word space of 9.
var bananaCounts = []uint32{0, 1, 0, 1, 0, 2, 0, 2, 0}

func TestRanges(t *testing.T) {
	ix := FromCounts(bananaCounts)
	if ix.Values() != 9 || ix.Windows() != 6 || ix.Len() != 16 {
		t.Fatalf("unexpected shape: values=%d windows=%d len=%d", ix.Values(), ix.Windows(), ix.Len())
	}
	var lo uint64
	for v, c := range bananaCounts {
		l, h := ix.Range(uint64(v))
		if l != lo || h-l != uint64(c) {
			t.Fatalf("range of %d = [%d,%d), want [%d,%d)", v, l, h, lo, lo+uint64(c))
		}
		lo = h
	}
	if l, h := ix.Range(100); l != h {
		t.Fatalf("value outside word space must have empty range")
	}
}

func TestValueOfRank(t *testing.T) {
	ix := FromCounts(bananaCounts)
	want := []uint64{1, 3, 5, 5, 7, 7}
	for r, v := range want {
		if got := ix.ValueOfRank(uint64(r)); got != v {
			t.Fatalf("value of rank %d = %d, want %d", r, got, v)
		}
	}
	// markers of values 0 and 1 precede the first occurrence bit
	if pos := ix.Select0(0); pos != 2 || ix.Rank1(pos) != 2 || ix.ValueAtZero(pos) != 1 {
		t.Fatalf("first occurrence at %d, rank1 %d", pos, ix.Rank1(pos))
	}
}

func TestZeroSelectAgreesWithDictionary(t *testing.T) {
	ix := FromCounts([]uint32{3, 0, 0, 1, 5, 0, 2})
	zs, err := NewZeroSelect(ix)
	if err != nil {
		t.Fatal(err)
	}
	if zs.Len() != ix.Windows() {
		t.Fatalf("zero-select holds %d positions, want %d", zs.Len(), ix.Windows())
	}
	for r := uint64(0); r < ix.Windows(); r++ {
		if zs.Select(r) != ix.Select0(r) {
			t.Fatalf("select0(%d): roaring %d, rsdic %d", r, zs.Select(r), ix.Select0(r))
		}
	}
	var buf bytes.Buffer
	if _, err := zs.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	zs2, err := ReadZeroSelect(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for r := uint64(0); r < ix.Windows(); r++ {
		if zs2.Select(r) != zs.Select(r) {
			t.Fatalf("select0(%d) differs after load", r)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	ix := FromCounts(bananaCounts)
	var buf bytes.Buffer
	if _, err := ix.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	ix2, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if ix2.Values() != ix.Values() || ix2.Windows() != ix.Windows() {
		t.Fatalf("shape differs after load")
	}
	for v := uint64(0); v < ix.Values(); v++ {
		l1, h1 := ix.Range(v)
		l2, h2 := ix2.Range(v)
		if l1 != l2 || h1 != h2 {
			t.Fatalf("range of %d differs after load", v)
		}
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte{1, 2})); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}
