package wavelet

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func naiveRank(seq []byte, sym byte, i int) uint64 {
	var n uint64
	for _, c := range seq[:i] {
		if c == sym {
			n++
		}
	}
	return n
}

func TestAccessAndRank(t *testing.T) {
	// "abracadabra" over a=0 b=1 r=2 c=3 d=4
	seq := []byte{0, 1, 2, 0, 3, 0, 4, 0, 1, 2, 0}
	wt := New(seq, 5)
	if wt.Len() != uint64(len(seq)) {
		t.Fatalf("length = %d, want %d", wt.Len(), len(seq))
	}
	for i, c := range seq {
		if got := wt.Access(uint64(i)); got != c {
			t.Fatalf("access(%d) = %d, want %d", i, got, c)
		}
	}
	for sym := byte(0); sym < 5; sym++ {
		for i := 0; i <= len(seq); i++ {
			if got, want := wt.Rank(sym, uint64(i)), naiveRank(seq, sym, i); got != want {
				t.Fatalf("rank(%d,%d) = %d, want %d", sym, i, got, want)
			}
		}
	}
	if wt.codes[0].length > wt.codes[4].length {
		t.Fatalf("most frequent symbol must not get a longer code than a rare one")
	}
}

func TestRandomSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seq := make([]byte, 5000)
	for i := range seq {
		// skewed distribution over 20 symbols
		seq[i] = byte(rng.Intn(rng.Intn(20) + 1))
	}
	wt := New(seq, 20)
	for i, c := range seq {
		if wt.Access(uint64(i)) != c {
			t.Fatalf("access(%d) mismatch", i)
		}
	}
	if got := wt.Rank(0, uint64(len(seq))); got != naiveRank(seq, 0, len(seq)) {
		t.Fatalf("rank of symbol 0 = %d", got)
	}
}

func TestSingleSymbol(t *testing.T) {
	wt := New([]byte{2, 2, 2}, 3)
	if !wt.root.isLeaf() {
		t.Fatalf("single-symbol sequence should have a leaf root")
	}
	if wt.Access(1) != 2 || wt.Rank(2, 3) != 3 || wt.Rank(0, 3) != 0 {
		t.Fatalf("single-symbol tree answers wrongly")
	}
}

func TestSaveLoad(t *testing.T) {
	seq := []byte("mississippi river")
	for i := range seq {
		seq[i] -= ' '
	}
	wt := New(seq, 96)
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	wt2, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range seq {
		if wt2.Access(uint64(i)) != c {
			t.Fatalf("access(%d) differs after load", i)
		}
	}
	if wt2.Rank('s'-' ', uint64(len(seq))) != 4 {
		t.Fatalf("rank of 's' differs after load")
	}
}

func TestSaveLoadEmpty(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(nil, 1).WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	wt, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if wt.Len() != 0 {
		t.Fatalf("expected empty tree")
	}
}

func TestReadCorruptTag(t *testing.T) {
	data := []byte{1, 0, 0, 0, 0, 0, 0, 0, 9, 0, 0, 0}
	if _, err := Read(bytes.NewReader(data)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
