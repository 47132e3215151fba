package packed

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestWidthFor(t *testing.T) {
	tests := []struct {
		max  uint64
		want uint
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {255, 8}, {256, 9}, {^uint64(0), 64},
	}
	for _, tt := range tests {
		if got := WidthFor(tt.max); got != tt.want {
			t.Fatalf("WidthFor(%d) = %d, want %d", tt.max, got, tt.want)
		}
	}
}

func TestSetGetStraddlingWords(t *testing.T) {
	for _, width := range []uint{1, 3, 7, 13, 31, 33, 63, 64} {
		a := NewWidth(200, width)
		rng := rand.New(rand.NewSource(int64(width)))
		want := make([]uint64, a.Len())
		for i := range want {
			want[i] = rng.Uint64() & maskFor(width)
			a.Set(uint64(i), want[i])
		}
		for i, v := range want {
			if got := a.Get(uint64(i)); got != v {
				t.Fatalf("width %d: cell %d = %d, want %d", width, i, got, v)
			}
		}
	}
}

func TestSetOverwritesNeighboursUnchanged(t *testing.T) {
	a := New(5, 7)
	for i := uint64(0); i < 5; i++ {
		a.Set(i, 7)
	}
	a.Set(2, 0)
	for i, want := range []uint64{7, 7, 0, 7, 7} {
		if got := a.Get(uint64(i)); got != want {
			t.Fatalf("cell %d = %d, want %d", i, got, want)
		}
	}
}

func TestBoundsChecked(t *testing.T) {
	a := New(4, 3)
	mustPanic(t, "get out of range", func() { a.Get(4) })
	mustPanic(t, "set out of range", func() { a.Set(4, 1) })
	mustPanic(t, "value too wide", func() { a.Set(0, 4) })
}

func TestWriteReadRoundTrip(t *testing.T) {
	a := New(77, 1000)
	for i := uint64(0); i < a.Len(); i++ {
		a.Set(i, (i*37)%1001)
	}
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	b, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != a.Len() || b.Width() != a.Width() {
		t.Fatalf("header mismatch: got (%d,%d), want (%d,%d)", b.Len(), b.Width(), a.Len(), a.Width())
	}
	for i := uint64(0); i < a.Len(); i++ {
		if a.Get(i) != b.Get(i) {
			t.Fatalf("cell %d differs after round trip", i)
		}
	}
}

func TestReadTruncated(t *testing.T) {
	a := New(10, 10)
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()[:buf.Len()-3]
	if _, err := Read(bytes.NewReader(data)); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	f()
}
