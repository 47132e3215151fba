package patterns

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	text := []byte("abcdefghijklmnopqrstuvwxyz")
	pats, err := Generate(text, 100, 5, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(pats) != 100 {
		t.Fatalf("expected 100 patterns, got %d", len(pats))
	}
	last := -1
	for _, p := range pats {
		if len(p) != 5 {
			t.Fatalf("pattern %q has wrong length", p)
		}
		off := bytes.Index(text, p)
		if off < 0 {
			t.Fatalf("pattern %q is not a substring", p)
		}
		if off < last {
			t.Fatalf("patterns not ordered by offset")
		}
		last = off
	}
}

func TestGenerateWholeText(t *testing.T) {
	pats, err := Generate([]byte("abc"), 3, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range pats {
		if string(p) != "abc" {
			t.Fatalf("expected the whole text, got %q", p)
		}
	}
	if _, err := Generate([]byte("ab"), 1, 3, 1); err == nil {
		t.Fatalf("expected error for text shorter than pattern")
	}
	if _, err := Generate([]byte("ab"), 1, 0, 1); err == nil {
		t.Fatalf("expected error for empty pattern length")
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, [][]byte{[]byte("ACG"), []byte("GTT")}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != strings.Join([]string{"ACG", "GTT", ""}, "\n") {
		t.Fatalf("unexpected output %q", got)
	}
}
