package batch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/cdat"
)

// stubIndex answers from a fixed table and counts the queries it receives.
type stubIndex struct {
	hits    map[string][]uint64
	queries int
}

func (s *stubIndex) Count(p []byte) uint64 {
	s.queries++
	return uint64(len(s.hits[string(p)]))
}

func (s *stubIndex) Locate(p []byte) []uint64 {
	s.queries++
	return s.hits[string(p)]
}

func newStub() *stubIndex {
	return &stubIndex{hits: map[string][]uint64{
		"an":    {1, 3},
		"anana": {1},
	}}
}

func TestCount(t *testing.T) {
	ix := newStub()
	r := Runner{Index: ix, Action: Count}
	var out bytes.Buffer
	sum, err := r.Run(strings.NewReader("an\r\nanana\nxy\nan\n"), &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "'an' number of occurrences = 2\n" +
		"'anana' number of occurrences = 1\n" +
		"'xy' number of occurrences = 0\n" +
		"'an' number of occurrences = 2\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if sum.Patterns != 4 || sum.Occurrences != 5 || sum.CacheHits != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if ix.queries != 3 {
		t.Fatalf("expected 3 index queries, got %d", ix.queries)
	}
}

func TestLocate(t *testing.T) {
	r := Runner{Index: newStub(), Action: Locate}
	var out bytes.Buffer
	sum, err := r.Run(strings.NewReader("an\n\nxy"), &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "'an' occurrences are:\n[1, 3]\n" +
		"'' occurrences are:\n[]\n" +
		"'xy' occurrences are:\n[]\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if sum.Patterns != 3 || sum.Occurrences != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestParseAction(t *testing.T) {
	if a, err := ParseAction("Locate"); err != nil || a != Locate {
		t.Fatalf("expected locate, got %v %v", a, err)
	}
	if _, err := ParseAction("grep"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestAgainstIndex(t *testing.T) {
	ix, err := cdat.Build([]byte("banana"), cdat.Params{WordSize: 2, Shift: 1, Kind: cdat.KindTextFree})
	if err != nil {
		t.Fatal(err)
	}
	r := Runner{Index: ix, Action: Locate}
	var out bytes.Buffer
	if _, err := r.Run(strings.NewReader("an\nanana\n"), &out); err != nil {
		t.Fatal(err)
	}
	want := "'an' occurrences are:\n[1, 3]\n'anana' occurrences are:\n[1]\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
