/*
Package batch runs count or locate queries for every line of a pattern file
against an index and writes one result record per pattern.

Patterns repeated within a batch are answered from a trie keyed by the
pattern, so each distinct pattern is queried once.
*/
package batch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/derekparker/trie"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("cdat.batch")
}

// Searcher is the query interface of an index.
type Searcher interface {
	Count(pattern []byte) uint64
	Locate(pattern []byte) []uint64
}

// Action selects the query run for each pattern.
type Action int

const (
	Count Action = iota
	Locate
)

func (a Action) String() string {
	if a == Locate {
		return "locate"
	}
	return "count"
}

// ParseAction maps "count" and "locate" to an Action.
func ParseAction(name string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "count":
		return Count, nil
	case "locate":
		return Locate, nil
	}
	return Count, fmt.Errorf("batch: unknown action %q", name)
}

// Summary aggregates a batch run.
type Summary struct {
	Patterns    uint64
	Occurrences uint64
	CacheHits   uint64
	Elapsed     time.Duration
}

// Runner runs batches of queries against Index.
type Runner struct {
	Index  Searcher
	Action Action
}

type result struct {
	count     uint64
	positions []uint64
}

// Run queries every line of patterns, including empty lines, and writes the
// results to out. A trailing carriage return is not part of a pattern.
func (r *Runner) Run(patterns io.Reader, out io.Writer) (Summary, error) {
	var sum Summary
	cache := trie.New()
	scanner := bufio.NewScanner(patterns)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	w := bufio.NewWriter(out)
	start := time.Now()
	for scanner.Scan() {
		pattern := strings.TrimSuffix(scanner.Text(), "\r")
		res, cached := r.query(cache, pattern)
		if cached {
			sum.CacheHits++
		}
		sum.Patterns++
		sum.Occurrences += res.count
		if err := r.write(w, pattern, res); err != nil {
			return sum, err
		}
	}
	sum.Elapsed = time.Since(start)
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("batch: reading patterns: %w", err)
	}
	tracer().Infof("batch: %d patterns, %d occurrences, %d cache hits in %s",
		sum.Patterns, sum.Occurrences, sum.CacheHits, sum.Elapsed)
	return sum, w.Flush()
}

func (r *Runner) query(cache *trie.Trie, pattern string) (result, bool) {
	// the trie cannot hold the empty key; empty patterns never occur anyway
	if pattern == "" {
		return result{}, false
	}
	if node, ok := cache.Find(pattern); ok {
		return node.Meta().(result), true
	}
	var res result
	if r.Action == Locate {
		res.positions = r.Index.Locate([]byte(pattern))
		res.count = uint64(len(res.positions))
	} else {
		res.count = r.Index.Count([]byte(pattern))
	}
	cache.Add(pattern, res)
	return res, false
}

func (r *Runner) write(w *bufio.Writer, pattern string, res result) error {
	if r.Action == Count {
		_, err := fmt.Fprintf(w, "'%s' number of occurrences = %d\n", pattern, res.count)
		return err
	}
	var sb strings.Builder
	sb.WriteString("'")
	sb.WriteString(pattern)
	sb.WriteString("' occurrences are:\n[")
	for i, p := range res.positions {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(p, 10))
	}
	sb.WriteString("]\n")
	_, err := w.WriteString(sb.String())
	return err
}
