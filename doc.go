/*
Package cdat implements compressed direct-address tables, a static index for
exact substring counting and locating over large immutable texts such as
genomic sequences.

The text is sampled in windows of WordSize bytes every Shift positions. Each
window is encoded as an integer (its word value) under a dense alphabet of the
bytes occurring in the text, and the windows are counting-sorted by word value
into a permutation and a bucket bit vector. A query for a pattern computes the
word values of its aligned pieces, reads the matching permutation range with
two select operations on the bucket vector, and verifies the parts of the
pattern not covered by the window against the text.

How the text is kept for verification is the job of a backend:

	KindPacked    every position as a fixed-width packed alphabet value
	KindWavelet   a Huffman-shaped wavelet tree over the alphabet values
	KindTextFree  no text at all; windows are reconstructed from the
	              permutation and the bucket vector

All three answer the same queries identically; they differ in size and
verification cost. An Index is built once, saved to a single file and loaded
as an immutable structure, safe for concurrent readers.

Further Reading

	G. Navarro: Compact Data Structures, Cambridge University Press 2016

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package cdat

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'cdat'
func tracer() tracing.Trace {
	return tracing.Select("cdat")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
