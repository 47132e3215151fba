/*
Package wavelet implements a Huffman-shaped wavelet tree over a sequence of
small symbols (alphabet values below 256).

Every internal node holds a bit vector telling for each position of its
subsequence whether the symbol continues into the left (0) or right (1)
child. Frequent symbols sit close to the root, so the total number of stored
bits is the Huffman-compressed size of the sequence. Access and Rank walk one
root-to-leaf path, answering a rank query on each node's bit vector.
*/
package wavelet

import (
	"errors"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/hillbig/rsdic"
	"github.com/npillmayer/cdat/internal/binio"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("cdat.wavelet")
}

const maxSymbols = 256

// ErrCorrupt is returned when a serialized tree is malformed.
var ErrCorrupt = errors.New("wavelet: corrupt tree")

type node struct {
	bits        *bitset.BitSet // nil for leaves
	dict        *rsdic.RSDic
	left, right *node
	symbol      byte
}

func (n *node) isLeaf() bool { return n.bits == nil }

type code struct {
	bits    uint64
	length  uint8
	present bool
}

// Tree is an immutable Huffman-shaped wavelet tree.
type Tree struct {
	root   *node
	length uint64
	codes  [maxSymbols]code
}

// New builds a wavelet tree over seq. All symbols of seq must be below sigma.
func New(seq []byte, sigma int) *Tree {
	if sigma < 1 || sigma > maxSymbols {
		panic(fmt.Sprintf("wavelet: alphabet size %d out of range", sigma))
	}
	freq := make([]uint64, sigma)
	for _, c := range seq {
		freq[c]++
	}
	t := &Tree{length: uint64(len(seq))}
	h := huffmanTree(freq)
	if h == nil {
		return t
	}
	t.assignCodes(h, 0, 0)
	t.root = t.build(h, seq, 0)
	tracer().Debugf("wavelet: %d symbols, %d bytes", t.length, t.SizeInBytes())
	return t
}

func (t *Tree) assignCodes(h *hnode, bits uint64, depth uint8) {
	if h.isLeaf() {
		t.codes[h.symbol] = code{bits: bits, length: depth, present: true}
		return
	}
	if depth >= 64 {
		panic("wavelet: Huffman code exceeds 64 bits")
	}
	t.assignCodes(h.left, bits<<1, depth+1)
	t.assignCodes(h.right, bits<<1|1, depth+1)
}

func (t *Tree) goesRight(c byte, depth uint8) bool {
	cd := t.codes[c]
	return (cd.bits>>(cd.length-1-depth))&1 == 1
}

func (t *Tree) build(h *hnode, seq []byte, depth uint8) *node {
	if h.isLeaf() {
		return &node{symbol: h.symbol}
	}
	n := &node{bits: bitset.New(uint(len(seq))), dict: rsdic.New()}
	left := make([]byte, 0, h.left.weight)
	right := make([]byte, 0, h.right.weight)
	for i, c := range seq {
		if t.goesRight(c, depth) {
			n.bits.Set(uint(i))
			n.dict.PushBack(true)
			right = append(right, c)
		} else {
			n.dict.PushBack(false)
			left = append(left, c)
		}
	}
	n.left = t.build(h.left, left, depth+1)
	n.right = t.build(h.right, right, depth+1)
	return n
}

// Len returns the length of the sequence.
func (t *Tree) Len() uint64 { return t.length }

// Access returns the symbol at position i.
func (t *Tree) Access(i uint64) byte {
	if i >= t.length {
		panic(fmt.Sprintf("wavelet: position %d out of range [0,%d)", i, t.length))
	}
	n := t.root
	for !n.isLeaf() {
		bit := n.dict.Bit(i)
		i = n.dict.Rank(i, bit)
		if bit {
			n = n.right
		} else {
			n = n.left
		}
	}
	return n.symbol
}

// Rank returns the number of occurrences of sym in positions [0, i).
func (t *Tree) Rank(sym byte, i uint64) uint64 {
	cd := t.codes[sym]
	if !cd.present {
		return 0
	}
	i = min(i, t.length)
	n := t.root
	for depth := uint8(0); depth < cd.length; depth++ {
		bit := (cd.bits>>(cd.length-1-depth))&1 == 1
		i = n.dict.Rank(i, bit)
		if bit {
			n = n.right
		} else {
			n = n.left
		}
	}
	return i
}

// SizeInBytes reports the memory held by the node bit vectors and their
// rank/select dictionaries.
func (t *Tree) SizeInBytes() int {
	size := 0
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || n.isLeaf() {
			return
		}
		size += n.dict.AllocSize() + n.bits.BinaryStorageSize()
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return size
}

const (
	tagEmpty    uint32 = 0
	tagLeaf     uint32 = 1
	tagInternal uint32 = 2
)

// WriteTo serializes the sequence length followed by the nodes in preorder.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	bw := binio.NewWriter(w)
	bw.U64(t.length)
	if t.root == nil {
		bw.U32(tagEmpty)
		return bw.Count(), bw.Err()
	}
	var write func(n *node)
	write = func(n *node) {
		if n.isLeaf() {
			bw.U32(tagLeaf)
			bw.U32(uint32(n.symbol))
			return
		}
		bw.U32(tagInternal)
		bw.Object(n.bits)
		write(n.left)
		write(n.right)
	}
	write(t.root)
	return bw.Count(), bw.Err()
}

// Read deserializes a tree written by WriteTo.
func Read(r io.Reader) (*Tree, error) {
	d := decoder{br: binio.NewReader(r)}
	t := &Tree{length: d.br.U64()}
	tag := d.br.U32()
	if d.br.Err() == nil && tag != tagEmpty {
		t.root = d.node(tag, 0, t.length)
	}
	if d.br.Err() != nil {
		return nil, d.br.Err()
	}
	if t.root != nil {
		t.collectCodes(t.root, 0, 0)
	}
	return t, nil
}

type decoder struct {
	br    *binio.Reader
	nodes int
}

// node reads a node whose tag has already been consumed. length is the
// number of positions routed through the node.
func (d *decoder) node(tag uint32, depth uint8, length uint64) *node {
	if d.nodes++; d.nodes > 2*maxSymbols || depth > 64 {
		d.br.Fail(ErrCorrupt)
		return nil
	}
	switch tag {
	case tagLeaf:
		sym := d.br.U32()
		if d.br.Err() == nil && sym >= maxSymbols {
			d.br.Fail(fmt.Errorf("%w: symbol %d", ErrCorrupt, sym))
		}
		return &node{symbol: byte(sym)}
	case tagInternal:
		n := &node{bits: &bitset.BitSet{}, dict: rsdic.New()}
		d.br.Object(n.bits)
		if d.br.Err() != nil {
			return nil
		}
		if uint64(n.bits.Len()) != length {
			d.br.Fail(fmt.Errorf("%w: node of %d bits, want %d", ErrCorrupt, n.bits.Len(), length))
			return nil
		}
		for i := uint(0); i < n.bits.Len(); i++ {
			n.dict.PushBack(n.bits.Test(i))
		}
		n.left = d.child(depth+1, n.dict.ZeroNum())
		n.right = d.child(depth+1, n.dict.OneNum())
		return n
	}
	d.br.Fail(fmt.Errorf("%w: node tag %d", ErrCorrupt, tag))
	return nil
}

func (d *decoder) child(depth uint8, length uint64) *node {
	tag := d.br.U32()
	if d.br.Err() != nil {
		return nil
	}
	return d.node(tag, depth, length)
}

func (t *Tree) collectCodes(n *node, bits uint64, depth uint8) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		t.codes[n.symbol] = code{bits: bits, length: depth, present: true}
		return
	}
	t.collectCodes(n.left, bits<<1, depth+1)
	t.collectCodes(n.right, bits<<1|1, depth+1)
}
