package wavelet

import "container/heap"

// hnode is a node of the Huffman tree that shapes the wavelet tree.
type hnode struct {
	weight      uint64
	order       int // creation order, tie breaker for a deterministic shape
	symbol      byte
	left, right *hnode
}

func (h *hnode) isLeaf() bool { return h.left == nil }

type hqueue []*hnode

func (q hqueue) Len() int { return len(q) }

func (q hqueue) Less(i, j int) bool {
	if q[i].weight == q[j].weight {
		return q[i].order < q[j].order
	}
	return q[i].weight < q[j].weight
}

func (q hqueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *hqueue) Push(x any) { *q = append(*q, x.(*hnode)) }

func (q *hqueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// huffmanTree builds the Huffman tree for the symbols with non-zero frequency.
// It returns nil if no symbol occurs.
func huffmanTree(freq []uint64) *hnode {
	q := make(hqueue, 0, len(freq))
	order := 0
	for s, f := range freq {
		if f == 0 {
			continue
		}
		q = append(q, &hnode{weight: f, order: order, symbol: byte(s)})
		order++
	}
	if len(q) == 0 {
		return nil
	}
	heap.Init(&q)
	for q.Len() > 1 {
		h0 := heap.Pop(&q).(*hnode)
		h1 := heap.Pop(&q).(*hnode)
		heap.Push(&q, &hnode{
			weight: h0.weight + h1.weight,
			order:  order,
			left:   h0,
			right:  h1,
		})
		order++
	}
	return heap.Pop(&q).(*hnode)
}
