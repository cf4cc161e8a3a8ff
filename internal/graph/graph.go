// Package graph holds the commit DAG: a node per reachable commit with
// symmetric parent/child edges, built from branch tips and ordered so that
// every commit precedes its parents.
package graph

import (
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
)

// Node is one commit. Parents and children are kept as ordered sets.
type Node struct {
	Hash plumbing.Hash

	parents   []plumbing.Hash
	children  []plumbing.Hash
	parentSet map[plumbing.Hash]struct{}
	childSet  map[plumbing.Hash]struct{}
}

func newNode(h plumbing.Hash) *Node {
	return &Node{
		Hash:      h,
		parentSet: make(map[plumbing.Hash]struct{}),
		childSet:  make(map[plumbing.Hash]struct{}),
	}
}

// Parents returns the parents in the order they were linked. The slice must
// not be modified.
func (n *Node) Parents() []plumbing.Hash { return n.parents }

// Children returns the children in the order they were linked. The slice
// must not be modified.
func (n *Node) Children() []plumbing.Hash { return n.children }

// HasParent reports whether h is a parent of n.
func (n *Node) HasParent(h plumbing.Hash) bool {
	_, ok := n.parentSet[h]
	return ok
}

// HasChild reports whether h is a child of n.
func (n *Node) HasChild(h plumbing.Hash) bool {
	_, ok := n.childSet[h]
	return ok
}

// Graph is an arena of nodes keyed by hash. It remembers the order in which
// nodes were first referenced, which drives the sort's tie-breaking.
type Graph struct {
	nodes map[plumbing.Hash]*Node
	order []plumbing.Hash
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[plumbing.Hash]*Node)}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Node looks up the node for h.
func (g *Graph) Node(h plumbing.Hash) (*Node, bool) {
	n, ok := g.nodes[h]
	return n, ok
}

// Hashes returns every node hash in first-reference order.
func (g *Graph) Hashes() []plumbing.Hash {
	out := make([]plumbing.Hash, len(g.order))
	copy(out, g.order)
	return out
}

// Add returns the node for h, creating it if needed.
func (g *Graph) Add(h plumbing.Hash) *Node {
	if n, ok := g.nodes[h]; ok {
		return n
	}
	n := newNode(h)
	g.nodes[h] = n
	g.order = append(g.order, h)
	return n
}

// Link records that child descends directly from parent, on both nodes.
func (g *Graph) Link(child, parent plumbing.Hash) {
	c := g.Add(child)
	p := g.Add(parent)
	if c.HasParent(parent) {
		return
	}
	c.parentSet[parent] = struct{}{}
	c.parents = append(c.parents, parent)
	p.childSet[child] = struct{}{}
	p.children = append(p.children, child)
}

func sortHashes(hs []plumbing.Hash) {
	sort.Slice(hs, func(i, j int) bool {
		return hs[i].String() < hs[j].String()
	})
}

// SortedHashes returns a sorted copy of hs.
func SortedHashes(hs []plumbing.Hash) []plumbing.Hash {
	out := make([]plumbing.Hash, len(hs))
	copy(out, hs)
	sortHashes(out)
	return out
}
