package graph

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/go-git/go-git/v5/plumbing"
)

// Decoder returns the parents a commit declares.
type Decoder interface {
	Parents(h plumbing.Hash) ([]plumbing.Hash, error)
}

// Build materializes every commit reachable from tips. The walk is a DFS
// over an explicit stack seeded with the tips in sorted order; a hash can
// sit on the stack several times, so the visited check happens on pop.
func Build(tips []plumbing.Hash, dec Decoder) (*Graph, error) {
	g := New()
	visited := make(map[plumbing.Hash]struct{})

	stack := arraystack.New()
	for _, h := range SortedHashes(tips) {
		stack.Push(h)
	}

	for !stack.Empty() {
		v, _ := stack.Pop()
		h := v.(plumbing.Hash)
		if _, ok := visited[h]; ok {
			continue
		}
		visited[h] = struct{}{}
		g.Add(h)

		parents, err := dec.Parents(h)
		if err != nil {
			return nil, fmt.Errorf("read commit %s: %w", h, err)
		}
		for _, p := range parents {
			g.Link(h, p)
			if _, ok := visited[p]; !ok {
				stack.Push(p)
			}
		}
	}
	return g, nil
}
