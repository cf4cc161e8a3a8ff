package graph

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrCycleDetected is returned by Sort when some commits can never become
// eligible.
var ErrCycleDetected = errors.New("cycle detected")

// Sort orders the graph so that every commit comes before all of its parents
// (Kahn's algorithm keyed on remaining child count). Commits become eligible
// once their last child has been emitted and leave the queue in the order
// they became eligible; the initial frontier follows first-reference order.
//
// The graph itself is not modified: the sort works on index-addressed
// scratch copies of the edge counts.
func Sort(g *Graph) ([]plumbing.Hash, error) {
	hashes := g.order
	index := make(map[plumbing.Hash]int, len(hashes))
	for i, h := range hashes {
		index[h] = i
	}

	remaining := make([]int, len(hashes))
	parents := make([][]int, len(hashes))
	for i, h := range hashes {
		n := g.nodes[h]
		remaining[i] = len(n.children)
		parents[i] = make([]int, 0, len(n.parents))
		for _, p := range n.parents {
			parents[i] = append(parents[i], index[p])
		}
	}

	queue := linkedlistqueue.New()
	for i := range hashes {
		if remaining[i] == 0 {
			queue.Enqueue(i)
		}
	}

	order := make([]plumbing.Hash, 0, len(hashes))
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		i := v.(int)
		order = append(order, hashes[i])
		for _, p := range parents[i] {
			remaining[p]--
			if remaining[p] == 0 {
				queue.Enqueue(p)
			}
		}
	}

	if len(order) < len(hashes) {
		var stuck []plumbing.Hash
		for i, h := range hashes {
			if remaining[i] > 0 {
				stuck = append(stuck, h)
			}
		}
		sortHashes(stuck)
		return nil, fmt.Errorf("%w: %d of %d commits are part of or behind a cycle (first %s)",
			ErrCycleDetected, len(stuck), len(hashes), stuck[0])
	}
	return order, nil
}
