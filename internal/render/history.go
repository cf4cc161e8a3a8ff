// Package render prints a topologically ordered commit sequence.
//
// Each commit is printed as "<hash>" or "<hash> <branch>...". When the next
// commit in the order is not a parent of the current one the sequence is
// broken with a marker pair:
//
//	<parents of current>=
//	(blank line)
//	=<children of next>
//
// Hashes inside markers are space separated and sorted.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/kurobon/gittopo/internal/graph"
)

// BranchNamer returns the sorted branch names pointing at a commit.
type BranchNamer interface {
	Names(h plumbing.Hash) []string
}

// History writes order to w. branches may be nil.
func History(w io.Writer, g *graph.Graph, order []plumbing.Hash, branches BranchNamer) error {
	bw := bufio.NewWriter(w)

	jumped := false
	for i, h := range order {
		n, ok := g.Node(h)
		if !ok {
			return fmt.Errorf("render: commit %s is not in the graph", h)
		}

		if jumped {
			jumped = false
			if _, err := fmt.Fprintf(bw, "=%s\n", joinHashes(n.Children())); err != nil {
				return err
			}
		}

		line := h.String()
		if branches != nil {
			if names := branches.Names(h); len(names) > 0 {
				line += " " + strings.Join(names, " ")
			}
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}

		if i+1 < len(order) && !n.HasParent(order[i+1]) {
			jumped = true
			if _, err := fmt.Fprintf(bw, "%s=\n\n", joinHashes(n.Parents())); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func joinHashes(hs []plumbing.Hash) string {
	sorted := graph.SortedHashes(hs)
	parts := make([]string, len(sorted))
	for i, h := range sorted {
		parts[i] = h.String()
	}
	return strings.Join(parts, " ")
}
