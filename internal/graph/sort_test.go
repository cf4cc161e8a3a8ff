package graph

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurobon/gittopo/internal/git"
)

func position(order []plumbing.Hash) map[plumbing.Hash]int {
	pos := make(map[plumbing.Hash]int, len(order))
	for i, c := range order {
		pos[c] = i
	}
	return pos
}

func assertTopological(t *testing.T, g *Graph, order []plumbing.Hash) {
	t.Helper()
	require.Len(t, order, g.Len())
	pos := position(order)
	require.Len(t, pos, g.Len(), "every commit appears exactly once")
	for _, c := range g.Hashes() {
		n, _ := g.Node(c)
		for _, p := range n.Parents() {
			assert.Less(t, pos[c], pos[p], "child %s must precede parent %s", c, p)
		}
	}
}

func TestSort_Linear(t *testing.T) {
	g, err := Build([]plumbing.Hash{h(4)}, git.MapDecoder{
		h(4): {h(3)},
		h(3): {h(2)},
		h(2): {h(1)},
		h(1): nil,
	})
	require.NoError(t, err)

	order, err := Sort(g)
	require.NoError(t, err)
	assert.Equal(t, []plumbing.Hash{h(4), h(3), h(2), h(1)}, order)
}

func TestSort_MergeWaitsForAllChildren(t *testing.T) {
	//   5 (main)   6 (topic)
	//   |  \       |
	//   3   4 -----+
	//    \ /
	//     2 - 1
	g, err := Build([]plumbing.Hash{h(5), h(6)}, git.MapDecoder{
		h(6): {h(4)},
		h(5): {h(3), h(4)},
		h(4): {h(2)},
		h(3): {h(2)},
		h(2): {h(1)},
		h(1): nil,
	})
	require.NoError(t, err)

	order, err := Sort(g)
	require.NoError(t, err)
	assertTopological(t, g, order)
	assert.Equal(t, h(1), order[len(order)-1])
}

func TestSort_FIFOTieBreak(t *testing.T) {
	// Build pops 3 before 2, so 3 is the first frontier commit.
	g, err := Build([]plumbing.Hash{h(2), h(3)}, git.MapDecoder{
		h(3): {h(1)},
		h(2): {h(1)},
		h(1): nil,
	})
	require.NoError(t, err)

	order, err := Sort(g)
	require.NoError(t, err)
	assert.Equal(t, []plumbing.Hash{h(3), h(2), h(1)}, order)
}

func TestSort_DisjointComponents(t *testing.T) {
	g, err := Build([]plumbing.Hash{h(2), h(4)}, git.MapDecoder{
		h(4): {h(3)},
		h(3): nil,
		h(2): {h(1)},
		h(1): nil,
	})
	require.NoError(t, err)

	order, err := Sort(g)
	require.NoError(t, err)
	assert.Equal(t, []plumbing.Hash{h(4), h(2), h(3), h(1)}, order)
}

func TestSort_Deterministic(t *testing.T) {
	dec := git.MapDecoder{
		h(9): {h(7), h(8)},
		h(8): {h(5)},
		h(7): {h(5), h(6)},
		h(6): {h(1)},
		h(5): {h(1)},
		h(1): nil,
		h(3): {h(2)},
		h(2): nil,
	}
	g, err := Build([]plumbing.Hash{h(9), h(3), h(6)}, dec)
	require.NoError(t, err)

	first, err := Sort(g)
	require.NoError(t, err)
	second, err := Sort(g)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assertTopological(t, g, first)
}

func TestSort_DoesNotMutateGraph(t *testing.T) {
	g, err := Build([]plumbing.Hash{h(3)}, git.MapDecoder{
		h(3): {h(2)},
		h(2): {h(1)},
		h(1): nil,
	})
	require.NoError(t, err)

	_, err = Sort(g)
	require.NoError(t, err)

	n2, _ := g.Node(h(2))
	assert.Equal(t, []plumbing.Hash{h(1)}, n2.Parents())
	assert.Equal(t, []plumbing.Hash{h(3)}, n2.Children())
}

func TestSort_CycleDetected(t *testing.T) {
	g, err := Build([]plumbing.Hash{h(3)}, git.MapDecoder{
		h(3): {h(1)},
		h(1): {h(2)},
		h(2): {h(1)},
	})
	require.NoError(t, err)

	order, err := Sort(g)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleDetected)
	assert.Nil(t, order)
	assert.Contains(t, err.Error(), h(1).String())
}

func TestSort_SelfLoop(t *testing.T) {
	g := New()
	g.Link(h(1), h(1))

	_, err := Sort(g)
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestSort_Empty(t *testing.T) {
	order, err := Sort(New())
	require.NoError(t, err)
	assert.Empty(t, order)
}
