package btree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func leafOf(keys ...int) *node[int, int] {
	n := &node[int, int]{}
	for _, k := range keys {
		n.items = append(n.items, Item[int, int]{Key: k, Value: k})
	}
	return n
}

func keysOf(n *node[int, int]) []int {
	var out []int
	for _, it := range n.items {
		out = append(out, it.Key)
	}
	return out
}

func TestChildIndex(t *testing.T) {
	compare := Ordered[int]()
	n := leafOf(10, 20, 20, 30)

	cases := []struct {
		key  int
		want int
	}{
		{5, 0},
		{10, 1},
		{15, 1},
		{20, 3},
		{25, 3},
		{30, 4},
		{99, 4},
	}
	for _, c := range cases {
		require.Equal(t, c.want, n.childIndex(c.key, compare), "key %d", c.key)
	}

	i, found := n.find(20, compare)
	require.True(t, found)
	require.Equal(t, 1, i)

	i, found = n.find(25, compare)
	require.False(t, found)
	require.Equal(t, 3, i)
}

func TestSplitLeaf(t *testing.T) {
	compare := Ordered[int]()

	t.Run("incoming below median descends left", func(t *testing.T) {
		full := leafOf(1, 2, 3, 4, 5)
		parent := &node[int, int]{children: []*node[int, int]{full}}

		target := full.split(parent, 0, 2, 5, compare)

		require.Same(t, full, target)
		require.Equal(t, []int{3}, keysOf(parent))
		require.Len(t, parent.children, 2)
		require.Equal(t, []int{1, 2}, keysOf(parent.children[0]))
		require.Equal(t, []int{4, 5}, keysOf(parent.children[1]))
	})

	t.Run("incoming equal to median descends right", func(t *testing.T) {
		full := leafOf(1, 2, 3, 4, 5)
		parent := &node[int, int]{children: []*node[int, int]{full}}

		target := full.split(parent, 0, 3, 5, compare)

		require.Same(t, parent.children[1], target)
	})

	t.Run("sibling is linked next to the split child", func(t *testing.T) {
		left := leafOf(1)
		full := leafOf(11, 12, 13)
		right := leafOf(30)
		parent := &node[int, int]{
			items:    []Item[int, int]{{Key: 10}, {Key: 20}},
			children: []*node[int, int]{left, full, right},
		}

		full.split(parent, 1, 14, 3, compare)

		require.Equal(t, []int{10, 12, 20}, keysOf(parent))
		require.Len(t, parent.children, 4)
		require.Equal(t, []int{11}, keysOf(parent.children[1]))
		require.Equal(t, []int{13}, keysOf(parent.children[2]))
		require.Same(t, right, parent.children[3])
	})
}

func TestSplitInternalMovesChildren(t *testing.T) {
	compare := Ordered[int]()
	full := leafOf(10, 20, 30)
	for _, k := range []int{5, 15, 25, 35} {
		full.children = append(full.children, leafOf(k))
	}
	parent := &node[int, int]{children: []*node[int, int]{full}}

	target := full.split(parent, 0, 40, 3, compare)

	require.Same(t, parent.children[1], target)
	require.Len(t, full.children, 2)
	require.Len(t, target.children, 2)
	require.Equal(t, []int{25}, keysOf(target.children[0]))
	require.False(t, target.leaf())
}

func TestSplitPanicsWhenNotFull(t *testing.T) {
	compare := Ordered[int]()
	n := leafOf(1, 2)
	parent := &node[int, int]{children: []*node[int, int]{n}}

	require.Panics(t, func() {
		n.split(parent, 0, 3, 3, compare)
	})
}
