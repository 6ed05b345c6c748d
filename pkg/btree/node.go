package btree

import (
	"fmt"
	"sort"
)

// node is a single B-tree node. It is a leaf when it has no children;
// otherwise len(children) == len(items)+1 and every item of children[i]
// sorts between items[i-1] and items[i].
type node[K, V any] struct {
	items    []Item[K, V]
	children []*node[K, V]
}

func (n *node[K, V]) leaf() bool {
	return len(n.children) == 0
}

// find returns the index of the leftmost item whose key equals key, or the
// lower bound of key when no item matches.
func (n *node[K, V]) find(key K, compare CompareFunc[K]) (int, bool) {
	i := sort.Search(len(n.items), func(i int) bool {
		return compare(n.items[i].Key, key) >= 0
	})
	return i, i < len(n.items) && compare(n.items[i].Key, key) == 0
}

// childIndex locates the child a key descends into: the gap after every
// item whose key is <= key. Keys equal to a separator go to its right.
func (n *node[K, V]) childIndex(key K, compare CompareFunc[K]) int {
	return sort.Search(len(n.items), func(i int) bool {
		return compare(n.items[i].Key, key) > 0
	})
}

// insertItem places item after any existing items with an equal key, so
// duplicates keep insertion order within a node.
func (n *node[K, V]) insertItem(item Item[K, V], compare CompareFunc[K]) {
	n.insertItemAt(n.childIndex(item.Key, compare), item)
}

func (n *node[K, V]) insertItemAt(at int, item Item[K, V]) {
	var zero Item[K, V]
	n.items = append(n.items, zero)
	copy(n.items[at+1:], n.items[at:])
	n.items[at] = item
}

func (n *node[K, V]) insertChildAt(at int, child *node[K, V]) {
	n.children = append(n.children, nil)
	copy(n.children[at+1:], n.children[at:])
	n.children[at] = child
}

// split divides the full node n, which is parent.children[at], around its
// median. The median moves up into parent and the new right sibling is linked
// at parent.children[at+1]. The returned node is the one incoming belongs
// under: n when incoming < median, the new sibling otherwise.
func (n *node[K, V]) split(parent *node[K, V], at int, incoming K, maxItems int, compare CompareFunc[K]) *node[K, V] {
	if len(n.items) != maxItems {
		panic(fmt.Sprintf("btree: split of node holding %d items, want %d", len(n.items), maxItems))
	}
	if parent.children[at] != n {
		panic("btree: split parent does not own node at given index")
	}

	mid := len(n.items) / 2
	median := n.items[mid]

	right := &node[K, V]{}
	right.items = append(right.items, n.items[mid+1:]...)
	if !n.leaf() {
		right.children = append(right.children, n.children[mid+1:]...)
		clear(n.children[mid+1:])
		n.children = n.children[:mid+1]
	}
	clear(n.items[mid:])
	n.items = n.items[:mid]

	parent.insertItemAt(at, median)
	parent.insertChildAt(at+1, right)

	if compare(incoming, median.Key) < 0 {
		return n
	}
	return right
}
