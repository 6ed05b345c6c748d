// Package btree implements an in-memory B-tree of configurable minimum
// degree t holding key/value items.
//
// Every node holds at most 2t-1 items. Insertion is top-down: a full node is
// split before the descent enters it, so the tree grows in height only when
// the root splits. Duplicate keys are accepted and kept in insertion order
// within a node.
//
// A Tree is not safe for concurrent use. A single Insert may restructure
// several nodes including the root, so callers sharing a tree must guard it
// with their own lock.
package btree

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidDegree is returned when a tree is constructed with a minimum
	// degree below 2.
	ErrInvalidDegree = errors.New("btree: degree must be 2 or more")
	// ErrNilCompare is returned when a tree is constructed without a comparator.
	ErrNilCompare = errors.New("btree: nil compare function")
)

// Tree is a B-tree mapping keys of type K to values of type V.
type Tree[K, V any] struct {
	degree  int
	compare CompareFunc[K]
	root    *node[K, V]
	length  int
}

// New creates an empty tree of the given minimum degree over a naturally
// ordered key type.
func New[K cmp.Ordered, V any](degree int) (*Tree[K, V], error) {
	return NewWithCompare[K, V](degree, Ordered[K]())
}

// NewWithCompare creates an empty tree ordered by compare.
func NewWithCompare[K, V any](degree int, compare CompareFunc[K]) (*Tree[K, V], error) {
	if degree < 2 {
		return nil, errors.Wrapf(ErrInvalidDegree, "got %d", degree)
	}
	if compare == nil {
		return nil, ErrNilCompare
	}
	return &Tree[K, V]{
		degree:  degree,
		compare: compare,
		root:    &node[K, V]{},
	}, nil
}

// Degree returns the minimum degree t the tree was built with.
func (t *Tree[K, V]) Degree() int {
	return t.degree
}

// Len returns the number of items inserted, duplicates included.
func (t *Tree[K, V]) Len() int {
	return t.length
}

func (t *Tree[K, V]) maxItems() int {
	return 2*t.degree - 1
}

func (t *Tree[K, V]) full(n *node[K, V]) bool {
	return len(n.items) == t.maxItems()
}

// Insert adds key/value to the tree. An existing item with the same key is
// kept; the new one is stored alongside it.
func (t *Tree[K, V]) Insert(key K, value V) {
	item := Item[K, V]{Key: key, Value: value}

	n := t.root
	if t.full(n) {
		t.root = &node[K, V]{children: []*node[K, V]{n}}
		n = n.split(t.root, 0, key, t.maxItems(), t.compare)
	}

	for !n.leaf() {
		i := n.childIndex(key, t.compare)
		child := n.children[i]
		if t.full(child) {
			n = child.split(n, i, key, t.maxItems(), t.compare)
		} else {
			n = child
		}
	}

	n.insertItem(item, t.compare)
	t.length++
}

// Search reports whether an item with the given key exists.
func (t *Tree[K, V]) Search(key K) bool {
	_, ok := t.lookup(key)
	return ok
}

// Predict returns the value stored under key. When several items share the
// key, the leftmost match in the first node on the search path holding the
// key wins. The boolean is false when the key is absent.
func (t *Tree[K, V]) Predict(key K) (V, bool) {
	item, ok := t.lookup(key)
	return item.Value, ok
}

func (t *Tree[K, V]) lookup(key K) (Item[K, V], bool) {
	for n := t.root; ; {
		if i, found := n.find(key, t.compare); found {
			return n.items[i], true
		}
		if n.leaf() {
			var zero Item[K, V]
			return zero, false
		}
		n = n.children[n.childIndex(key, t.compare)]
	}
}

// Height returns the number of levels in the tree. An empty tree has height 1.
func (t *Tree[K, V]) Height() int {
	h := 1
	for n := t.root; !n.leaf(); n = n.children[0] {
		h++
	}
	return h
}

// NodeCount returns the number of nodes reachable from the root.
func (t *Tree[K, V]) NodeCount() int {
	count := 0
	for _, level := range t.levels() {
		count += len(level)
	}
	return count
}

func (t *Tree[K, V]) levels() [][]*node[K, V] {
	var out [][]*node[K, V]
	for level := []*node[K, V]{t.root}; len(level) > 0; {
		out = append(out, level)
		var next []*node[K, V]
		for _, n := range level {
			next = append(next, n.children...)
		}
		level = next
	}
	return out
}

// LevelOrder returns, for each level from the root down, the items of every
// node on that level from left to right. The returned slices are copies.
func (t *Tree[K, V]) LevelOrder() [][][]Item[K, V] {
	levels := t.levels()
	out := make([][][]Item[K, V], len(levels))
	for i, level := range levels {
		out[i] = make([][]Item[K, V], len(level))
		for j, n := range level {
			out[i][j] = append([]Item[K, V](nil), n.items...)
		}
	}
	return out
}

// String renders the tree one level per line, each node as its item list.
func (t *Tree[K, V]) String() string {
	var sb strings.Builder
	for _, level := range t.LevelOrder() {
		for j, items := range level {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprint(&sb, items)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
