package core

import (
	gbtree "github.com/google/btree"
	"github.com/pkg/errors"

	"indexbench/pkg/btree"
	"indexbench/pkg/common"
)

type Item struct {
	Key common.KeyType
	Loc int
}

func itemLess(a, b Item) bool {
	return a.Key < b.Key
}

// GoogleBTreeIndex is the github.com/google/btree baseline. That tree keeps
// one item per key, so the first location inserted for a key is kept to
// match the OrderedIndexTree's lookup result.
type GoogleBTreeIndex struct {
	degree int
	tree   *gbtree.BTreeG[Item]
}

func NewGoogleBTreeIndex(degree int) (*GoogleBTreeIndex, error) {
	if degree < 2 {
		return nil, errors.Wrapf(btree.ErrInvalidDegree, "got %d", degree)
	}
	return &GoogleBTreeIndex{
		degree: degree,
		tree:   gbtree.NewG(degree, itemLess),
	}, nil
}

func (g *GoogleBTreeIndex) Kind() string { return KindGoogleBTree }

func (g *GoogleBTreeIndex) Build(records []common.Record) error {
	tree := gbtree.NewG(g.degree, itemLess)
	for _, r := range records {
		item := Item{Key: r.Key, Loc: r.Location}
		if !tree.Has(item) {
			tree.ReplaceOrInsert(item)
		}
	}
	g.tree = tree
	return nil
}

func (g *GoogleBTreeIndex) Predict(key common.KeyType) (int, bool) {
	item, ok := g.tree.Get(Item{Key: key})
	return item.Loc, ok
}

func (g *GoogleBTreeIndex) SizeBytes() int {
	n := g.tree.Len()
	nodes := n/g.degree + 1
	return n*16 + nodes*nodeOverhead
}
