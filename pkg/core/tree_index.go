package core

import (
	"indexbench/pkg/btree"
	"indexbench/pkg/common"
)

// nodeOverhead approximates the per-node header and slice headers.
const nodeOverhead = 56

// TreeIndex is the OrderedIndexTree keyed by record key.
type TreeIndex struct {
	degree int
	tree   *btree.Tree[common.KeyType, int]
}

func NewTreeIndex(degree int) (*TreeIndex, error) {
	tree, err := btree.New[common.KeyType, int](degree)
	if err != nil {
		return nil, err
	}
	return &TreeIndex{degree: degree, tree: tree}, nil
}

func (ti *TreeIndex) Kind() string { return KindBTree }

// Build inserts records in order into a fresh tree.
func (ti *TreeIndex) Build(records []common.Record) error {
	tree, err := btree.New[common.KeyType, int](ti.degree)
	if err != nil {
		return err
	}
	for _, r := range records {
		tree.Insert(r.Key, r.Location)
	}
	ti.tree = tree
	return nil
}

func (ti *TreeIndex) Predict(key common.KeyType) (int, bool) {
	return ti.tree.Predict(key)
}

func (ti *TreeIndex) SizeBytes() int {
	return ti.tree.Len()*16 + ti.tree.NodeCount()*nodeOverhead
}

// Tree exposes the underlying tree for diagnostics.
func (ti *TreeIndex) Tree() *btree.Tree[common.KeyType, int] {
	return ti.tree
}
