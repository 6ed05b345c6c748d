package btree

import (
	"cmp"
	"fmt"
)

// CompareFunc returns a negative number when a < b, zero when a == b and a
// positive number when a > b. It must describe a total order.
type CompareFunc[K any] func(a, b K) int

// Item is a key/value pair held by the tree. Only the key takes part in
// ordering; two items with equal keys compare equal whatever their values.
type Item[K, V any] struct {
	Key   K
	Value V
}

func (i Item[K, V]) String() string {
	return fmt.Sprintf("{Key: %v, Value: %v}", i.Key, i.Value)
}

// Ordered is the CompareFunc for any cmp.Ordered key type.
func Ordered[K cmp.Ordered]() CompareFunc[K] {
	return cmp.Compare[K]
}
