// ABOUTME: Generic insertion-ordered table keyed by entity id
// ABOUTME: Backs each collection of the Store; not safe for concurrent use on its own

package entity

import "slices"

// table keeps entities in insertion order with an index for id lookups.
type table[T any] struct {
	items []T
	index map[string]int
	id    func(T) string
}

func newTable[T any](id func(T) string) *table[T] {
	return &table[T]{index: make(map[string]int), id: id}
}

func (t *table[T]) get(id string) (T, bool) {
	i, ok := t.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.items[i], true
}

// put replaces the entity with the same id, or appends it.
func (t *table[T]) put(v T) (replaced bool) {
	id := t.id(v)
	if i, ok := t.index[id]; ok {
		t.items[i] = v
		return true
	}
	t.index[id] = len(t.items)
	t.items = append(t.items, v)
	return false
}

func (t *table[T]) remove(id string) bool {
	i, ok := t.index[id]
	if !ok {
		return false
	}
	t.items = slices.Delete(t.items, i, i+1)
	delete(t.index, id)
	for j := i; j < len(t.items); j++ {
		t.index[t.id(t.items[j])] = j
	}
	return true
}

// reset replaces the whole table. Later duplicates of an id win.
func (t *table[T]) reset(items []T) {
	t.items = t.items[:0]
	clear(t.index)
	for _, v := range items {
		t.put(v)
	}
}

func (t *table[T]) list(clone func(T) T) []T {
	out := make([]T, len(t.items))
	for i, v := range t.items {
		out[i] = clone(v)
	}
	return out
}

func (t *table[T]) len() int {
	return len(t.items)
}
