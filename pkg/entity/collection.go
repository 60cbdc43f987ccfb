package entity

import (
	"encoding/json"
	"sort"
)

// Collection is an immutable map from ID to entity. Mutating methods return a
// new *Collection; values that were not touched are shared with the original.
// A nil *Collection behaves like an empty one.
type Collection[T any] struct {
	items map[ID]*T
}

// NewCollection builds a collection from the given entities, keyed by idFn.
func NewCollection[T any](idFn func(*T) ID, items ...*T) *Collection[T] {
	c := &Collection[T]{items: make(map[ID]*T, len(items))}
	for _, item := range items {
		c.items[idFn(item)] = item
	}
	return c
}

// Get returns the entity stored under id.
func (c *Collection[T]) Get(id ID) (*T, bool) {
	if c == nil {
		return nil, false
	}
	item, ok := c.items[id]
	return item, ok
}

// Has reports whether id is present.
func (c *Collection[T]) Has(id ID) bool {
	_, ok := c.Get(id)
	return ok
}

// Len returns the number of entities.
func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// IDs returns all ids in lexical order. Collections carry no display order;
// use a List for that.
func (c *Collection[T]) IDs() []ID {
	if c == nil {
		return nil
	}
	ids := make([]ID, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Select returns the entities for ids, skipping ids that are not present.
func (c *Collection[T]) Select(ids []ID) []*T {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if item, ok := c.Get(id); ok {
			out = append(out, item)
		}
	}
	return out
}

// Set returns a collection with id mapped to item. If id already maps to the
// same pointer the receiver is returned unchanged.
func (c *Collection[T]) Set(id ID, item *T) *Collection[T] {
	if cur, ok := c.Get(id); ok && cur == item {
		return c
	}
	next := c.clone(1)
	next.items[id] = item
	return next
}

// Update applies fn to the entity under id and stores the result. The
// receiver is returned unchanged when id is absent or fn returns the same
// pointer.
func (c *Collection[T]) Update(id ID, fn func(*T) *T) *Collection[T] {
	cur, ok := c.Get(id)
	if !ok {
		return c
	}
	return c.Set(id, fn(cur))
}

// Delete returns a collection without the given ids. The receiver is
// returned unchanged when none of them are present.
func (c *Collection[T]) Delete(ids ...ID) *Collection[T] {
	var next *Collection[T]
	for _, id := range ids {
		if !c.Has(id) {
			continue
		}
		if next == nil {
			next = c.clone(0)
		}
		delete(next.items, id)
	}
	if next == nil {
		return c
	}
	return next
}

func (c *Collection[T]) clone(extra int) *Collection[T] {
	next := &Collection[T]{items: make(map[ID]*T, c.Len()+extra)}
	if c != nil {
		for id, item := range c.items {
			next.items[id] = item
		}
	}
	return next
}

// MarshalJSON encodes the collection as a JSON object keyed by id.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	if c == nil || c.items == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON decodes a JSON object keyed by id.
func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	items := make(map[ID]*T)
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	for id, item := range items {
		if item == nil {
			delete(items, id)
		}
	}
	c.items = items
	return nil
}
