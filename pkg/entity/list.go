package entity

// List is an ordered list of ids. Order is the display order. Functions that
// change a List return a new slice and never write to the input's backing
// array; when nothing changes the input is returned as is.
type List []ID

// IndexOf returns the position of id, or -1.
func (l List) IndexOf(id ID) int {
	for i, cur := range l {
		if cur == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is in the list.
func (l List) Contains(id ID) bool {
	return l.IndexOf(id) >= 0
}

// Append returns l with id added at the end. Ids already present are not
// duplicated.
func (l List) Append(id ID) List {
	if l.Contains(id) {
		return l
	}
	next := make(List, len(l), len(l)+1)
	copy(next, l)
	return append(next, id)
}

// Insert returns l with id placed at index (clamped to the list bounds). An id
// already present is moved instead.
func (l List) Insert(id ID, index int) List {
	if i := l.IndexOf(id); i >= 0 {
		return l.Move(i, index)
	}
	index = clamp(index, 0, len(l))
	next := make(List, 0, len(l)+1)
	next = append(next, l[:index]...)
	next = append(next, id)
	return append(next, l[index:]...)
}

// Remove returns l without the given ids.
func (l List) Remove(ids ...ID) List {
	drop := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	var next List
	changed := false
	for i, cur := range l {
		if _, ok := drop[cur]; ok {
			if !changed {
				changed = true
				next = make(List, i, len(l))
				copy(next, l[:i])
			}
			continue
		}
		if changed {
			next = append(next, cur)
		}
	}
	if !changed {
		return l
	}
	return next
}

// Move returns l with the element at from moved to to. Out-of-range from is a
// no-op; to is clamped.
func (l List) Move(from, to int) List {
	if from < 0 || from >= len(l) {
		return l
	}
	to = clamp(to, 0, len(l)-1)
	if from == to {
		return l
	}
	next := make(List, 0, len(l))
	id := l[from]
	rest := make(List, 0, len(l)-1)
	rest = append(rest, l[:from]...)
	rest = append(rest, l[from+1:]...)
	next = append(next, rest[:to]...)
	next = append(next, id)
	return append(next, rest[to:]...)
}

// Same reports whether a and b share the same backing array and length,
// the list analogue of reference equality.
func Same(a, b List) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// Equal reports whether a and b hold the same ids in the same order.
func Equal(a, b List) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Diff returns the ids of next that are missing from prev (added) and the ids
// of prev that are missing from next (removed), each in list order.
func Diff(prev, next List) (added, removed []ID) {
	for _, id := range next {
		if !prev.Contains(id) {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !next.Contains(id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// FindItem returns the item whose id matches.
func FindItem[T Identified](items []T, id ID) (T, bool) {
	for _, item := range items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// ItemIDs projects a slice of list items onto their ids.
func ItemIDs[T Identified](items []T) List {
	out := make(List, len(items))
	for i, item := range items {
		out[i] = item.EntityID()
	}
	return out
}

// RemoveItems returns items without those whose id is listed. The input is
// returned when nothing matches.
func RemoveItems[T Identified](items []T, ids ...ID) []T {
	drop := List(ids)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !drop.Contains(item.EntityID()) {
			out = append(out, item)
		}
	}
	if len(out) == len(items) {
		return items
	}
	return out
}

// ReplaceItem returns items with the element carrying item's id replaced. The
// item is appended when no element matches.
func ReplaceItem[T Identified](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	for i := range out {
		if out[i].EntityID() == item.EntityID() {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
