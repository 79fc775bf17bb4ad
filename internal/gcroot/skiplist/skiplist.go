// Package skiplist implements the ordered uintptr-keyed map backing the root
// sets.
//
// The list maps a key (a root's slot address) to one data word (its presence
// marker). Keys iterate in ascending order, which gives the root-set tests a
// deterministic traversal order; the registry itself never relies on order.
//
// The structure is not synchronized. Every caller in this module mutates it
// with the registry mutex held, mirroring the layering of the collector it
// serves: locking is a policy of the registry, not of the store.
package skiplist

const (
	// maxLevel bounds the tower height; level 0 is the full ordered chain.
	maxLevel = 15
)

type node struct {
	key  uintptr
	data uintptr

	// next[i] is the successor at level i. len(next) is the node's height.
	next []*node
}

// List is an ordered map from uintptr keys to one data word each.
type List struct {
	head   node // sentinel; head.next[i] is the first node at level i
	level  int  // highest level currently in use
	length int
	rng    uint64
}

// New returns an empty list.
func New() *List {
	l := &List{}
	l.init()
	return l
}

func (l *List) init() {
	l.head.next = make([]*node, maxLevel+1)
	l.level = 0
	l.length = 0
	// Fixed nonzero seed: tower heights only affect performance, and a
	// deterministic shape keeps test failures reproducible.
	l.rng = 0x9e3779b97f4a7c15
}

// randomLevel draws a tower height with P(level >= k) = 4^-k, using an
// xorshift generator two bits at a time.
func (l *List) randomLevel() int {
	x := l.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	l.rng = x

	level := 0
	for level < maxLevel && x&3 == 0 {
		level++
		x >>= 2
	}
	return level
}

// search fills update[i] with the rightmost node at level i whose key is
// below key, and returns the level-0 candidate (the first node with
// candidate.key >= key, or nil).
func (l *List) search(key uintptr, update *[maxLevel + 1]*node) *node {
	x := &l.head
	for i := l.level; i >= 0; i-- {
		for x.next[i] != nil && x.next[i].key < key {
			x = x.next[i]
		}
		update[i] = x
	}
	return x.next[0]
}

// Insert sets key to data, overwriting any existing binding.
func (l *List) Insert(key, data uintptr) {
	var update [maxLevel + 1]*node
	if n := l.search(key, &update); n != nil && n.key == key {
		n.data = data
		return
	}

	level := l.randomLevel()
	if level > l.level {
		for i := l.level + 1; i <= level; i++ {
			update[i] = &l.head
		}
		l.level = level
	}

	n := &node{key: key, data: data, next: make([]*node, level+1)}
	for i := 0; i <= level; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
	}
	l.length++
}

// Remove deletes key and reports whether it was present.
func (l *List) Remove(key uintptr) bool {
	var update [maxLevel + 1]*node
	n := l.search(key, &update)
	if n == nil || n.key != key {
		return false
	}

	for i := 0; i <= l.level; i++ {
		if update[i].next[i] != n {
			break
		}
		update[i].next[i] = n.next[i]
	}
	for l.level > 0 && l.head.next[l.level] == nil {
		l.level--
	}
	l.length--
	return true
}

// Find returns the data bound to key.
func (l *List) Find(key uintptr) (data uintptr, ok bool) {
	x := &l.head
	for i := l.level; i >= 0; i-- {
		for x.next[i] != nil && x.next[i].key < key {
			x = x.next[i]
		}
	}
	n := x.next[0]
	if n != nil && n.key == key {
		return n.data, true
	}
	return 0, false
}

// FindPtr returns a pointer to the data word bound to key, for in-place
// marker updates, or nil if key is absent. The pointer is invalidated by any
// structural mutation of the list.
func (l *List) FindPtr(key uintptr) *uintptr {
	x := &l.head
	for i := l.level; i >= 0; i-- {
		for x.next[i] != nil && x.next[i].key < key {
			x = x.next[i]
		}
	}
	n := x.next[0]
	if n != nil && n.key == key {
		return &n.data
	}
	return nil
}

// Len returns the number of entries.
func (l *List) Len() int {
	return l.length
}

// Empty drops every entry.
func (l *List) Empty() {
	l.init()
}

// ForEach visits entries in ascending key order until f returns false.
//
// f receives a pointer to the entry's data word and may rewrite it. f may
// also delete the entry it is currently visiting (and no other): the
// successor is captured before f runs, so the traversal continues past the
// removed node.
func (l *List) ForEach(f func(key uintptr, data *uintptr) bool) {
	for n := l.head.next[0]; n != nil; {
		succ := n.next[0]
		if !f(n.key, &n.data) {
			return
		}
		n = succ
	}
}
