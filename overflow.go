package iceberg

import "sync/atomic"

// l3Node is one overflow-tier entry. Nodes are allocated on insert and
// freed (by becoming unreachable) on remove — the only per-operation
// allocation in the table, per spec.md §5.
type l3Node struct {
	key, val uint64
	next     *l3Node
}

// l3List is the overflow list for a single L1 block index: a head pointer
// and size guarded by a dedicated 1-byte test-and-set spinlock, per
// spec.md §4.3's L3 paths and original_source's iceberg_lv3_insert/remove.
//
//nolint:govet // fieldalignment: padding keeps the spinlock off the head's cache line
type l3List struct {
	lock atomic.Uint8
	_    [63]byte // pad so head doesn't share a cache line with the lock byte
	head *l3Node
	size int
}

func (l *l3List) lockSpin() {
	for !l.lock.CompareAndSwap(0, 1) {
		// spin; no deadline, per spec.md §7 — callers wanting a deadline
		// must impose one externally.
	}
}

func (l *l3List) unlock() {
	l.lock.Store(0)
}

// insert prepends a new node under the bucket's spinlock.
func (l *l3List) insert(key, val uint64) {
	l.lockSpin()
	l.head = &l3Node{key: key, val: val, next: l.head}
	l.size++
	l.unlock()
}

// get scans the list under the spinlock. spec.md §9 calls for taking the
// lock even to discover the list is empty, which is what this does.
func (l *l3List) get(key uint64) (uint64, bool) {
	l.lockSpin()
	defer l.unlock()

	for n := l.head; n != nil; n = n.next {
		if n.key == key {
			return n.val, true
		}
	}
	return 0, false
}

// remove unlinks the first node matching key, if any.
func (l *l3List) remove(key uint64) bool {
	l.lockSpin()
	defer l.unlock()

	if l.size == 0 {
		return false
	}

	if l.head.key == key {
		l.head = l.head.next
		l.size--
		return true
	}

	for cur := l.head; cur.next != nil; cur = cur.next {
		if cur.next.key == key {
			cur.next = cur.next.next
			l.size--
			return true
		}
	}
	return false
}

// all yields every (key, val) pair currently in the list, for the
// unordered debug iterator in table.go. Takes the lock for the duration.
func (l *l3List) all(yield func(key, val uint64) bool) bool {
	l.lockSpin()
	defer l.unlock()

	for n := l.head; n != nil; n = n.next {
		if !yield(n.key, n.val) {
			return false
		}
	}
	return true
}
