package lru

// node is an element of the recency list. It carries its key so the
// oldest entry can be deleted from the map in O(1).
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// list is a doubly-linked recency list: front is newest, back is oldest.
// It is not safe for concurrent use.
type list[K comparable, V any] struct {
	front, back *node[K, V]
	n           int
}

func (l *list[K, V]) pushFront(nd *node[K, V]) {
	nd.prev = nil
	nd.next = l.front
	if l.front != nil {
		l.front.prev = nd
	}
	l.front = nd
	if l.back == nil {
		l.back = nd
	}
	l.n++
}

func (l *list[K, V]) unlink(nd *node[K, V]) {
	if nd.prev != nil {
		nd.prev.next = nd.next
	} else {
		l.front = nd.next
	}
	if nd.next != nil {
		nd.next.prev = nd.prev
	} else {
		l.back = nd.prev
	}
	nd.prev, nd.next = nil, nil
	l.n--
}

func (l *list[K, V]) touch(nd *node[K, V]) {
	if l.front == nd {
		return
	}
	l.unlink(nd)
	l.pushFront(nd)
}
