// Copyright 2026 The goslide Authors
// SPDX-License-Identifier: MIT

// Package lru provides the intrusive recency list used by the page cache.
//
// The list only tracks ordering; the owning cache pairs it with a map from
// key to node for O(1) touch and evict. It is not safe for concurrent use;
// the cache's per-slot lock covers it.
package lru

// Node is an entry in the recency list. The node stores its key so the
// owning map entry can be deleted in O(1) when the node is evicted.
type Node[K comparable] struct {
	key  K
	prev *Node[K]
	next *Node[K]
}

// Key returns the key stored in the node.
func (n *Node[K]) Key() K { return n.key }

// List is a doubly-linked recency list. The front is the most recently
// touched entry, the back the least recently touched.
type List[K comparable] struct {
	front *Node[K]
	back  *Node[K]
	len   int
}

// New creates an empty recency list.
func New[K comparable]() *List[K] {
	return &List[K]{}
}

// Len returns the number of nodes in the list.
func (l *List[K]) Len() int {
	return l.len
}

// PushFront adds a new node at the front (most recently touched).
// Returns the created node for later Touch and Remove calls.
func (l *List[K]) PushFront(key K) *Node[K] {
	node := &Node[K]{key: key}
	if l.front == nil {
		l.front = node
		l.back = node
	} else {
		node.next = l.front
		l.front.prev = node
		l.front = node
	}
	l.len++
	return node
}

// Touch moves an existing node to the front (most recently touched).
func (l *List[K]) Touch(node *Node[K]) {
	if node == nil || node == l.front {
		return
	}

	l.unlink(node)

	node.prev = nil
	node.next = l.front
	if l.front != nil {
		l.front.prev = node
	}
	l.front = node
	if l.back == nil {
		l.back = node
	}
	l.len++
}

// Remove removes a node from the list.
func (l *List[K]) Remove(node *Node[K]) {
	if node == nil {
		return
	}
	l.unlink(node)
}

// PopBack removes and returns the key of the least recently touched node.
// Returns the zero key and false if the list is empty.
func (l *List[K]) PopBack() (K, bool) {
	if l.back == nil {
		var zero K
		return zero, false
	}

	node := l.back
	l.unlink(node)
	return node.key, true
}

// Back returns the key of the least recently touched node without removing
// it. Returns the zero key and false if the list is empty.
func (l *List[K]) Back() (K, bool) {
	if l.back == nil {
		var zero K
		return zero, false
	}
	return l.back.key, true
}

// Keys returns all keys from most to least recently touched.
// Used by tests and diagnostics; O(n).
func (l *List[K]) Keys() []K {
	keys := make([]K, 0, l.len)
	for n := l.front; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Clear removes all nodes from the list.
func (l *List[K]) Clear() {
	l.front = nil
	l.back = nil
	l.len = 0
}

// unlink removes a node from the list and clears its pointers.
func (l *List[K]) unlink(node *Node[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.front = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.back = node.prev
	}

	node.prev = nil
	node.next = nil
	l.len--
}
