// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package kctx

import "sync"

// DefaultBuckets is the bucket count of a Table created with size <= 0.
const DefaultBuckets = 7

// Registry maps kernel contexts to the value bound to them. It never
// holds more than one entry per ID.
type Registry[V any] interface {
	Get(id ID) (V, bool)
	Set(id ID, v V)
	Delete(id ID)
}

type entry[V any] struct {
	id   ID
	v    V
	next *entry[V]
}

// Table is a fixed-size hash table keyed by ID with chained collision
// lists. Every operation runs under the table's lock.
type Table[V any] struct {
	mu      sync.Locker
	buckets []*entry[V]
}

var _ Registry[any] = (*Table[any])(nil)

// NewTable returns a Table with size buckets guarded by mu.
func NewTable[V any](size int, mu sync.Locker) *Table[V] {
	if size <= 0 {
		size = DefaultBuckets
	}
	return &Table[V]{mu: mu, buckets: make([]*entry[V], size)}
}

func (t *Table[V]) bucket(id ID) int {
	b := int(id % ID(len(t.buckets)))
	if b < 0 {
		b += len(t.buckets)
	}
	return b
}

// Get returns the value bound to id.
func (t *Table[V]) Get(id ID) (v V, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for e := t.buckets[t.bucket(id)]; e != nil; e = e.next {
		if e.id == id {
			return e.v, true
		}
	}
	return v, false
}

// Set binds v to id, replacing an existing binding.
func (t *Table[V]) Set(id ID, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.bucket(id)
	for e := t.buckets[b]; e != nil; e = e.next {
		if e.id == id {
			e.v = v
			return
		}
	}
	t.buckets[b] = &entry[V]{id: id, v: v, next: t.buckets[b]}
}

// Delete removes the binding of id, if any.
func (t *Table[V]) Delete(id ID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for p := &t.buckets[t.bucket(id)]; *p != nil; p = &(*p).next {
		if (*p).id == id {
			*p = (*p).next
			return
		}
	}
}

// Len returns the number of bindings.
func (t *Table[V]) Len() (n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			n++
		}
	}
	return n
}

// Single is the registry of a configuration with exactly one kernel
// context: a plain variable without locking. The id arguments are
// ignored.
type Single[V any] struct {
	v   V
	set bool
}

var _ Registry[any] = (*Single[any])(nil)

func (s *Single[V]) Get(ID) (V, bool) { return s.v, s.set }

func (s *Single[V]) Set(_ ID, v V) { s.v, s.set = v, true }

func (s *Single[V]) Delete(ID) {
	var zero V
	s.v, s.set = zero, false
}
