// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package runq provides the FIFO queue holding ready threads.
package runq

import "github.com/gammazero/deque"

// Queue is a first-in first-out queue. The zero value is an empty
// queue ready to use. Queue is not safe for concurrent use; owners
// guard it with their own lock.
type Queue[T any] struct {
	d deque.Deque[T]
}

// Enqueue appends v at the tail.
func (q *Queue[T]) Enqueue(v T) {
	q.d.PushBack(v)
}

// Dequeue removes and returns the element at the head. The boolean is
// false when the queue is empty.
func (q *Queue[T]) Dequeue() (v T, ok bool) {
	if q.d.Len() == 0 {
		return v, false
	}
	return q.d.PopFront(), true
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	return q.d.Len()
}
