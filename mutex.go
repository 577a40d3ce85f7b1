// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"fmt"

	"github.com/0x5a17ed/uthread/internal/runq"
	"github.com/0x5a17ed/uthread/internal/spinlock"
)

// Mutex is a blocking mutual exclusion lock for logical threads. A
// thread waiting for it is blocked and does not occupy its kernel
// context. Unlock hands the mutex directly to the longest waiting
// thread, so a thread arriving later cannot take it first.
//
// The zero value is an unlocked mutex.
type Mutex struct {
	guard   spinlock.Lock
	owner   *Thread
	waiters runq.Queue[*Thread]
}

// Init resets m to the unlocked state. It must not be called while
// threads hold or wait for m.
func (m *Mutex) Init() {
	m.guard.Lock()
	m.owner = nil
	m.waiters = runq.Queue[*Thread]{}
	m.guard.Unlock()
}

// Lock acquires m for self, blocking self while another thread holds
// it.
func (m *Mutex) Lock(self *Thread) error {
	if err := self.running(); err != nil {
		return err
	}

	m.guard.Lock()
	switch m.owner {
	case nil:
		m.owner = self
		m.guard.Unlock()
		return nil
	case self:
		m.guard.Unlock()
		return fmt.Errorf("%w: %s locked a mutex it already holds", ErrLockMisuse, self)
	}

	// The guard is released by the kernel context once self is
	// suspended and queued; Unlock hands ownership over before waking.
	self.park(func() {
		m.waiters.Enqueue(self)
		m.guard.Unlock()
	})
	return nil
}

// Unlock releases m. If threads are waiting, the head of the wait
// queue becomes the owner and is made ready.
func (m *Mutex) Unlock(self *Thread) error {
	if err := self.running(); err != nil {
		return err
	}

	m.guard.Lock()
	if m.owner != self {
		m.guard.Unlock()
		return fmt.Errorf("%w: %s unlocked a mutex it does not hold", ErrLockMisuse, self)
	}

	next, ok := m.waiters.Dequeue()
	if !ok {
		m.owner = nil
		m.guard.Unlock()
		return nil
	}
	m.owner = next
	m.guard.Unlock()

	next.sched.ready(next)
	return nil
}

// Locked reports whether m is held by any thread.
func (m *Mutex) Locked() bool {
	m.guard.Lock()
	defer m.guard.Unlock()
	return m.owner != nil
}
