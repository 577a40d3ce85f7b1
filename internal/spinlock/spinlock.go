// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package spinlock implements a busy-waiting lock for short critical
// sections that must not go through the scheduler, such as the run
// queue, the kernel-context registry and mutex bookkeeping.
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// spinsBeforeYield is how many failed attempts Lock makes before it
// gives the OS thread's quantum away.
const spinsBeforeYield = 64

// Lock is a test-and-set spinlock. The zero value is unlocked.
//
// Re-acquiring a Lock already held by the same caller deadlocks.
type Lock struct {
	state atomic.Uint32
}

// Lock blocks until the lock transitions from clear to set.
func (l *Lock) Lock() {
	for spins := 1; !l.TryLock(); spins++ {
		// Wait for a clear flag before swapping again, so waiters spin
		// on a shared cache line instead of bouncing it.
		for l.state.Load() != 0 {
			if spins%spinsBeforeYield == 0 {
				runtime.Gosched()
			}
			spins++
		}
	}
}

// TryLock attempts to acquire the lock without waiting and reports
// whether it succeeded.
func (l *Lock) TryLock() bool {
	return l.state.Swap(1) == 0
}

// Unlock clears the flag. Calling Unlock on a free lock has no effect.
func (l *Lock) Unlock() {
	l.state.Store(0)
}

// Locked reports whether the lock is currently held.
func (l *Lock) Locked() bool {
	return l.state.Load() != 0
}
