// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"fmt"
	"sync/atomic"

	"github.com/0x5a17ed/uthread/coro"
	"github.com/0x5a17ed/uthread/internal/kctx"
	"github.com/0x5a17ed/uthread/internal/spinlock"
)

// Status is the scheduling state of a logical thread.
type Status int32

const (
	StatusNew Status = iota
	StatusReady
	StatusRunning
	StatusBlocked
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusBlocked:
		return "blocked"
	case StatusTerminated:
		return "terminated"
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// Func is the entry function of a logical thread. self is the thread
// running it and arg the value given to Fork.
type Func func(self *Thread, arg any)

// handoff is what a thread leaves its kernel context when it switches
// away: the status it moved to and, for blocking, the bookkeeping the
// loop completes once the thread is suspended.
type handoff struct {
	next   Status
	commit func()
}

// Thread is the control block of a logical thread. Handles are created
// by Fork; the zero value is not a valid handle.
type Thread struct {
	id    uint64
	sched *Scheduler
	entry Func
	arg   any

	status atomic.Int32

	// Saved execution context; nil once the thread has terminated and
	// its stack is released.
	co    *coro.C[*kernelContext, handoff]
	yield func(handoff) *kernelContext
	kc    *kernelContext

	// mu guards the join bookkeeping and the transition to terminated.
	mu       spinlock.Lock
	joiner   *Thread
	joined   bool
	detached bool
}

func newThread(s *Scheduler, id uint64, entry Func, arg any) *Thread {
	t := &Thread{id: id, sched: s, entry: entry, arg: arg}
	t.co = coro.NewFn(t.bootstrap)
	return t
}

// bootstrap is the first activation of a thread. It never returns to
// the kernel context that started it except with a terminated handoff.
func (t *Thread) bootstrap(kc *kernelContext, yield func(handoff) *kernelContext) handoff {
	t.kc, t.yield = kc, yield
	t.entry(t, t.arg)
	return handoff{next: StatusTerminated}
}

// ID returns the thread's scheduler-unique number.
func (t *Thread) ID() uint64 { return t.id }

// Status returns the thread's current state.
func (t *Thread) Status() Status { return Status(t.status.Load()) }

// Scheduler returns the scheduler owning the thread.
func (t *Thread) Scheduler() *Scheduler { return t.sched }

// Context returns the kernel context the thread is running on. A
// thread may move between kernel contexts whenever it switches away.
func (t *Thread) Context() kctx.ID { return t.kc.id }

func (t *Thread) String() string { return fmt.Sprintf("thread#%d", t.id) }

func (t *Thread) running() error {
	if t == nil || t.sched == nil {
		return ErrInvalidHandle
	}
	if t.Status() != StatusRunning {
		return fmt.Errorf("%w: %s is %s", ErrNotRunning, t, t.Status())
	}
	return nil
}

// switchOut suspends t and returns control to its kernel context's
// loop, which applies h. It returns once t has been resumed.
func (t *Thread) switchOut(h handoff) {
	t.status.Store(int32(h.next))
	t.kc = t.yield(h)
}

// park blocks t. commit runs on the kernel context after t is
// suspended; it must make t reachable for whoever will wake it.
func (t *Thread) park(commit func()) {
	t.switchOut(handoff{next: StatusBlocked, commit: commit})
}

// Fork starts a new thread on t's scheduler, see Scheduler.Fork.
func (t *Thread) Fork(entry Func, arg any) (*Thread, error) {
	return t.sched.Fork(entry, arg)
}

// Yield moves t to the tail of the run queue and runs the next ready
// thread. If no other thread is ready, t continues right away.
//
// Yield panics with ErrNotRunning if t is not running.
func (t *Thread) Yield() {
	if err := t.running(); err != nil {
		panic(err)
	}
	t.switchOut(handoff{next: StatusReady})
}

// Join blocks t until target has terminated. A handle can be joined
// only once; later joins, joins of detached threads, of t itself or of
// threads from another scheduler fail with ErrInvalidHandle.
func (t *Thread) Join(target *Thread) error {
	if err := t.running(); err != nil {
		return err
	}
	if target == nil || target.sched != t.sched || target == t {
		return fmt.Errorf("%w: cannot join %v", ErrInvalidHandle, target)
	}

	target.mu.Lock()
	if target.joined || target.detached {
		target.mu.Unlock()
		return fmt.Errorf("%w: %s already joined or detached", ErrInvalidHandle, target)
	}
	target.joined = true
	if target.Status() == StatusTerminated {
		target.mu.Unlock()
		return nil
	}

	// target.mu stays held until the loop has recorded t as the
	// joiner, so termination cannot slip in between.
	t.park(func() {
		target.joiner = t
		target.mu.Unlock()
	})
	return nil
}

// Detach marks t as never to be joined. A detached thread's resources
// are released when it terminates, the same as for any other thread,
// but joining it fails with ErrInvalidHandle.
func (t *Thread) Detach() error {
	if t == nil || t.sched == nil {
		return ErrInvalidHandle
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.joined || t.detached {
		return fmt.Errorf("%w: %s already joined or detached", ErrInvalidHandle, t)
	}
	t.detached = true
	return nil
}

// terminate records the end of t and returns the thread waiting to
// join it, if any.
func (t *Thread) terminate() *Thread {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.Store(int32(StatusTerminated))
	t.co, t.yield = nil, nil

	j := t.joiner
	t.joiner = nil
	return j
}
