// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/0x5a17ed/uthread/internal/kctx"
	"github.com/0x5a17ed/uthread/internal/runq"
	"github.com/0x5a17ed/uthread/internal/spinlock"
)

// Stats counts scheduler events since Begin.
type Stats struct {
	Forked     uint64
	Terminated uint64
	Switches   uint64
}

// Scheduler runs logical threads on a fixed set of kernel contexts.
type Scheduler struct {
	log *slog.Logger
	reg kctx.Registry[*Thread]
	kcs []*kernelContext

	// mu guards everything below it.
	mu      spinlock.Lock
	runq    runq.Queue[*Thread]
	live    map[*Thread]struct{}
	idle    int
	stopped bool

	lastID     atomic.Uint64
	terminated atomic.Uint64
	switches   atomic.Uint64

	wake    chan struct{} // one token per pending wakeup of an idle context
	quiesce chan struct{} // pokes End to recheck the live set
	stop    chan struct{}
	ending  atomic.Bool
	wg      sync.WaitGroup
}

// Begin starts a scheduler with the given number of kernel contexts,
// each an OS thread running its own scheduling loop against the shared
// run queue.
func Begin(contexts int, opts ...Option) (*Scheduler, error) {
	if contexts < 1 {
		return nil, fmt.Errorf("%w: %d kernel contexts", ErrInvalidConfig, contexts)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &Scheduler{
		log:     cfg.logger.With(slog.String("sched", uuid.NewString())),
		live:    make(map[*Thread]struct{}),
		wake:    make(chan struct{}, contexts),
		quiesce: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	if contexts == 1 {
		s.reg = &kctx.Single[*Thread]{}
	} else {
		s.reg = kctx.NewTable[*Thread](cfg.buckets, &spinlock.Lock{})
	}

	s.kcs = make([]*kernelContext, contexts)
	for i := range s.kcs {
		kc := &kernelContext{sched: s, index: i}
		s.kcs[i] = kc
		s.wg.Add(1)
		go kc.run()
	}

	s.log.Debug("scheduler started", slog.Int("contexts", contexts))
	return s, nil
}

// Contexts returns the number of kernel contexts.
func (s *Scheduler) Contexts() int { return len(s.kcs) }

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Forked:     s.lastID.Load(),
		Terminated: s.terminated.Load(),
		Switches:   s.switches.Load(),
	}
}

// Current returns the thread bound to the kernel context id. It must be
// called from a logical thread of s.
func (s *Scheduler) Current(id kctx.ID) (*Thread, bool) {
	t, ok := s.reg.Get(id)
	return t, ok && t != nil
}

// Fork creates a thread running entry(thread, arg) and makes it ready.
// Any kernel context may run it. Fork may be called from logical
// threads and from ordinary goroutines.
func (s *Scheduler) Fork(entry Func, arg any) (*Thread, error) {
	if entry == nil {
		return nil, ErrNilEntry
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, ErrStopped
	}
	t := newThread(s, s.lastID.Add(1), entry, arg)
	s.live[t] = struct{}{}
	t.status.Store(int32(StatusReady))
	s.runq.Enqueue(t)
	s.mu.Unlock()

	s.notify()
	s.log.Debug("thread forked", slog.Uint64("thread", t.id))
	return t, nil
}

// ready puts a runnable thread at the tail of the run queue.
func (s *Scheduler) ready(t *Thread) {
	t.status.Store(int32(StatusReady))

	s.mu.Lock()
	s.runq.Enqueue(t)
	s.mu.Unlock()

	s.notify()
}

// notify hands a wakeup token to idle kernel contexts. When the buffer
// is full every context already has one pending.
func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) poke() {
	select {
	case s.quiesce <- struct{}{}:
	default:
	}
}

// finish releases a terminated thread and wakes its joiner.
func (s *Scheduler) finish(t *Thread) {
	if j := t.terminate(); j != nil {
		s.ready(j)
	}

	s.mu.Lock()
	delete(s.live, t)
	s.mu.Unlock()

	s.terminated.Add(1)
	s.poke()
	s.log.Debug("thread terminated", slog.Uint64("thread", t.id))
}

// End waits until every thread has terminated, then stops the kernel
// contexts. If the remaining threads are all blocked with nothing left
// to wake them, End unwinds them and returns ErrDeadlock.
//
// End must not be called from a logical thread.
func (s *Scheduler) End() error {
	if !s.ending.CompareAndSwap(false, true) {
		return ErrStopped
	}

	var (
		err     error
		blocked []*Thread
	)
	for {
		s.mu.Lock()
		live, idle, queued := len(s.live), s.idle, s.runq.Len()
		if live == 0 || (idle == len(s.kcs) && queued == 0) {
			s.stopped = true
			for t := range s.live {
				blocked = append(blocked, t)
			}
		}
		s.mu.Unlock()

		if live == 0 {
			break
		}
		if idle == len(s.kcs) && queued == 0 {
			err = fmt.Errorf("%w: %d threads never terminated", ErrDeadlock, live)
			s.log.Warn("deadlock detected", slog.Int("threads", live))
			break
		}
		<-s.quiesce
	}

	close(s.stop)
	s.wg.Wait()

	// Only blocked threads are left and no context runs anymore; unwind
	// their stacks so their goroutines exit.
	for _, t := range blocked {
		if uerr := unwind(t); uerr != nil {
			err = errors.Join(err, uerr)
		}
	}

	s.log.Debug("scheduler stopped", slog.Uint64("terminated", s.terminated.Load()))
	return err
}

// unwind stops a blocked thread, turning a panic raised by its deferred
// calls into an error.
func unwind(t *Thread) (err error) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case error:
			err = fmt.Errorf("%s panicked while unwinding: %w", t, r)
		default:
			err = fmt.Errorf("%s panicked while unwinding: %v", t, r)
		}
	}()
	t.co.Stop()
	return nil
}
