// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"log/slog"
	"runtime"

	"github.com/0x5a17ed/uthread/internal/kctx"
)

// kernelContext is an OS thread running a scheduling loop.
type kernelContext struct {
	sched *Scheduler
	index int
	id    kctx.ID
	log   *slog.Logger
}

func (kc *kernelContext) run() {
	s := kc.sched
	defer s.wg.Done()

	kc.id = kctx.Bind()
	defer runtime.UnlockOSThread()

	kc.log = s.log.With(slog.Int("kc", kc.index), slog.Int64("tid", int64(kc.id)))
	kc.log.Debug("kernel context started")

	s.reg.Set(kc.id, nil)
	defer s.reg.Delete(kc.id)

	for {
		t, ok := kc.next()
		if !ok {
			break
		}
		kc.dispatch(t)
	}

	kc.log.Debug("kernel context stopped")
}

// next dequeues the next ready thread, idling while the run queue is
// empty. It reports false once the scheduler is stopping.
func (kc *kernelContext) next() (*Thread, bool) {
	s := kc.sched
	for {
		s.mu.Lock()
		if t, ok := s.runq.Dequeue(); ok {
			s.mu.Unlock()
			return t, true
		}
		s.idle++
		s.mu.Unlock()
		s.poke()

		var stopping bool
		select {
		case <-s.wake:
		case <-s.stop:
			stopping = true
		}

		s.mu.Lock()
		s.idle--
		s.mu.Unlock()

		if stopping {
			return nil, false
		}
	}
}

// dispatch runs t until it switches back, then applies what it left
// behind.
func (kc *kernelContext) dispatch(t *Thread) {
	s := kc.sched

	s.reg.Set(kc.id, t)
	t.status.Store(int32(StatusRunning))
	s.switches.Add(1)

	// Starts t on its first run, switches into it afterwards.
	h, _ := t.co.Resume(kc)

	s.reg.Set(kc.id, nil)

	switch h.next {
	case StatusReady:
		s.ready(t)
	case StatusBlocked:
		if h.commit != nil {
			h.commit()
		}
	case StatusTerminated:
		s.finish(t)
	}
}
