// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package uthread provides user-level threads: a cooperative scheduler
// multiplexing many logical threads onto one or more kernel contexts,
// OS threads each running a scheduling loop against one shared FIFO
// run queue.
//
// Control changes hands only at explicit points. A running thread keeps
// its kernel context until it calls Yield, blocks in Join, Mutex.Lock
// or ReadWrap, or returns from its entry function.
//
//	s, _ := uthread.Begin(4)
//	s.Fork(func(self *uthread.Thread, arg any) {
//		child, _ := self.Fork(work, arg)
//		self.Yield()
//		_ = self.Join(child)
//	}, nil)
//	_ = s.End()
//
// Every logical thread runs on its own coroutine (see package coro),
// whose goroutine stack is the thread's stack. Operations on a Thread
// must be called by that thread while it is running; the thread is
// handed to its entry function as self.
package uthread
