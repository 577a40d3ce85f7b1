// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package uthread

import "errors"

var (
	// ErrInvalidConfig is returned by Begin for unusable settings.
	ErrInvalidConfig = errors.New("uthread: invalid configuration")

	// ErrNilEntry is returned by Fork when no entry function is given.
	ErrNilEntry = errors.New("uthread: nil entry function")

	// ErrInvalidHandle is returned when joining or detaching a thread
	// handle that was already joined or detached, that belongs to
	// another scheduler, that is the caller itself, or that was never
	// started by Fork.
	ErrInvalidHandle = errors.New("uthread: invalid thread handle")

	// ErrLockMisuse is returned when a thread locks a Mutex it already
	// holds or unlocks a Mutex it does not hold.
	ErrLockMisuse = errors.New("uthread: mutex misuse")

	// ErrNotRunning is returned, or raised as a panic by Yield, when a
	// thread operation is invoked on a thread that is not running.
	ErrNotRunning = errors.New("uthread: thread is not running")

	// ErrStopped is returned once End has been called.
	ErrStopped = errors.New("uthread: scheduler stopped")

	// ErrDeadlock is returned by End when live threads remain but none
	// of them can ever run again.
	ErrDeadlock = errors.New("uthread: all threads are blocked")

	// ErrWouldBlock is returned by a NonblockingReader that has no data
	// available yet.
	ErrWouldBlock = errors.New("uthread: operation would block")
)
