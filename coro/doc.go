// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package coro provides the execution contexts of logical threads:
// coroutines built on top of Go's goroutines that can be started,
// suspended at a yield point and resumed later by any goroutine.
//
// The first Resume of a coroutine activates it on a fresh goroutine
// stack; every later Resume switches back into the suspended yield.
// Exactly one side, the resumer or the coroutine, runs at any time.
//
// Based on the wonderful [blog post] shared by Rus Cox.
//
// [blog post]: https://research.swtch.com/coro
package coro
