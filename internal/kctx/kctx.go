// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package kctx identifies kernel contexts, the OS threads running
// scheduling loops, and maps each of them to the logical thread it is
// currently running.
//
// Self, Current and SetCurrent are only available on Linux, where every
// OS thread carries a kernel-assigned id. Elsewhere kernel contexts key
// registries with the ID returned by Bind.
package kctx

import (
	"fmt"
	"runtime"
)

// ID identifies a kernel context.
type ID int64

func (id ID) String() string { return fmt.Sprintf("kc%d", int64(id)) }

// Bind wires the calling goroutine to its current OS thread and returns
// the identity of that thread. The caller must call runtime.UnlockOSThread
// once it stops acting as a kernel context.
func Bind() ID {
	runtime.LockOSThread()
	return self()
}
