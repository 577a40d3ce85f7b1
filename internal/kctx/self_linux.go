// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package kctx

import "golang.org/x/sys/unix"

func self() ID { return ID(unix.Gettid()) }

// Self returns the identity of the OS thread executing the caller. It
// is only stable for goroutines locked to their thread, see Bind.
func Self() ID { return self() }

// Current returns the value registered for the calling kernel context.
func Current[V any](r Registry[V]) (V, bool) { return r.Get(Self()) }

// SetCurrent registers v for the calling kernel context.
func SetCurrent[V any](r Registry[V], v V) { r.Set(Self(), v) }
