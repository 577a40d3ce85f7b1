// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package kctx

import "sync/atomic"

var lastID atomic.Int64

// Without a portable thread id every bound kernel context gets a
// process-unique number instead.
func self() ID { return ID(lastID.Add(1)) }
