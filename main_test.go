// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package uthread_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/0x5a17ed/uthread"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var contextCounts = []int{1, 2, 4}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func begin(t *testing.T, contexts int) *uthread.Scheduler {
	t.Helper()

	s, err := uthread.Begin(contexts, uthread.WithLogger(quietLogger()))
	require.NoError(t, err)
	return s
}

// run forks entry as the root thread of a fresh scheduler and waits for
// every thread to finish.
func run(t *testing.T, contexts int, entry uthread.Func) *uthread.Scheduler {
	t.Helper()

	s := begin(t, contexts)
	_, err := s.Fork(entry, nil)
	require.NoError(t, err)
	require.NoError(t, s.End())
	return s
}
