// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"errors"
	"io"
)

// NonblockingReader is an input source that never blocks the calling
// goroutine. ReadNonblock returns ErrWouldBlock when no data is
// available yet.
type NonblockingReader interface {
	ReadNonblock(p []byte) (n int, err error)
}

// NonblockingReaderFunc adapts a function to NonblockingReader.
type NonblockingReaderFunc func(p []byte) (int, error)

func (f NonblockingReaderFunc) ReadNonblock(p []byte) (int, error) { return f(p) }

// ReadWrap reads exactly len(buf) bytes from src without ever blocking
// self's kernel context. Whenever src would block, self is marked
// blocked and switches away; the read is retried once self is
// rescheduled. Partial reads are continued.
//
// The error is io.EOF only if no bytes were read before the end of
// input, io.ErrUnexpectedEOF if the input ended before buf was full,
// and the error returned by src otherwise. A read that fills buf
// succeeds even if src reports the end of input along with it.
func (t *Thread) ReadWrap(src NonblockingReader, buf []byte) (int, error) {
	if err := t.running(); err != nil {
		return 0, err
	}

	var n int
	for n < len(buf) {
		m, err := src.ReadNonblock(buf[n:])
		n += m

		switch {
		case err == nil && m > 0:
			continue
		case err == nil, errors.Is(err, ErrWouldBlock):
			// Still runnable, but nothing to do until the source has
			// data: step aside for every other ready thread.
			t.park(func() { t.sched.ready(t) })
		case errors.Is(err, io.EOF):
			if n == len(buf) {
				return n, nil
			}
			if n == 0 {
				return 0, io.EOF
			}
			return n, io.ErrUnexpectedEOF
		default:
			return n, err
		}
	}
	return n, nil
}
