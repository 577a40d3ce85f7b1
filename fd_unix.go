// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package uthread

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// FD is a file descriptor in non-blocking mode.
type FD int

var _ NonblockingReader = FD(0)

// NewFD switches fd to non-blocking mode.
func NewFD(fd int) (FD, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return -1, os.NewSyscallError("setnonblock", err)
	}
	return FD(fd), nil
}

// OpenFD opens path read-only in non-blocking mode.
func OpenFD(path string) (FD, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return FD(fd), nil
}

// ReadNonblock reads into p, returning ErrWouldBlock instead of
// waiting for data and io.EOF at the end of input.
func (fd FD) ReadNonblock(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(int(fd), p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
			return 0, ErrWouldBlock
		case err != nil:
			return 0, os.NewSyscallError("read", err)
		case n == 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

// Close closes the descriptor.
func (fd FD) Close() error {
	return os.NewSyscallError("close", unix.Close(int(fd)))
}
