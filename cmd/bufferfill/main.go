// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

//go:build unix

// Command bufferfill races two logical threads over one buffer: one
// fills it from a file through ReadWrap while the other zeroes it,
// yielding after every byte. Which one wins depends on how often the
// reader finds data ready.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/0x5a17ed/uthread"
)

func run() error {
	var (
		source  = flag.String("source", "/dev/urandom", "file to read from")
		size    = flag.Int("size", 200000, "buffer size in bytes")
		verbose = flag.Bool("v", false, "log scheduler events")
	)
	flag.Parse()

	if *size < 1 {
		return fmt.Errorf("bad size %d", *size)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fd, err := uthread.OpenFD(*source)
	if err != nil {
		return err
	}
	defer fd.Close()

	buf := make([]byte, *size)

	s, err := uthread.Begin(1, uthread.WithLogger(logger))
	if err != nil {
		return err
	}

	var readErr error
	if _, err := s.Fork(func(self *uthread.Thread, _ any) {
		_, readErr = self.ReadWrap(fd, buf)
	}, nil); err != nil {
		return err
	}
	if _, err := s.Fork(func(self *uthread.Thread, _ any) {
		for i := range buf {
			buf[i] = 0
			self.Yield()
		}
	}, nil); err != nil {
		return err
	}

	if err := s.End(); err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}

	if bytes.Count(buf, []byte{0}) == len(buf) {
		fmt.Println("all zeroes!")
	} else {
		fmt.Println("some nonzero!")
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bufferfill:", err)
		os.Exit(1)
	}
}
