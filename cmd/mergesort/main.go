// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Command mergesort sorts a random array with a parallel merge sort
// running on logical threads.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"slices"
	"time"

	"github.com/0x5a17ed/uthread"
	"github.com/0x5a17ed/uthread/psort"
)

func verdict(s []int) string {
	if slices.IsSorted(s) {
		return "sorted!"
	}
	return "not sorted!"
}

func run() error {
	var (
		contexts  = flag.Int("contexts", 4, "number of kernel contexts")
		size      = flag.Int("size", 100000, "number of elements")
		threshold = flag.Int("threshold", 64, "largest slice sorted sequentially")
		verbose   = flag.Bool("v", false, "log scheduler events")
	)
	flag.Parse()

	if *size < 0 {
		return fmt.Errorf("bad size %d", *size)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	a := make([]int, *size)
	for i := range a {
		a[i] = rng.Intn(*size + 1)
	}

	s, err := uthread.Begin(*contexts, uthread.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Println("before sort:", verdict(a))
	start := time.Now()

	var sortErr error
	if _, err := s.Fork(func(self *uthread.Thread, _ any) {
		sortErr = psort.Sort(self, a, *threshold)
	}, nil); err != nil {
		return err
	}
	if err := s.End(); err != nil {
		return err
	}
	if sortErr != nil {
		return sortErr
	}

	fmt.Println("after sort:", verdict(a))
	stats := s.Stats()
	logger.Info("done",
		slog.Duration("elapsed", time.Since(start)),
		slog.Uint64("threads", stats.Forked),
		slog.Uint64("switches", stats.Switches))
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mergesort:", err)
		os.Exit(1)
	}
}
