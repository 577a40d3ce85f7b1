// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Command primesieve runs several logical threads, each finding the
// n-th prime with a chain of coroutine filters and yielding to the
// scheduler after every prime it passes.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/0x5a17ed/uthread"
	"github.com/0x5a17ed/uthread/coro"
)

func counter(start int) *coro.C[any, int] {
	return coro.NewSub(func(_ any, yield func(int) any) {
		for i := start; ; i++ {
			yield(i)
		}
	})
}

func filter(p int, cr *coro.C[any, int]) *coro.C[any, int] {
	return coro.NewSub(func(_ any, yield func(int) any) {
		for {
			n, _ := cr.Resume(nil)
			if n%p != 0 {
				yield(n)
			}
		}
	})
}

// nthPrime walks the sieve up to the n-th prime, giving other threads a
// turn after each one.
func nthPrime(self *uthread.Thread, n int) int {
	cr := counter(2)
	var stops []*coro.C[any, int]
	defer func() {
		cr.Stop()
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i].Stop()
		}
	}()

	var p int
	for i := 0; i < n; i++ {
		p, _ = cr.Resume(nil)
		stops = append(stops, cr)
		cr = filter(p, cr)
		self.Yield()
	}
	return p
}

func parseCounts(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad count %q: %w", f, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("bad count %d: must be positive", n)
		}
		out = append(out, n)
	}
	return out, nil
}

func run() error {
	var (
		counts   = flag.String("n", "200,100,300", "comma separated list of primes to find, one thread each")
		contexts = flag.Int("contexts", 1, "number of kernel contexts")
		verbose  = flag.Bool("v", false, "log scheduler events")
	)
	flag.Parse()

	ns, err := parseCounts(*counts)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := uthread.Begin(*contexts, uthread.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, n := range ns {
		if _, err := s.Fork(func(self *uthread.Thread, arg any) {
			n := arg.(int)
			fmt.Printf("%dth prime: %d\n", n, nthPrime(self, n))
		}, n); err != nil {
			return err
		}
	}
	if err := s.End(); err != nil {
		return err
	}

	fmt.Println(runtime.NumGoroutine(), "goroutines")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "primesieve:", err)
		os.Exit(1)
	}
}
