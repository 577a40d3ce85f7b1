// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package psort sorts slices with a divide-and-conquer merge sort that
// forks one logical thread per half.
package psort

import (
	"cmp"
	"errors"

	"github.com/0x5a17ed/uthread"
)

type job[T cmp.Ordered] struct {
	s         []T
	threshold int
	err       error
}

// Sort sorts s in place from the logical thread self. Slices no longer
// than threshold are sorted sequentially; longer ones are split, both
// halves are sorted by forked threads, joined and merged.
func Sort[T cmp.Ordered](self *uthread.Thread, s []T, threshold int) error {
	j := &job[T]{s: s, threshold: max(threshold, 1)}
	sortJob[T](self, j)
	return j.err
}

func sortJob[T cmp.Ordered](self *uthread.Thread, j *job[T]) {
	if len(j.s) <= j.threshold {
		insertionSort(j.s)
		return
	}

	mid := len(j.s) / 2
	left := &job[T]{s: j.s[:mid], threshold: j.threshold}
	right := &job[T]{s: j.s[mid:], threshold: j.threshold}

	lt, err := self.Fork(entry[T], left)
	if err != nil {
		j.err = err
		return
	}
	rt, err := self.Fork(entry[T], right)
	if err != nil {
		j.err = errors.Join(err, self.Join(lt))
		return
	}

	if err := errors.Join(self.Join(lt), self.Join(rt), left.err, right.err); err != nil {
		j.err = err
		return
	}
	merge(j.s, mid)
}

func entry[T cmp.Ordered](self *uthread.Thread, arg any) {
	sortJob(self, arg.(*job[T]))
}

func insertionSort[T cmp.Ordered](s []T) {
	for i := 1; i < len(s); i++ {
		for k := i; k > 0 && s[k] < s[k-1]; k-- {
			s[k], s[k-1] = s[k-1], s[k]
		}
	}
}

// merge merges the sorted runs s[:mid] and s[mid:].
func merge[T cmp.Ordered](s []T, mid int) {
	out := make([]T, 0, len(s))
	i, k := 0, mid
	for i < mid && k < len(s) {
		if s[k] < s[i] {
			out = append(out, s[k])
			k++
		} else {
			out = append(out, s[i])
			i++
		}
	}
	out = append(out, s[i:mid]...)
	out = append(out, s[k:]...)
	copy(s, out)
}
