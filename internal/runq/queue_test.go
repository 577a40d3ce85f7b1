// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package runq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0x5a17ed/uthread/internal/runq"
)

func TestEmpty(t *testing.T) {
	var q runq.Queue[*int]

	v, ok := q.Dequeue()
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Zero(t, q.Len())
}

func TestFIFO(t *testing.T) {
	tt := []struct {
		name string
		ops  string // 'e' enqueues the next number, 'd' dequeues
		want []int
	}{
		{"Single", "ed", []int{0}},
		{"AllThenDrain", "eeeddd", []int{0, 1, 2}},
		{"Interleaved", "eedeedddd", []int{0, 1, 2, 3}},
		{"DequeueEmpty", "deded", []int{0, 1}},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var (
				q    runq.Queue[int]
				next int
				got  []int
			)
			for _, op := range tc.ops {
				switch op {
				case 'e':
					q.Enqueue(next)
					next++
				case 'd':
					if v, ok := q.Dequeue(); ok {
						got = append(got, v)
					}
				}
			}
			assert.Equal(t, tc.want, got)
			assert.Zero(t, q.Len())
		})
	}
}

func TestGrowth(t *testing.T) {
	var q runq.Queue[int]
	for i := 0; i < 1000; i++ {
		q.Enqueue(i)
	}
	assert.Equal(t, 1000, q.Len())

	for i := 0; i < 1000; i++ {
		v, ok := q.Dequeue()
		if !assert.True(t, ok) || !assert.Equal(t, i, v) {
			return
		}
	}
}
