// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package uthread

import (
	"fmt"
	"log/slog"

	"github.com/0x5a17ed/uthread/internal/kctx"
)

type config struct {
	logger  *slog.Logger
	buckets int
}

func defaultConfig() config {
	return config{
		logger:  slog.Default(),
		buckets: kctx.DefaultBuckets,
	}
}

// Option configures a Scheduler created by Begin.
type Option func(*config) error

// WithLogger sets the logger receiving scheduler events. Lifecycle
// events are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidConfig)
		}
		c.logger = l
		return nil
	}
}

// WithRegistryBuckets sets the bucket count of the kernel-context
// registry used with more than one kernel context.
func WithRegistryBuckets(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: %d registry buckets", ErrInvalidConfig, n)
		}
		c.buckets = n
		return nil
	}
}
