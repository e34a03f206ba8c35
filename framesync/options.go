// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framesync

import "time"

// DefaultLockTimeout bounds how long Fetch waits for the keyed mutex of the
// shared surface.
const DefaultLockTimeout = 5 * time.Millisecond

// options holds the configuration of a Synchronizer.
type options struct {
	lockTimeout time.Duration
	name        string
}

func defaultOptions() options {
	return options{lockTimeout: DefaultLockTimeout}
}

// Option configures a Synchronizer.
type Option func(*options)

// WithLockTimeout sets the keyed mutex timeout used by Fetch.
// Non-positive values make Fetch try the lock without waiting.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = d
	}
}

// WithName sets the name reported in log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
