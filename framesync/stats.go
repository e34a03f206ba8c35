// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framesync

// Stats counts what happened to the frames passing through a Synchronizer.
type Stats struct {
	// Notified is the number of frames announced by the producer.
	Notified uint64

	// Delivered is the number of frames copied into the front buffer.
	Delivered uint64

	// LockTimeouts is the number of Fetch calls that could not take the
	// keyed mutex in time.
	LockTimeouts uint64

	// CopyFailures is the number of frames dropped because the copy failed.
	CopyFailures uint64

	// Reopens is the number of times a changed handle replaced an already
	// open shared surface.
	Reopens uint64

	// OpenFailures is the number of handles that could not be opened.
	OpenFailures uint64

	// DroppedAtClose is the number of frames pending when the
	// synchronizer was closed.
	DroppedAtClose uint64
}
