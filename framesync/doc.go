// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package framesync hands GPU frames from an asynchronous producer to the
// compositing goroutine.
//
// A Synchronizer is a single-slot mailbox over textures. The producer
// announces each finished frame with Notify, which blocks while the
// previous frame has not been consumed. The consumer calls Fetch once per
// compositing tick. Fetch copies the announced frame out of the shared
// surface under its keyed mutex and returns a private texture that always
// holds the latest complete frame:
//
//	// producer goroutine
//	sync.Notify(handle, token)
//
//	// compositing goroutine
//	if tex := sync.Fetch(ctx); tex != nil {
//	    draw(tex)
//	}
//
// The shared surface is copied into a back buffer, which is then swapped
// with the front buffer. The texture returned by Fetch is therefore never
// written while the compositor samples it, and the producer is never kept
// waiting longer than one tick.
//
// When the keyed mutex cannot be taken within the lock timeout the frame
// stays pending and the copy is retried on the next Fetch, while the
// previous front buffer is returned unchanged.
package framesync
