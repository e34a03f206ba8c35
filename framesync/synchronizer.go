// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framesync

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/mixer"
	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/surface"
)

// Synchronizer moves frames from one producer to one consumer.
//
// Notify must be called from a single producer goroutine and Fetch from
// the goroutine owning the device context. Close may be called from any
// goroutine, concurrently with both.
type Synchronizer struct {
	dev  device.Device
	opts options

	mu   sync.Mutex
	cond *sync.Cond

	// shared is the producer's surface opened on dev; front and back are
	// private copies of its size and format. All three are nil until the
	// first handle is opened.
	handle surface.Handle
	shared device.Texture
	front  device.Texture
	back   device.Texture

	pending bool
	token   surface.SyncToken
	closed  bool
	stats   Stats
}

// New creates a synchronizer that opens shared surfaces and allocates its
// buffers on dev.
func New(dev device.Device, opts ...Option) *Synchronizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Synchronizer{dev: dev, opts: o}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Notify announces that the frame in the surface named by h is complete
// and may be read once the keyed mutex is acquired with token.
//
// Notify blocks while the previously announced frame has not been
// consumed. After Close it returns immediately. A handle with a new ID
// replaces the shared surface and both buffers.
func (s *Synchronizer) Notify(h surface.Handle, token surface.SyncToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.pending && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return
	}
	s.stats.Notified++

	if s.shared == nil || !s.handle.SameSurface(h) {
		if s.shared != nil {
			s.stats.Reopens++
		}
		s.releaseLocked()
		if err := s.openLocked(h); err != nil {
			s.stats.OpenFailures++
			s.log().Warn("framesync: cannot open shared surface",
				"surface", h.String(), "err", err)
			return
		}
	}

	s.token = token
	s.pending = true
}

// openLocked opens h and allocates matching buffers. On failure no
// resource is left behind.
func (s *Synchronizer) openLocked(h surface.Handle) error {
	shared, err := s.dev.OpenSharedSurface(h)
	if err != nil {
		return err
	}

	desc := device.TextureDescriptor{
		Width:  shared.Width(),
		Height: shared.Height(),
		Format: shared.Format(),
		Usage:  device.TextureUsage,
	}
	desc.Label = s.label("front")
	front, err := s.dev.CreateTexture(desc, nil)
	if err != nil {
		shared.Destroy()
		return fmt.Errorf("front buffer: %w", err)
	}
	desc.Label = s.label("back")
	back, err := s.dev.CreateTexture(desc, nil)
	if err != nil {
		front.Destroy()
		shared.Destroy()
		return fmt.Errorf("back buffer: %w", err)
	}

	s.handle = h
	s.shared, s.front, s.back = shared, front, back
	s.log().Debug("framesync: opened shared surface", "surface", h.String())
	return nil
}

// Fetch returns the texture holding the latest complete frame, or nil
// when no surface has been opened yet.
//
// If a frame is pending, Fetch copies it into the back buffer under the
// keyed mutex and swaps the buffers. Fetch waits at most the lock timeout;
// on timeout the frame stays pending and the previous front is returned.
func (s *Synchronizer) Fetch(ctx device.Context) device.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.pending || s.shared == nil {
		return s.front
	}

	if !ctx.AcquireLock(s.shared, s.token, s.opts.lockTimeout) {
		s.stats.LockTimeouts++
		s.log().Debug("framesync: keyed mutex timeout",
			"surface", s.handle.String(), "timeout", s.opts.lockTimeout)
		return s.front
	}
	err := ctx.Copy(s.back, s.shared)
	ctx.ReleaseLock(s.shared, s.token)

	if err != nil {
		s.stats.CopyFailures++
		s.log().Warn("framesync: dropping frame, copy failed",
			"surface", s.handle.String(), "err", err)
	} else {
		s.front, s.back = s.back, s.front
		s.stats.Delivered++
	}

	s.pending = false
	s.cond.Broadcast()
	return s.front
}

// Close stops the synchronizer and wakes a producer blocked in Notify.
// After Close, Notify has no effect and Fetch keeps returning the last
// delivered frame. Close is idempotent.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.pending {
		s.pending = false
		s.stats.DroppedAtClose++
	}
	s.cond.Broadcast()
}

// Release closes the synchronizer and destroys its textures. It must be
// called from the goroutine owning the device context.
func (s *Synchronizer) Release() {
	s.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *Synchronizer) releaseLocked() {
	for _, tex := range []device.Texture{s.shared, s.front, s.back} {
		if tex != nil {
			tex.Destroy()
		}
	}
	s.shared, s.front, s.back = nil, nil, nil
	s.handle = surface.Handle{}
}

// Closed reports whether Close was called.
func (s *Synchronizer) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Pending reports whether a notified frame is waiting to be copied.
func (s *Synchronizer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Size returns the size of the current shared surface, or zero when none
// is open.
func (s *Synchronizer) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shared == nil {
		return 0, 0
	}
	return s.handle.Width, s.handle.Height
}

// Stats returns a snapshot of the frame counters.
func (s *Synchronizer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// LockTimeout returns the configured keyed mutex timeout.
func (s *Synchronizer) LockTimeout() time.Duration {
	return s.opts.lockTimeout
}

func (s *Synchronizer) label(buffer string) string {
	if s.opts.name == "" {
		return buffer
	}
	return s.opts.name + "-" + buffer
}

func (s *Synchronizer) log() *slog.Logger {
	l := mixer.Logger()
	if s.opts.name != "" {
		l = l.With("sync", s.opts.name)
	}
	return l
}
