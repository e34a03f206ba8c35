// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/surface"
)

// storage is the memory behind one or more textures. A shared surface and
// the textures opened from its handle alias the same storage.
type storage struct {
	mu     sync.Mutex
	pixels []byte
	stamp  uint64

	// lock is the keyed mutex: a token in the channel means free.
	lock chan struct{}
	// key is the sync token of the last release. It is only touched by
	// the holder of lock.
	key surface.SyncToken
}

func newStorage(size int, shared bool) *storage {
	s := &storage{pixels: make([]byte, size)}
	if shared {
		s.lock = make(chan struct{}, 1)
		s.lock <- struct{}{}
	}
	return s
}

// acquire takes the keyed mutex if it was last released with key. A lock
// held under another key is handed straight back: the holder keeps
// releasing with its own key, so waiting cannot make it match.
func (s *storage) acquire(key surface.SyncToken, timeout time.Duration) bool {
	if s.lock == nil {
		return true
	}
	if !s.take(timeout) {
		return false
	}
	if s.key != key {
		s.lock <- struct{}{}
		return false
	}
	return true
}

func (s *storage) take(timeout time.Duration) bool {
	if timeout <= 0 {
		select {
		case <-s.lock:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-s.lock:
		return true
	case <-t.C:
		return false
	}
}

func (s *storage) release(key surface.SyncToken) {
	if s.lock == nil {
		return
	}
	s.key = key
	select {
	case s.lock <- struct{}{}:
	default:
	}
}

func (s *storage) snapshot() ([]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.pixels...), s.stamp
}

// Texture is a texture held in host memory.
type Texture struct {
	dev    *Device
	id     uint64
	label  string
	width  int
	height int
	format gputypes.TextureFormat
	mem    *storage
	shared bool

	destroyed atomic.Bool
}

var _ device.Texture = (*Texture)(nil)

// ID returns the texture ID used in recorded commands.
func (t *Texture) ID() uint64 { return t.id }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Format returns the texture pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Shared reports whether the texture was opened from a shared surface.
func (t *Texture) Shared() bool { return t.shared }

// Stamp returns the number of the frame the texture content came from.
func (t *Texture) Stamp() uint64 {
	t.mem.mu.Lock()
	defer t.mem.mu.Unlock()
	return t.mem.stamp
}

// Pixels returns a copy of the texture content.
func (t *Texture) Pixels() []byte {
	p, _ := t.mem.snapshot()
	return p
}

// Destroyed reports whether Destroy was called.
func (t *Texture) Destroyed() bool { return t.destroyed.Load() }

// Destroy releases the texture. Destroy is idempotent.
func (t *Texture) Destroy() {
	if t.destroyed.Swap(true) {
		return
	}
	t.dev.forget(t)
	t.dev.record(Command{Type: CmdDestroyTexture, Texture: t.id})
}

// SharedSurface is the producer side of a shared texture. The producer
// writes frames into it and hands its Handle to the compositor.
type SharedSurface struct {
	tex *Texture
	key atomic.Uint64
}

// SetKey sets the sync token the producer releases the keyed mutex with
// after each Write. The consumer must acquire with the same token. The
// default key is 0.
func (s *SharedSurface) SetKey(token surface.SyncToken) {
	s.key.Store(uint64(token))
}

// Key returns the sync token set with SetKey.
func (s *SharedSurface) Key() surface.SyncToken {
	return surface.SyncToken(s.key.Load())
}

// Handle returns the cross-boundary handle of the surface.
func (s *SharedSurface) Handle() surface.Handle {
	return surface.Handle{
		ID:     surface.ID(s.tex.id),
		Width:  s.tex.width,
		Height: s.tex.height,
		Format: s.tex.format,
	}
}

// Write stores a frame under the keyed mutex, waiting for the consumer to
// finish any copy in progress. pixels may be nil to update only the stamp;
// otherwise it must hold exactly one full frame.
func (s *SharedSurface) Write(stamp uint64, pixels []byte) error {
	if s.tex.Destroyed() {
		return device.ErrTextureDestroyed
	}
	if pixels != nil && len(pixels) != len(s.tex.mem.pixels) {
		return fmt.Errorf("headless: frame of %d bytes for %d byte surface: %w",
			len(pixels), len(s.tex.mem.pixels), device.ErrSizeMismatch)
	}

	mem := s.tex.mem
	<-mem.lock
	defer mem.release(s.Key())

	mem.mu.Lock()
	defer mem.mu.Unlock()
	if pixels != nil {
		copy(mem.pixels, pixels)
	}
	mem.stamp = stamp
	return nil
}

// Hold takes the keyed mutex as the producer would while rendering, and
// returns the function that releases it.
func (s *SharedSurface) Hold() (release func()) {
	<-s.tex.mem.lock
	var once sync.Once
	return func() { once.Do(func() { s.tex.mem.release(s.Key()) }) }
}

// Destroy removes the surface. Textures already opened from its handle
// keep their storage, but the handle can no longer be opened.
func (s *SharedSurface) Destroy() {
	s.tex.Destroy()
}
