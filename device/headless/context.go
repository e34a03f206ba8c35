// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/surface"
)

var errForeign = errors.New("headless: resource is foreign or destroyed")

// Context is the immediate context of a headless Device.
type Context struct {
	dev    *Device
	target *Target
}

var _ device.Context = (*Context)(nil)

// NewContext creates a context recording into dev.
func NewContext(dev *Device) *Context {
	return &Context{dev: dev}
}

// Copy copies the content and stamp of src into dst.
func (c *Context) Copy(dst, src device.Texture) error {
	d, err := c.texture(dst)
	if err != nil {
		return err
	}
	s, err := c.texture(src)
	if err != nil {
		return err
	}
	if d.width != s.width || d.height != s.height || d.format != s.format {
		return fmt.Errorf("headless: copy %dx%d into %dx%d: %w",
			s.width, s.height, d.width, d.height, device.ErrSizeMismatch)
	}
	if err := c.dev.fault(CmdCopy); err != nil {
		return err
	}

	stamp := copyStorage(d.mem, s.mem)

	c.dev.record(Command{Type: CmdCopy, Texture: d.id, Source: s.id, Stamp: stamp})
	return nil
}

// AcquireLock takes the keyed mutex of tex. It fails, recording a lock
// timeout, when the lock stays held past timeout or when the producer
// released it under a key other than token.
func (c *Context) AcquireLock(tex device.Texture, token surface.SyncToken, timeout time.Duration) bool {
	t, err := c.texture(tex)
	if err != nil {
		return false
	}
	if !t.mem.acquire(token, timeout) {
		c.dev.record(Command{Type: CmdLockTimeout, Texture: t.id, Value: uint64(token)})
		return false
	}
	c.dev.record(Command{Type: CmdAcquire, Texture: t.id, Value: uint64(token)})
	return true
}

// ReleaseLock releases the keyed mutex of tex under token.
func (c *Context) ReleaseLock(tex device.Texture, token surface.SyncToken) {
	t, ok := tex.(*Texture)
	if !ok {
		return
	}
	t.mem.release(token)
	c.dev.record(Command{Type: CmdRelease, Texture: t.id, Value: uint64(token)})
}

// Draw records a quad draw sampling tex.
func (c *Context) Draw(geometry device.Geometry, effect device.Effect, tex device.Texture) error {
	g, ok := geometry.(*Geometry)
	if !ok || g.Destroyed() {
		return fmt.Errorf("headless: draw geometry: %w", errForeign)
	}
	if e, ok := effect.(*Effect); !ok || e.Destroyed() {
		return fmt.Errorf("headless: draw effect: %w", errForeign)
	}
	t, err := c.texture(tex)
	if err != nil {
		return err
	}

	cmd := Command{Type: CmdDraw, Texture: t.id, Stamp: t.Stamp(), Quad: g.Quad}
	c.dev.record(cmd)
	if c.target != nil {
		c.target.draw(cmd)
	}
	return nil
}

// copyStorage copies src into dst and returns the copied stamp.
func copyStorage(dst, src *storage) uint64 {
	src.mu.Lock()
	defer src.mu.Unlock()
	if dst == src {
		return src.stamp
	}
	dst.mu.Lock()
	defer dst.mu.Unlock()
	copy(dst.pixels, src.pixels)
	dst.stamp = src.stamp
	return src.stamp
}

func (c *Context) texture(tex device.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t == nil {
		return nil, fmt.Errorf("headless: texture %T does not belong to this device", tex)
	}
	if t.Destroyed() {
		return nil, device.ErrTextureDestroyed
	}
	return t, nil
}
