// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mixer/device"
)

// Target is an in-memory render target. It keeps the draws of the frame
// being built and of the last presented frame.
type Target struct {
	dev *Device

	mu        sync.Mutex
	width     int
	height    int
	format    gputypes.TextureFormat
	building  []Command
	presented []Command
	frames    int
}

var _ device.Target = (*Target)(nil)

// NewTarget creates a width x height target on dev.
func NewTarget(dev *Device, width, height int, format gputypes.TextureFormat) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("headless: target %dx%d: %w", width, height, device.ErrInvalidDimensions)
	}
	return &Target{dev: dev, width: width, height: height, format: format}, nil
}

// Width returns the target width in pixels.
func (t *Target) Width() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

// Height returns the target height in pixels.
func (t *Target) Height() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.height
}

// Format returns the pixel format of the target.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// Bind makes t the output of ctx. Contexts of other backends are ignored.
func (t *Target) Bind(ctx device.Context) {
	c, ok := ctx.(*Context)
	if !ok {
		return
	}
	c.target = t
	t.dev.record(Command{Type: CmdBind})
}

// Clear starts a new frame.
func (t *Target) Clear(r, g, b, a float32) {
	t.mu.Lock()
	t.building = t.building[:0]
	t.mu.Unlock()
	t.dev.record(Command{Type: CmdClear})
}

// Present publishes the frame built since the last Clear.
func (t *Target) Present(syncInterval int) error {
	t.mu.Lock()
	t.presented = append(t.presented[:0], t.building...)
	t.frames++
	t.mu.Unlock()
	t.dev.record(Command{Type: CmdPresent, Value: uint64(syncInterval)})
	return nil
}

// Resize changes the target size.
func (t *Target) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("headless: resize to %dx%d: %w", width, height, device.ErrInvalidDimensions)
	}
	t.mu.Lock()
	t.width, t.height = width, height
	t.mu.Unlock()
	t.dev.record(Command{Type: CmdResize, Value: uint64(width)<<32 | uint64(height)})
	return nil
}

// LastFrame returns the draws of the last presented frame in draw order.
func (t *Target) LastFrame() []Command {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Command(nil), t.presented...)
}

// Frames returns the number of presented frames.
func (t *Target) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

func (t *Target) draw(c Command) {
	t.mu.Lock()
	t.building = append(t.building, c)
	t.mu.Unlock()
}
