// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"sync"

	"github.com/gogpu/mixer/device"
)

// Name is the registry name of the backend.
const Name = "headless"

// Backend bundles a headless device, its context and a target.
type Backend struct {
	Dev *Device
	Ctx *Context
	Out *Target

	closeOnce sync.Once
}

var _ device.Backend = (*Backend)(nil)

// Open creates a headless backend. The target adopts the host's surface
// format when opts carries a host.
func Open(opts device.Options) (*Backend, error) {
	dev := NewDevice()
	out, err := NewTarget(dev, opts.Width, opts.Height, opts.TargetFormat())
	if err != nil {
		return nil, err
	}
	return &Backend{Dev: dev, Ctx: NewContext(dev), Out: out}, nil
}

// Device returns the device.
func (b *Backend) Device() device.Device { return b.Dev }

// Context returns the immediate context.
func (b *Backend) Context() device.Context { return b.Ctx }

// Target returns the render target.
func (b *Backend) Target() device.Target { return b.Out }

// Close discards the recorded commands.
func (b *Backend) Close() error {
	b.closeOnce.Do(b.Dev.Reset)
	return nil
}

func init() {
	device.Register(Name, 10, func(opts device.Options) (device.Backend, error) {
		return Open(opts)
	}, nil)
}
