// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/surface"
)

// MaxCommands bounds the command log. When it fills up, the older half is
// discarded.
const MaxCommands = 1 << 16

// Device is a device.Device that keeps resources in host memory.
// All methods are safe for concurrent use.
type Device struct {
	nextID atomic.Uint64

	mu       sync.Mutex
	surfaces map[surface.ID]*Texture
	live     map[uint64]*Texture
	faults   map[CommandType][]error
	cmds     []Command
}

var _ device.Device = (*Device)(nil)

// NewDevice creates an empty device.
func NewDevice() *Device {
	return &Device{
		surfaces: make(map[surface.ID]*Texture),
		live:     make(map[uint64]*Texture),
		faults:   make(map[CommandType][]error),
	}
}

// InjectFault makes the next operation recorded as t fail with err.
// Faults queue up when injected repeatedly. Supported types are
// CmdOpenShared, CmdCreateTexture, CmdCreateQuad, CmdCreateEffect and
// CmdCopy.
func (d *Device) InjectFault(t CommandType, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faults[t] = append(d.faults[t], err)
}

func (d *Device) fault(t CommandType) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	q := d.faults[t]
	if len(q) == 0 {
		return nil
	}
	d.faults[t] = q[1:]
	return q[0]
}

// CreateSharedSurface creates a texture a producer can write into and
// share by handle.
func (d *Device) CreateSharedSurface(width, height int, format gputypes.TextureFormat) (*SharedSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("headless: shared surface %dx%d: %w", width, height, device.ErrInvalidDimensions)
	}
	size := width * height * surface.BytesPerPixel(format)
	tex := d.newTexture("shared", width, height, format, newStorage(size, true))
	tex.shared = true

	d.mu.Lock()
	d.surfaces[surface.ID(tex.id)] = tex
	d.mu.Unlock()
	return &SharedSurface{tex: tex}, nil
}

// OpenSharedSurface opens the texture a producer shared under h.
func (d *Device) OpenSharedSurface(h surface.Handle) (device.Texture, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := d.fault(CmdOpenShared); err != nil {
		return nil, err
	}

	d.mu.Lock()
	src, ok := d.surfaces[h.ID]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("headless: open %s: %w", h, device.ErrSurfaceNotFound)
	}
	if src.width != h.Width || src.height != h.Height {
		return nil, fmt.Errorf("headless: open %s: surface is %dx%d: %w",
			h, src.width, src.height, device.ErrSizeMismatch)
	}

	tex := d.newTexture("opened", src.width, src.height, src.format, src.mem)
	tex.shared = true
	d.record(Command{Type: CmdOpenShared, Texture: tex.id, Source: src.id})
	return tex, nil
}

// CreateTexture creates a private texture.
func (d *Device) CreateTexture(desc device.TextureDescriptor, pixels []byte) (device.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("headless: texture %q %dx%d: %w",
			desc.Label, desc.Width, desc.Height, device.ErrInvalidDimensions)
	}
	if err := d.fault(CmdCreateTexture); err != nil {
		return nil, err
	}

	size := desc.Width * desc.Height * surface.BytesPerPixel(desc.Format)
	mem := newStorage(size, false)
	if pixels != nil {
		if len(pixels) != size {
			return nil, fmt.Errorf("headless: texture %q: %d bytes of initial data for %d: %w",
				desc.Label, len(pixels), size, device.ErrSizeMismatch)
		}
		copy(mem.pixels, pixels)
	}

	tex := d.newTexture(desc.Label, desc.Width, desc.Height, desc.Format, mem)
	d.record(Command{Type: CmdCreateTexture, Texture: tex.id})
	return tex, nil
}

// CreateQuad records the vertices of q.
func (d *Device) CreateQuad(q device.Quad) (device.Geometry, error) {
	if err := d.fault(CmdCreateQuad); err != nil {
		return nil, err
	}
	g := &Geometry{Quad: q, Vertices: q.Vertices()}
	d.record(Command{Type: CmdCreateQuad, Quad: q})
	return g, nil
}

// CreateEffect validates desc and returns an effect.
func (d *Device) CreateEffect(desc device.EffectDescriptor) (device.Effect, error) {
	if len(desc.SPIRV) == 0 {
		return nil, fmt.Errorf("headless: effect %q has no shader code", desc.Label)
	}
	if desc.VertexEntry == "" || desc.FragmentEntry == "" {
		return nil, fmt.Errorf("headless: effect %q is missing an entry point", desc.Label)
	}
	if err := d.fault(CmdCreateEffect); err != nil {
		return nil, err
	}
	d.record(Command{Type: CmdCreateEffect})
	return &Effect{Desc: desc}, nil
}

// Commands returns a copy of the recorded commands, oldest first.
func (d *Device) Commands() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Command(nil), d.cmds...)
}

// Reset discards the recorded commands.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cmds = nil
}

// LiveTextures returns the number of textures not yet destroyed,
// producer-side shared surfaces included.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

func (d *Device) newTexture(label string, w, h int, format gputypes.TextureFormat, mem *storage) *Texture {
	t := &Texture{
		dev:    d,
		id:     d.nextID.Add(1),
		label:  label,
		width:  w,
		height: h,
		format: format,
		mem:    mem,
	}
	d.mu.Lock()
	d.live[t.id] = t
	d.mu.Unlock()
	return t
}

func (d *Device) forget(t *Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.live, t.id)
	if d.surfaces[surface.ID(t.id)] == t {
		delete(d.surfaces, surface.ID(t.id))
	}
}

func (d *Device) record(c Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cmds) >= MaxCommands {
		d.cmds = append(d.cmds[:0], d.cmds[len(d.cmds)/2:]...)
	}
	d.cmds = append(d.cmds, c)
}

// Geometry is the recorded vertex data of one quad.
type Geometry struct {
	Quad     device.Quad
	Vertices [4]device.Vertex

	destroyed atomic.Bool
}

// Destroy releases the geometry.
func (g *Geometry) Destroy() { g.destroyed.Store(true) }

// Destroyed reports whether Destroy was called.
func (g *Geometry) Destroyed() bool { return g.destroyed.Load() }

// Effect is a validated effect descriptor.
type Effect struct {
	Desc device.EffectDescriptor

	destroyed atomic.Bool
}

// Destroy releases the effect.
func (e *Effect) Destroy() { e.destroyed.Store(true) }

// Destroyed reports whether Destroy was called.
func (e *Effect) Destroyed() bool { return e.destroyed.Load() }
