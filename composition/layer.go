package composition

import (
	"weak"

	"github.com/google/uuid"

	"github.com/gogpu/mixer"
	"github.com/gogpu/mixer/device"
)

// Layer is one rectangle of the composition.
//
// All methods are called on the compositing goroutine.
type Layer interface {
	// ID returns a stable identifier for logs and scene references.
	ID() string

	// Attach records c as the owner of the layer. A nil c detaches it.
	Attach(c *Composition)

	// Composition returns the owner, or nil when the layer is detached or
	// the owner is gone.
	Composition() *Composition

	// Bounds returns the normalized rectangle covered by the layer.
	Bounds() Rect

	// Move sets the normalized rectangle covered by the layer.
	Move(x, y, width, height float32)

	// Tick advances the layer to time t, in seconds since start.
	Tick(t float64)

	// Render draws the layer with ctx.
	Render(ctx device.Context)

	// WantsInput reports whether the layer receives mouse events.
	WantsInput() bool

	// MouseClick delivers a button press or release at layer-local pixel
	// coordinates.
	MouseClick(button MouseButton, up bool, x, y int)

	// MouseMove delivers pointer motion at layer-local pixel coordinates.
	// leave is true when the pointer left the layer.
	MouseMove(leave bool, x, y int)

	// Close releases the layer's resources. Close is idempotent.
	Close()
}

// MouseButton identifies a mouse button.
type MouseButton uint8

// Mouse buttons.
const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
)

// Base implements the parts of Layer shared by every layer kind. Concrete
// layers embed Base and implement Render, usually with RenderTexture.
type Base struct {
	dev       device.Device
	id        string
	bounds    Rect
	flip      bool
	wantInput bool

	owner weak.Pointer[Composition]

	geometry device.Geometry
	effect   device.Effect
	broken   bool
	closed   bool
}

// BaseOption configures a Base.
type BaseOption func(*Base)

// WithID sets the layer ID. By default a random UUID is used.
func WithID(id string) BaseOption {
	return func(b *Base) { b.id = id }
}

// WithFlip samples the layer texture upside down.
func WithFlip(flip bool) BaseOption {
	return func(b *Base) { b.flip = flip }
}

// WithInput makes the layer a mouse event target.
func WithInput(want bool) BaseOption {
	return func(b *Base) { b.wantInput = want }
}

// NewBase creates the common layer state. The layer covers the whole
// canvas until moved. Geometry and effect are created on dev when the
// layer is first drawn.
func NewBase(dev device.Device, opts ...BaseOption) Base {
	b := Base{dev: dev, bounds: Rect{Width: 1, Height: 1}}
	for _, opt := range opts {
		opt(&b)
	}
	if b.id == "" {
		b.id = uuid.NewString()
	}
	return b
}

// ID returns the layer ID.
func (b *Base) ID() string { return b.id }

// Device returns the device the layer draws with.
func (b *Base) Device() device.Device { return b.dev }

// Attach records c as the owner of the layer.
func (b *Base) Attach(c *Composition) {
	if c == nil {
		b.owner = weak.Pointer[Composition]{}
		return
	}
	b.owner = weak.Make(c)
}

// Composition returns the owner of the layer, or nil.
func (b *Base) Composition() *Composition {
	return b.owner.Value()
}

// Bounds returns the normalized rectangle of the layer.
func (b *Base) Bounds() Rect { return b.bounds }

// Move sets the normalized rectangle of the layer.
func (b *Base) Move(x, y, width, height float32) {
	b.bounds = Rect{X: x, Y: y, Width: width, Height: height}
	b.dropGeometry()
}

// Flipped reports whether the layer samples its texture upside down.
func (b *Base) Flipped() bool { return b.flip }

// Tick does nothing.
func (b *Base) Tick(float64) {}

// WantsInput reports whether the layer receives mouse events.
func (b *Base) WantsInput() bool { return b.wantInput }

// MouseClick ignores the event.
func (b *Base) MouseClick(MouseButton, bool, int, int) {}

// MouseMove ignores the event.
func (b *Base) MouseMove(bool, int, int) {}

// Closed reports whether Close was called.
func (b *Base) Closed() bool { return b.closed }

// Close releases the geometry and effect of the layer.
func (b *Base) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.dropGeometry()
	if b.effect != nil {
		b.effect.Destroy()
		b.effect = nil
	}
}

// RenderTexture draws tex over the layer bounds. A nil texture draws
// nothing. Geometry is rebuilt after every Move, the effect is created on
// first use.
func (b *Base) RenderTexture(ctx device.Context, tex device.Texture) {
	if b.closed || b.broken || tex == nil {
		return
	}

	if b.geometry == nil {
		g, err := b.dev.CreateQuad(device.Quad{
			X:      b.bounds.X,
			Y:      b.bounds.Y,
			Width:  b.bounds.Width,
			Height: b.bounds.Height,
			Flip:   b.flip,
		})
		if err != nil {
			mixer.Logger().Warn("composition: cannot create quad", "layer", b.id, "err", err)
			return
		}
		b.geometry = g
	}

	if b.effect == nil {
		desc, err := device.DefaultEffect()
		if err == nil {
			b.effect, err = b.dev.CreateEffect(desc)
		}
		if err != nil {
			b.broken = true
			mixer.Logger().Error("composition: cannot create effect", "layer", b.id, "err", err)
			return
		}
	}

	if err := ctx.Draw(b.geometry, b.effect, tex); err != nil {
		mixer.Logger().Debug("composition: draw failed", "layer", b.id, "err", err)
	}
}

func (b *Base) dropGeometry() {
	if b.geometry != nil {
		b.geometry.Destroy()
		b.geometry = nil
	}
}
