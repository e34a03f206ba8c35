package composition

import (
	"slices"
	"sync"
	"time"

	"github.com/gogpu/mixer"
	"github.com/gogpu/mixer/device"
)

// Composition is an ordered list of layers plus the canvas state they are
// drawn against.
type Composition struct {
	dev device.Device

	layers []Layer
	width  int
	height int
	vsync  bool
	time   float64
	closed bool

	fps        float64
	frames     int
	fpsStart   time.Time
	now        func() time.Time
	hover      Layer
	postMu     sync.Mutex
	posted     []func(*Composition)
	postClosed bool
}

// New creates an empty width x height composition drawing with dev.
func New(dev device.Device, width, height int) *Composition {
	return &Composition{
		dev:    dev,
		width:  width,
		height: height,
		now:    time.Now,
	}
}

// Device returns the device layers are created on.
func (c *Composition) Device() device.Device { return c.dev }

// Width returns the canvas width in pixels.
func (c *Composition) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Composition) Height() int { return c.height }

// Vsync reports whether frames are presented on vertical blank.
func (c *Composition) Vsync() bool { return c.vsync }

// Time returns the time of the last Tick in seconds.
func (c *Composition) Time() float64 { return c.time }

// FPS returns the rendered frames per second, measured over the last
// full second.
func (c *Composition) FPS() float64 { return c.fps }

// AddLayer appends l on top of the existing layers and attaches it.
// Nil layers are ignored.
func (c *Composition) AddLayer(l Layer) {
	if l == nil {
		return
	}
	c.layers = append(c.layers, l)
	l.Attach(c)
}

// RemoveLayer removes the first occurrence of l and detaches it. The layer
// keeps its resources and may be added again; callers that are done with
// it must Close it. It reports whether l was found.
func (c *Composition) RemoveLayer(l Layer) bool {
	i := slices.Index(c.layers, l)
	if i < 0 {
		return false
	}
	c.layers = slices.Delete(c.layers, i, i+1)
	if c.hover == l {
		c.hover = nil
	}
	l.Attach(nil)
	return true
}

// Layers returns the layers in draw order.
func (c *Composition) Layers() []Layer {
	return slices.Clone(c.layers)
}

// Resize sets the canvas size and presentation mode.
func (c *Composition) Resize(vsync bool, width, height int) {
	c.vsync = vsync
	c.width = width
	c.height = height
}

// Post queues f to run on the compositing goroutine at the start of the
// next Tick. Post is safe for concurrent use. It reports false, without
// queueing f, once Close has begun; the caller then owns whatever f would
// have taken over.
func (c *Composition) Post(f func(*Composition)) bool {
	c.postMu.Lock()
	defer c.postMu.Unlock()
	if c.postClosed {
		return false
	}
	c.posted = append(c.posted, f)
	return true
}

func (c *Composition) drainPosted() {
	c.postMu.Lock()
	queue := c.posted
	c.posted = nil
	c.postMu.Unlock()

	for _, f := range queue {
		f(c)
	}
}

// Tick runs posted functions, then advances every layer to time t.
func (c *Composition) Tick(t float64) {
	if c.closed {
		return
	}
	c.drainPosted()
	c.time = t
	for _, l := range slices.Clone(c.layers) {
		l.Tick(t)
	}
}

// Render draws every layer in insertion order.
func (c *Composition) Render(ctx device.Context) {
	if c.closed {
		return
	}
	for _, l := range c.layers {
		l.Render(ctx)
	}
	c.countFrame()
}

func (c *Composition) countFrame() {
	now := c.now()
	if c.fpsStart.IsZero() {
		c.fpsStart = now
	}
	c.frames++
	if d := now.Sub(c.fpsStart); d >= time.Second {
		c.fps = float64(c.frames) / d.Seconds()
		c.frames = 0
		c.fpsStart = now
	}
}

// LayerAt returns the topmost layer that wants input and covers the pixel
// (x, y), together with the pixel in layer-local coordinates.
func (c *Composition) LayerAt(x, y int) (l Layer, lx, ly int, ok bool) {
	if c.width <= 0 || c.height <= 0 {
		return nil, 0, 0, false
	}
	nx := float32(x) / float32(c.width)
	ny := float32(y) / float32(c.height)
	for i := len(c.layers) - 1; i >= 0; i-- {
		l := c.layers[i]
		if !l.WantsInput() || !l.Bounds().Contains(nx, ny) {
			continue
		}
		px := l.Bounds().Pixels(c.width, c.height)
		return l, x - px.X, y - px.Y, true
	}
	return nil, 0, 0, false
}

// MouseClick routes a click at canvas pixel (x, y) to the layer under it.
func (c *Composition) MouseClick(button MouseButton, up bool, x, y int) {
	if l, lx, ly, ok := c.LayerAt(x, y); ok {
		l.MouseClick(button, up, lx, ly)
	}
}

// MouseMove routes pointer motion at canvas pixel (x, y). The layer the
// pointer left receives a leave event. leave reports that the pointer
// left the canvas.
func (c *Composition) MouseMove(leave bool, x, y int) {
	var target Layer
	var lx, ly int
	if !leave {
		target, lx, ly, _ = c.LayerAt(x, y)
	}
	if c.hover != nil && c.hover != target {
		px := c.hover.Bounds().Pixels(c.width, c.height)
		c.hover.MouseMove(true, x-px.X, y-px.Y)
	}
	c.hover = target
	if target != nil {
		target.MouseMove(false, lx, ly)
	}
}

// Close stops accepting posted functions, runs the ones already queued so
// that any layer they hand over is owned by the composition, then closes
// every layer. Close is idempotent.
func (c *Composition) Close() {
	if c.closed {
		return
	}

	c.postMu.Lock()
	c.postClosed = true
	c.postMu.Unlock()
	c.drainPosted()
	c.closed = true

	layers := c.layers
	c.layers = nil
	c.hover = nil
	for _, l := range layers {
		l.Close()
		l.Attach(nil)
	}
	mixer.Logger().Debug("composition: closed")
}
