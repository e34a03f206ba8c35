package web

import (
	"fmt"

	"github.com/gogpu/mixer/composition"
	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/framesync"
)

// Layer draws the page rendered by a producer.
type Layer struct {
	composition.Base
	view *View
}

// NewLayer opens url with engine at width x height pixels and returns the
// layer drawing it.
func NewLayer(dev device.Device, engine Engine, url string, width, height int, opts ...Option) (*Layer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	name := ""
	if o.viewSource {
		name = SourceName(url)
	}
	return openLayer(dev, engine, name, url, width, height, o)
}

func openLayer(dev device.Device, engine Engine, name, url string, width, height int, o options) (*Layer, error) {
	if engine == nil {
		return nil, fmt.Errorf("web: open %q: no engine", url)
	}
	v := newView(dev, engine, name, width, height, o)
	p, err := engine.Open(v, url)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("web: open %q: %w", url, err)
	}
	v.SetProducer(p)
	return newLayer(dev, v), nil
}

func newLayer(dev device.Device, v *View) *Layer {
	opts := []composition.BaseOption{
		composition.WithInput(v.opts.wantInput),
		composition.WithFlip(v.opts.flip),
	}
	if v.opts.id != "" {
		opts = append(opts, composition.WithID(v.opts.id))
	}
	return &Layer{Base: composition.NewBase(dev, opts...), view: v}
}

// View returns the view feeding the layer.
func (l *Layer) View() *View { return l.view }

// Attach records the owner and shares it with the view, which adds popup
// layers to it. A popup shown in the previous owner is closed.
func (l *Layer) Attach(c *composition.Composition) {
	if old := l.Composition(); old != c {
		l.view.dropPopup(old)
	}
	l.Base.Attach(c)
	l.view.attach(c)
}

// Tick sizes the producer to the layer's pixel size and drives it.
func (l *Layer) Tick(t float64) {
	c := l.Composition()
	if c == nil {
		return
	}
	px := l.Bounds().Pixels(c.Width(), c.Height())
	l.view.resize(px.Width, px.Height)
	l.view.tick(c)
}

// Render draws the latest page frame.
func (l *Layer) Render(ctx device.Context) {
	l.RenderTexture(ctx, l.view.viewSync.Fetch(ctx))
}

// MouseClick forwards the click to the producer.
func (l *Layer) MouseClick(button composition.MouseButton, up bool, x, y int) {
	if p := l.view.safeProducer(); p != nil {
		p.MouseClick(button, up, x, y)
	}
}

// MouseMove forwards pointer motion to the producer.
func (l *Layer) MouseMove(leave bool, x, y int) {
	if p := l.view.safeProducer(); p != nil {
		p.MouseMove(leave, x, y)
	}
}

// Close removes and closes the popup layer, stops the producer and
// releases the frame buffers.
func (l *Layer) Close() {
	if l.Closed() {
		return
	}
	l.Base.Close()
	l.view.Close()
	l.view.dropPopup(l.Composition())
	l.view.viewSync.Release()
	l.view.popupSync.Release()
}

// PopupLayer draws the popup surface of a view.
type PopupLayer struct {
	composition.Base
	sync *framesync.Synchronizer
}

func newPopupLayer(dev device.Device, s *framesync.Synchronizer) *PopupLayer {
	return &PopupLayer{Base: composition.NewBase(dev), sync: s}
}

// Render draws the latest popup frame.
func (l *PopupLayer) Render(ctx device.Context) {
	l.RenderTexture(ctx, l.sync.Fetch(ctx))
}
