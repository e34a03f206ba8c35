package web

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/gogpu/mixer"
	"github.com/gogpu/mixer/composition"
	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/framesync"
	"github.com/gogpu/mixer/surface"
)

// View receives the callbacks of one producer. Its On methods may be
// called from any goroutine.
type View struct {
	name   string
	dev    device.Device
	engine Engine
	opts   options

	viewSync  *framesync.Synchronizer
	popupSync *framesync.Synchronizer

	statsRequested atomic.Bool

	mu       sync.Mutex
	producer Producer
	owner    weak.Pointer[composition.Composition]
	width    int
	height   int
	closed   bool

	// paint rate, updated by the producer goroutine under mu
	frames   int
	fpsStart time.Time
	now      func() time.Time

	// popup is only touched on the compositing goroutine.
	popup *PopupLayer
}

// NewView creates a view of width x height pixels. engine opens the
// windows the page asks for; it may be nil to refuse them.
func NewView(dev device.Device, engine Engine, name string, width, height int, opts ...Option) *View {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newView(dev, engine, name, width, height, o)
}

func newView(dev device.Device, engine Engine, name string, width, height int, o options) *View {
	prefix := name
	if prefix == "" {
		prefix = "web"
	}
	return &View{
		name:      name,
		dev:       dev,
		engine:    engine,
		opts:      o,
		viewSync:  framesync.New(dev, framesync.WithName(prefix+"/view"), framesync.WithLockTimeout(o.lockTimeout)),
		popupSync: framesync.New(dev, framesync.WithName(prefix+"/popup"), framesync.WithLockTimeout(o.lockTimeout)),
		width:     width,
		height:    height,
		now:       time.Now,
	}
}

// Name returns the view name. It is empty unless source dumps are on.
func (v *View) Name() string { return v.name }

// Size returns the pixel size the producer is asked to render at.
func (v *View) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// ViewSync returns the synchronizer of the page surface.
func (v *View) ViewSync() *framesync.Synchronizer { return v.viewSync }

// PopupSync returns the synchronizer of the popup surface.
func (v *View) PopupSync() *framesync.Synchronizer { return v.popupSync }

// SetProducer binds the producer rendering into v. A view closed before
// its producer is bound closes the producer immediately.
func (v *View) SetProducer(p Producer) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		p.Close()
		return
	}
	if v.producer == nil {
		v.producer = p
	}
	v.mu.Unlock()
}

func (v *View) safeProducer() Producer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.producer
}

func (v *View) attach(c *composition.Composition) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if c == nil {
		v.owner = weak.Pointer[composition.Composition]{}
		return
	}
	v.owner = weak.Make(c)
}

func (v *View) composition() *composition.Composition {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.owner.Value()
}

// RequestStats asks for Stats to be pushed to the producer every tick.
func (v *View) RequestStats() {
	v.statsRequested.Store(true)
}

// OnAcceleratedPaint reports a finished frame in the surface h. It blocks
// while the previous frame of the same kind has not been consumed.
func (v *View) OnAcceleratedPaint(kind surface.Kind, h surface.Handle, token surface.SyncToken) {
	if kind == surface.KindPopup {
		v.popupSync.Notify(h, token)
		return
	}

	v.viewSync.Notify(h, token)
	if v.viewSync.Closed() {
		return
	}
	v.countPaint()
}

func (v *View) countPaint() {
	v.mu.Lock()
	now := v.now()
	if v.fpsStart.IsZero() {
		v.fpsStart = now
	}
	v.frames++
	d := now.Sub(v.fpsStart)
	if d <= time.Second {
		v.mu.Unlock()
		return
	}
	fps := float64(v.frames) / d.Seconds()
	v.frames = 0
	v.fpsStart = now
	v.mu.Unlock()

	w, h := v.viewSync.Size()
	v.log().Info("web: paint rate", "width", w, "height", h, "fps", fps)
}

// OnPopupShow shows or hides the popup layer.
func (v *View) OnPopupShow(show bool) {
	v.log().Debug("web: popup", "show", show)
	v.post(func(c *composition.Composition) {
		v.dropPopup(c)
		if show {
			v.popup = newPopupLayer(v.dev, v.popupSync)
			c.AddLayer(v.popup)
		}
	})
}

// dropPopup removes the popup layer from c and closes it.
func (v *View) dropPopup(c *composition.Composition) {
	if v.popup == nil {
		return
	}
	if c != nil {
		c.RemoveLayer(v.popup)
	}
	v.popup.Close()
	v.popup = nil
}

// OnPopupSize places the popup at the pixel rectangle r of the
// composition.
func (v *View) OnPopupSize(r surface.Rect) {
	v.log().Debug("web: popup size", "x", r.X, "y", r.Y, "width", r.Width, "height", r.Height)
	v.post(func(c *composition.Composition) {
		if v.popup == nil || c.Width() <= 0 || c.Height() <= 0 {
			return
		}
		b := composition.NormalizeRect(r, c.Width(), c.Height())
		v.popup.Move(b.X, b.Y, b.Width, b.Height)
	})
}

// OnBeforePopup handles a page opening a new window of width x height
// pixels. The window becomes a new Layer centered on the composition.
// It reports false when the window is refused, in which case nothing of
// it is left running. Windows are refused when the view is detached or
// has no engine, when the engine cannot open them, and once the
// composition is closing.
func (v *View) OnBeforePopup(name, url string, width, height int) bool {
	c := v.composition()
	if c == nil || v.engine == nil {
		return false
	}
	if width <= 0 {
		width = DefaultPopupWidth
	}
	if height <= 0 {
		height = DefaultPopupHeight
	}

	o := v.opts
	o.id = ""
	o.wantInput = true
	o.viewSource = false
	l, err := openLayer(v.dev, v.engine, name, url, width, height, o)
	if err != nil {
		v.log().Warn("web: popup window refused", "url", url, "err", err)
		return false
	}

	accepted := c.Post(func(c *composition.Composition) {
		if v.isClosed() {
			l.Close()
			return
		}
		c.AddLayer(l)
		if c.Width() > 0 && c.Height() > 0 {
			b := composition.CenteredRect(width, height, c.Width(), c.Height())
			l.Move(b.X, b.Y, b.Width, b.Height)
		}
	})
	if !accepted {
		l.Close()
		v.log().Debug("web: popup window refused, composition closed", "url", url)
		return false
	}
	return true
}

// OnLoadEnd is called when the page finished loading. With source dumps
// on, source is written to the source directory.
func (v *View) OnLoadEnd(source string) {
	if !v.opts.viewSource || v.name == "" {
		return
	}
	path, err := dumpSource(v.opts.sourceDir, v.name, source)
	if err != nil {
		v.log().Warn("web: view source", "err", err)
		return
	}
	v.log().Info("web: page source saved", "path", path)
}

// resize forwards a size change to the producer. Repeated calls with the
// same size do nothing.
func (v *View) resize(width, height int) {
	v.mu.Lock()
	if width == v.width && height == v.height {
		v.mu.Unlock()
		return
	}
	v.width, v.height = width, height
	p := v.producer
	v.mu.Unlock()

	if p != nil {
		p.Resize(width, height)
		v.log().Debug("web: resize", "width", width, "height", height)
	}
}

func (v *View) tick(c *composition.Composition) {
	p := v.safeProducer()
	if p == nil {
		return
	}

	if v.statsRequested.Load() {
		payload, err := StatsOf(c).Encode()
		if err == nil {
			p.PushStats(payload)
		}
	}
	if v.opts.beginFrame {
		p.SendBeginFrame()
	}
}

// post runs f on the compositing goroutine of the owning composition.
func (v *View) post(f func(*composition.Composition)) {
	c := v.composition()
	if c == nil {
		return
	}
	c.Post(func(c *composition.Composition) {
		if !v.isClosed() {
			f(c)
		}
	})
}

func (v *View) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Close stops the producer and the synchronizers. Producers blocked in
// OnAcceleratedPaint return. Close is idempotent.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	p := v.producer
	v.producer = nil
	v.mu.Unlock()

	v.viewSync.Close()
	v.popupSync.Close()
	if p != nil {
		p.Close()
	}
	v.log().Debug("web: view closed")
}

func (v *View) log() *slog.Logger {
	l := mixer.Logger()
	if v.name != "" {
		l = l.With("view", v.name)
	}
	return l
}
