package simproducer

import (
	"fmt"
	"html"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mixer"
	"github.com/gogpu/mixer/composition"
	"github.com/gogpu/mixer/device/headless"
	"github.com/gogpu/mixer/surface"
	"github.com/gogpu/mixer/web"
)

// Token is the keyed-mutex key every simulated frame is released with.
const Token surface.SyncToken = 1

const format = gputypes.TextureFormatBGRA8Unorm

type click struct {
	button composition.MouseButton
	x, y   int
}

// Producer renders one simulated page.
type Producer struct {
	eng   *Engine
	view  *web.View
	url   string
	color [4]byte

	begin  chan struct{}
	clicks chan click
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once

	mu       sync.Mutex
	width    int
	height   int
	stats    web.Stats
	hasStats bool
	frames   int
	pointer  [2]int

	// Owned by the producer goroutine.
	surf      *headless.SharedSurface
	popup     *headless.SharedSurface
	popupOpen bool
	pixels    []byte
	stamp     uint64
}

var _ web.Producer = (*Producer)(nil)

func newProducer(e *Engine, v *web.View, rawURL string, width, height int) *Producer {
	return &Producer{
		eng:    e,
		view:   v,
		url:    rawURL,
		color:  colorOf(rawURL),
		begin:  make(chan struct{}, 1),
		clicks: make(chan click, 16),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		width:  width,
		height: height,
	}
}

// Resize makes the next frame width x height pixels.
func (p *Producer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.mu.Lock()
	p.width, p.height = width, height
	p.mu.Unlock()
}

// SendBeginFrame asks for one frame. Requests made while one is already
// queued are merged.
func (p *Producer) SendBeginFrame() {
	select {
	case p.begin <- struct{}{}:
	default:
	}
}

// PushStats stores the latest stats pushed to the page.
func (p *Producer) PushStats(payload []byte) {
	s, err := web.DecodeStats(payload)
	if err != nil {
		p.log().Warn("simproducer: bad stats payload", "err", err)
		return
	}
	p.mu.Lock()
	p.stats, p.hasStats = s, true
	p.mu.Unlock()
}

// MouseClick queues the click for the producer goroutine. Only releases
// act; clicks beyond the queue capacity are dropped.
func (p *Producer) MouseClick(button composition.MouseButton, up bool, x, y int) {
	if !up {
		return
	}
	select {
	case p.clicks <- click{button: button, x: x, y: y}:
	default:
	}
}

// MouseMove records the pointer position.
func (p *Producer) MouseMove(leave bool, x, y int) {
	if leave {
		return
	}
	p.mu.Lock()
	p.pointer = [2]int{x, y}
	p.mu.Unlock()
}

// Close stops the producer goroutine. It does not wait for it: a paint
// in progress returns once the view closes its synchronizers.
func (p *Producer) Close() {
	p.once.Do(func() { close(p.quit) })
}

// Done is closed when the producer goroutine has exited and released its
// surfaces.
func (p *Producer) Done() <-chan struct{} { return p.done }

// Stats returns the last stats pushed to the page.
func (p *Producer) Stats() (web.Stats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats, p.hasStats
}

// Frames returns the number of frames painted.
func (p *Producer) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Pointer returns the last pointer position inside the page.
func (p *Producer) Pointer() (x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pointer[0], p.pointer[1]
}

func (p *Producer) size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

func (p *Producer) run() {
	defer close(p.done)
	defer p.release()

	var tick <-chan time.Time
	if p.eng.opts.interval > 0 {
		t := time.NewTicker(p.eng.opts.interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-p.quit:
			return
		case c := <-p.clicks:
			p.handle(c)
		case <-p.begin:
			p.paint()
		case <-tick:
			p.paint()
		}
	}
}

func (p *Producer) handle(c click) {
	switch c.button {
	case composition.MouseRight:
		if p.popupOpen {
			p.popupOpen = false
			p.view.OnPopupShow(false)
			return
		}
		p.popupOpen = true
		w, h := p.eng.opts.popup[0], p.eng.opts.popup[1]
		p.view.OnPopupShow(true)
		p.view.OnPopupSize(surface.Rect{X: c.x, Y: c.y, Width: w, Height: h})
	case composition.MouseMiddle:
		if !p.view.OnBeforePopup("", p.url, 0, 0) {
			p.log().Debug("simproducer: window refused")
		}
	}
}

func (p *Producer) paint() {
	w, h := p.size()
	surf, err := p.ensure(p.surf, w, h)
	if err != nil {
		p.log().Warn("simproducer: cannot allocate surface", "width", w, "height", h, "err", err)
		return
	}
	p.surf = surf

	p.stamp++
	if err := surf.Write(p.stamp, p.fill(w, h)); err != nil {
		p.log().Warn("simproducer: write failed", "err", err)
		return
	}
	p.view.OnAcceleratedPaint(surface.KindView, surf.Handle(), Token)

	p.mu.Lock()
	p.frames++
	first := p.frames == 1
	p.mu.Unlock()
	if first {
		p.view.OnLoadEnd(p.source())
	}

	if p.popupOpen {
		p.paintPopup()
	}
}

func (p *Producer) paintPopup() {
	w, h := p.eng.opts.popup[0], p.eng.opts.popup[1]
	popup, err := p.ensure(p.popup, w, h)
	if err != nil {
		p.log().Warn("simproducer: cannot allocate popup", "err", err)
		return
	}
	p.popup = popup
	if err := popup.Write(p.stamp, nil); err != nil {
		return
	}
	p.view.OnAcceleratedPaint(surface.KindPopup, popup.Handle(), Token)
}

// ensure returns s if it is w x h, or a new surface replacing it.
func (p *Producer) ensure(s *headless.SharedSurface, w, h int) (*headless.SharedSurface, error) {
	if s != nil {
		if hd := s.Handle(); hd.Width == w && hd.Height == h {
			return s, nil
		}
		s.Destroy()
	}
	s, err := p.eng.dev.CreateSharedSurface(w, h, format)
	if err != nil {
		return nil, err
	}
	s.SetKey(Token)
	return s, nil
}

// fill returns a w x h frame of the page color, shaded by the frame stamp.
func (p *Producer) fill(w, h int) []byte {
	n := w * h * 4
	if cap(p.pixels) < n {
		p.pixels = make([]byte, n)
	}
	px := p.pixels[:n]

	c := p.color
	c[0] ^= byte(p.stamp)
	copy(px, c[:])
	for filled := 4; filled < n; filled *= 2 {
		copy(px[filled:], px[:filled])
	}
	return px
}

func (p *Producer) source() string {
	title := html.EscapeString(p.url)
	return fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>%s</title></head><body></body></html>\n", title)
}

func (p *Producer) release() {
	if p.surf != nil {
		p.surf.Destroy()
		p.surf = nil
	}
	if p.popup != nil {
		p.popup.Destroy()
		p.popup = nil
	}
}

func (p *Producer) log() *slog.Logger {
	return mixer.Logger().With("url", p.url)
}
