// Package loop drives a composition: tick, render and present, once per
// frame, on the goroutine that owns the device context.
package loop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/mixer"
	"github.com/gogpu/mixer/composition"
	"github.com/gogpu/mixer/device"
)

// Loop is the render loop of one composition.
type Loop struct {
	comp   *composition.Composition
	ctx    device.Context
	target device.Target
	opts   options

	quit     chan struct{}
	quitOnce sync.Once

	resizeMu sync.Mutex
	resize   *[2]int

	frames int
}

// New creates a loop rendering comp onto target with ctx.
func New(comp *composition.Composition, ctx device.Context, target device.Target, opts ...Option) *Loop {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	comp.Resize(o.vsync, comp.Width(), comp.Height())
	return &Loop{
		comp:   comp,
		ctx:    ctx,
		target: target,
		opts:   o,
		quit:   make(chan struct{}),
	}
}

// RequestResize asks for the composition and the target to be resized
// before the next frame. A zero size, as reported for a minimized window,
// keeps the request pending until a real size arrives. RequestResize is
// safe for concurrent use.
func (l *Loop) RequestResize(width, height int) {
	l.resizeMu.Lock()
	defer l.resizeMu.Unlock()
	l.resize = &[2]int{width, height}
}

func (l *Loop) takeResize() (width, height int, ok bool) {
	l.resizeMu.Lock()
	defer l.resizeMu.Unlock()
	if l.resize == nil || l.resize[0] <= 0 || l.resize[1] <= 0 {
		return 0, 0, false
	}
	width, height = l.resize[0], l.resize[1]
	l.resize = nil
	return width, height, true
}

// Quit stops Run. Safe to call multiple times and from any goroutine.
func (l *Loop) Quit() {
	l.quitOnce.Do(func() { close(l.quit) })
}

// Frames returns the number of frames presented.
func (l *Loop) Frames() int { return l.frames }

func (l *Loop) syncInterval() int {
	if l.opts.vsync {
		return 1
	}
	return 0
}

// Step renders one frame at time t, in seconds since start.
func (l *Loop) Step(t float64) error {
	l.comp.Tick(t)
	l.target.Bind(l.ctx)

	if w, h, ok := l.takeResize(); ok {
		l.comp.Resize(l.opts.vsync, w, h)
		if err := l.target.Resize(w, h); err != nil {
			return fmt.Errorf("loop: resize to %dx%d: %w", w, h, err)
		}
		mixer.Logger().Debug("loop: resized", "width", w, "height", h)
	}

	c := l.opts.clear
	l.target.Clear(c[0], c[1], c[2], c[3])
	l.comp.Render(l.ctx)
	if err := l.target.Present(l.syncInterval()); err != nil {
		return fmt.Errorf("loop: present: %w", err)
	}
	l.frames++
	return nil
}

// Run renders frames until Quit is called, ctx is done, the frame limit
// set by WithMaxFrames is reached or a frame fails. A panic in a layer
// stops the loop and is returned as an error.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loop: recovered from panic: %v", r)
			l.Quit()
		}
	}()

	log := mixer.Logger()
	log.Info("loop: started", "width", l.comp.Width(), "height", l.comp.Height(),
		"vsync", l.opts.vsync, "frame_limit", l.opts.frameLimit)

	start := time.Now()
	for {
		select {
		case <-l.quit:
			log.Info("loop: quit", "frames", l.frames)
			return nil
		case <-ctx.Done():
			log.Info("loop: cancelled", "frames", l.frames)
			return ctx.Err()
		default:
		}

		frameStart := time.Now()
		if err := l.Step(frameStart.Sub(start).Seconds()); err != nil {
			return err
		}
		if l.opts.maxFrames > 0 && l.frames >= l.opts.maxFrames {
			log.Info("loop: frame limit reached", "frames", l.frames)
			return nil
		}

		if l.opts.frameLimit > 0 {
			if remaining := l.opts.frameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}
