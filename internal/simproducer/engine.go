// Package simproducer is a stand-in web engine. Its producers render
// solid-color frames into headless shared surfaces on their own
// goroutine and report them like a real browser would.
//
// Input drives the optional surfaces: a right click toggles a popup at
// the pointer, a middle click asks for a new window. A page whose URL
// carries a "stats" query parameter requests composition stats.
package simproducer

import (
	"fmt"
	"hash/fnv"
	"net/url"

	"github.com/gogpu/mixer/device/headless"
	"github.com/gogpu/mixer/web"
)

// Engine opens simulated producers on a headless device.
type Engine struct {
	dev  *headless.Device
	opts options
}

var _ web.Engine = (*Engine)(nil)

// New returns an engine whose producers allocate surfaces on dev.
func New(dev *headless.Device, opts ...Option) *Engine {
	o := options{popup: [2]int{200, 150}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{dev: dev, opts: o}
}

// Open starts a producer for rawURL reporting to v.
func (e *Engine) Open(v *web.View, rawURL string) (web.Producer, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("simproducer: %w", err)
	}
	w, h := v.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("simproducer: open %q at %dx%d: invalid size", rawURL, w, h)
	}
	if u.Query().Has("stats") {
		v.RequestStats()
	}

	p := newProducer(e, v, rawURL, w, h)
	go p.run()
	return p, nil
}

// colorOf derives a stable BGRA color from a URL.
func colorOf(rawURL string) [4]byte {
	f := fnv.New32a()
	_, _ = f.Write([]byte(rawURL))
	s := f.Sum32()
	return [4]byte{byte(s), byte(s >> 8), byte(s >> 16), 0xff}
}
