package web

import "github.com/gogpu/mixer/composition"

// Producer is a running engine instance rendering one page.
//
// Producer methods are called from the compositing goroutine and must not
// block on it.
type Producer interface {
	// Resize asks the producer to render at width x height pixels.
	Resize(width, height int)

	// SendBeginFrame asks the producer to render one frame.
	SendBeginFrame()

	// PushStats delivers a msgpack encoded Stats value to the page.
	PushStats(payload []byte)

	// MouseClick forwards a click at page pixel coordinates.
	MouseClick(button composition.MouseButton, up bool, x, y int)

	// MouseMove forwards pointer motion at page pixel coordinates.
	MouseMove(leave bool, x, y int)

	// Close stops the producer. Close is idempotent.
	Close()
}

// Engine starts producers.
type Engine interface {
	// Open starts rendering url into surfaces reported to v.
	Open(v *View, url string) (Producer, error)
}
