package simproducer

import "time"

type options struct {
	interval time.Duration
	popup    [2]int
}

// Option configures an Engine.
type Option func(*options)

// WithFrameRate makes producers render fps frames per second on their own,
// in addition to frames requested with SendBeginFrame. Zero, the default,
// renders only on request.
func WithFrameRate(fps float64) Option {
	return func(o *options) {
		if fps <= 0 {
			o.interval = 0
			return
		}
		o.interval = time.Duration(float64(time.Second) / fps)
	}
}

// WithPopupSize sets the size of the popup a right click opens.
func WithPopupSize(width, height int) Option {
	return func(o *options) { o.popup = [2]int{width, height} }
}
