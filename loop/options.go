package loop

import "time"

type options struct {
	vsync      bool
	frameLimit time.Duration
	maxFrames  int
	clear      [4]float32
}

func defaultOptions() options {
	return options{clear: [4]float32{0, 0, 1, 1}}
}

// Option configures a Loop.
type Option func(*options)

// WithVsync presents frames on vertical blank.
func WithVsync(enabled bool) Option {
	return func(o *options) { o.vsync = enabled }
}

// WithFrameLimit caps the loop at fps frames per second. Zero or a
// negative value leaves the loop uncapped.
func WithFrameLimit(fps float64) Option {
	return func(o *options) {
		if fps <= 0 {
			o.frameLimit = 0
			return
		}
		o.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithMaxFrames stops Run after n frames. Zero runs until Quit.
func WithMaxFrames(n int) Option {
	return func(o *options) { o.maxFrames = n }
}

// WithClearColor sets the color the target is cleared to each frame.
func WithClearColor(r, g, b, a float32) Option {
	return func(o *options) { o.clear = [4]float32{r, g, b, a} }
}
