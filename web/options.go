package web

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/mixer/framesync"
)

// Default size of windows opened by a page without explicit features.
const (
	DefaultPopupWidth  = 400
	DefaultPopupHeight = 300
)

type options struct {
	id          string
	wantInput   bool
	flip        bool
	beginFrame  bool
	viewSource  bool
	sourceDir   string
	lockTimeout time.Duration
}

func defaultOptions() options {
	return options{
		beginFrame:  true,
		sourceDir:   filepath.Join(os.TempDir(), "mixer"),
		lockTimeout: framesync.DefaultLockTimeout,
	}
}

// Option configures a web layer and its view.
type Option func(*options)

// WithID sets the layer ID.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithInput makes the layer receive mouse events.
func WithInput(want bool) Option {
	return func(o *options) { o.wantInput = want }
}

// WithFlip samples the page texture upside down.
func WithFlip(flip bool) Option {
	return func(o *options) { o.flip = flip }
}

// WithBeginFrame drives the engine with one begin-frame request per
// compositing tick. It is on by default.
func WithBeginFrame(enabled bool) Option {
	return func(o *options) { o.beginFrame = enabled }
}

// WithViewSource dumps the page source to a file when a load completes.
func WithViewSource(enabled bool) Option {
	return func(o *options) { o.viewSource = enabled }
}

// WithSourceDir sets the directory page sources are dumped to.
func WithSourceDir(dir string) Option {
	return func(o *options) { o.sourceDir = dir }
}

// WithLockTimeout sets the keyed mutex timeout of the view's
// synchronizers.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) { o.lockTimeout = d }
}
