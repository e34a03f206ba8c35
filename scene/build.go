package scene

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/mixer"
	"github.com/gogpu/mixer/composition"
	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/web"
)

// Built-in layer types.
const (
	TypeWeb   = "web"
	TypeImage = "image"
)

// Env is what factories need to create layers.
type Env struct {
	// Device creates layer resources.
	Device device.Device

	// Engine opens pages for web layers.
	Engine web.Engine

	// BaseDir resolves relative image paths.
	BaseDir string

	// Images caches decoded images. Nil disables caching.
	Images *ImageCache

	// WebOptions are applied to every web layer.
	WebOptions []web.Option
}

// Path resolves src against BaseDir.
func (e Env) Path(src string) string {
	if filepath.IsAbs(src) || e.BaseDir == "" {
		return src
	}
	return filepath.Join(e.BaseDir, src)
}

// Factory creates the layer described by l on a canvas of
// width x height pixels. The caller moves the layer to l.Bounds().
type Factory func(env Env, l Layer, width, height int) (composition.Layer, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a layer type available to Build. It panics if f is nil
// or the type is already registered.
func Register(kind string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	if f == nil {
		panic("scene: Register factory is nil")
	}
	if _, dup := factories[kind]; dup {
		panic("scene: Register called twice for " + kind)
	}
	factories[kind] = f
}

// Unregister removes a layer type.
func Unregister(kind string) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	delete(factories, kind)
}

// Types returns the registered layer types in sorted order.
func Types() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func lookup(kind string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[kind]
	return f, ok
}

// Build creates the composition described by s. Layers that cannot be
// created are logged and left out; Build fails only when no layer at all
// could be created from a non-empty scene.
func Build(s *Scene, env Env) (*composition.Composition, error) {
	c := composition.New(env.Device, s.Width, s.Height)

	var failures []string
	for i, l := range s.Layers {
		f, ok := lookup(l.Type)
		if !ok {
			failures = append(failures, fmt.Sprintf("layer %d: unknown type %q", i, l.Type))
			mixer.Logger().Warn("scene: unknown layer type", "index", i, "type", l.Type)
			continue
		}
		layer, err := f(env, l, s.Width, s.Height)
		if err != nil {
			failures = append(failures, fmt.Sprintf("layer %d: %v", i, err))
			mixer.Logger().Warn("scene: layer skipped", "index", i, "type", l.Type, "src", l.Src, "err", err)
			continue
		}
		b := l.Bounds()
		layer.Move(b.X, b.Y, b.Width, b.Height)
		c.AddLayer(layer)
	}

	if len(s.Layers) > 0 && len(c.Layers()) == 0 {
		c.Close()
		return nil, fmt.Errorf("scene: no layer could be created: %s", strings.Join(failures, "; "))
	}
	return c, nil
}

func newWebLayer(env Env, l Layer, width, height int) (composition.Layer, error) {
	b := l.Bounds()
	opts := append([]web.Option{
		web.WithInput(l.WantInput),
		web.WithViewSource(l.ViewSource),
	}, env.WebOptions...)
	if l.ID != "" {
		opts = append(opts, web.WithID(l.ID))
	}
	px := b.Pixels(width, height)
	return web.NewLayer(env.Device, env.Engine, l.Src, px.Width, px.Height, opts...)
}

func newImageLayer(env Env, l Layer, _, _ int) (composition.Layer, error) {
	path := env.Path(l.Src)
	load := LoadImage
	if env.Images != nil {
		load = env.Images.Load
	}
	img, err := load(path)
	if err != nil {
		return nil, err
	}

	opts := []composition.BaseOption{composition.WithInput(l.WantInput)}
	if l.ID != "" {
		opts = append(opts, composition.WithID(l.ID))
	}
	return composition.NewImageLayerFromRGBA(env.Device, img, opts...)
}

func init() {
	Register(TypeWeb, newWebLayer)
	Register(TypeImage, newImageLayer)
}
