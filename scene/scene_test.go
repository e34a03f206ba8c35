package scene

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gogpu/mixer/composition"
	"github.com/gogpu/mixer/device/headless"
	"github.com/gogpu/mixer/web"
)

func TestParseJSON(t *testing.T) {
	s, err := Parse([]byte(`{
  "width": 800,
  "height": 600,
  "layers": [
    {"type": "web", "src": "https://example.com", "left": 0.5, "width": 0.5, "want_input": true},
    {"type": "image", "src": "overlay.png"}
  ]
}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Width != 800 || s.Height != 600 || len(s.Layers) != 2 {
		t.Fatalf("Parse() = %+v", s)
	}
	want := composition.Rect{X: 0.5, Y: 0, Width: 0.5, Height: 1}
	if got := s.Layers[0].Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
	if !s.Layers[0].WantInput {
		t.Error("want_input not parsed")
	}
	if got := s.Layers[1].Bounds(); got != (composition.Rect{Width: 1, Height: 1}) {
		t.Errorf("default Bounds() = %+v", got)
	}
}

func TestParseYAMLDefaults(t *testing.T) {
	s, err := Parse([]byte("layers:\n  - type: web\n    src: about:blank\n    top: 0.95\n    height: 0.05\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Width != DefaultWidth || s.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want defaults", s.Width, s.Height)
	}
	b := s.Layers[0].Bounds()
	if b.Y != 0.95 || b.Height != 0.05 || b.Width != 1 {
		t.Errorf("Bounds() = %+v", b)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("layers: [{src: x}]")); !errors.Is(err, ErrNoLayerType) {
		t.Errorf("missing type error = %v, want ErrNoLayerType", err)
	}
	if _, err := Parse([]byte("width: [")); err == nil {
		t.Error("Parse() accepted malformed input")
	}
}

func TestLoadAndMarshal(t *testing.T) {
	s := Grid(GridOptions{Columns: 2, Rows: 1, Overlay: "overlay.png"})
	data, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Layers) != 3 || got.Layers[1].Bounds() != s.Layers[1].Bounds() {
		t.Errorf("Load() = %+v", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestGrid(t *testing.T) {
	s := Grid(GridOptions{Columns: 2, Rows: 2, URL: "https://example.com", HUD: "file:///hud.html", ViewSource: true})

	if len(s.Layers) != 5 {
		t.Fatalf("layers = %d, want 5", len(s.Layers))
	}
	wantCells := []composition.Rect{
		{X: 0, Y: 0, Width: 0.5, Height: 0.5},
		{X: 0, Y: 0.5, Width: 0.5, Height: 0.5},
		{X: 0.5, Y: 0, Width: 0.5, Height: 0.5},
		{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5},
	}
	for i, want := range wantCells {
		l := s.Layers[i]
		if l.Bounds() != want || l.Type != TypeWeb || !l.WantInput || !l.ViewSource {
			t.Errorf("cell %d = %+v bounds %+v", i, l, l.Bounds())
		}
	}
	hud := s.Layers[4]
	if hud.ID != "hud" || hud.WantInput || hud.Bounds().Y != 0.95 {
		t.Errorf("hud = %+v", hud)
	}

	empty := Grid(GridOptions{})
	if len(empty.Layers) != 0 || empty.Width != DefaultWidth {
		t.Errorf("Grid() without cells = %+v", empty)
	}
}

func TestParseGrid(t *testing.T) {
	tests := []struct {
		in         string
		cols, rows int
		wantErr    bool
	}{
		{"2x3", 2, 3, false},
		{"4", 4, 4, false},
		{"0x0", 0, 0, false},
		{"ax2", 0, 0, true},
		{"-1", 0, 0, true},
	}
	for _, tt := range tests {
		c, r, err := ParseGrid(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGrid(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if c != tt.cols || r != tt.rows {
			t.Errorf("ParseGrid(%q) = %d, %d, want %d, %d", tt.in, c, r, tt.cols, tt.rows)
		}
	}
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeImageFormats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("DecodeImage(bmp) error = %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(2, 1); got != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("pixel = %v", got)
	}

	if _, err := DecodeImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("DecodeImage() accepted garbage")
	}
}

func TestFitTexture(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{100, 50, 100, 50},
		{16384, 4096, 8192, 2048},
		{1000, 16384, 500, 8192},
		{100000, 1, 8192, 1},
	}
	for _, tt := range tests {
		if w, h := fitTexture(tt.w, tt.h); w != tt.wantW || h != tt.wantH {
			t.Errorf("fitTexture(%d, %d) = %d, %d, want %d, %d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestImageCache(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "a.png", 4, 4)

	c := NewImageCache(1)
	first, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if first != second {
		t.Error("second Load() decoded again")
	}
	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Entries != 1 || st.Size != 64 {
		t.Errorf("Stats() = %+v", st)
	}

	if _, err := c.Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestImageCacheEvicts(t *testing.T) {
	dir := t.TempDir()
	// 512x512 RGBA is exactly 1 MB.
	a := writePNG(t, dir, "a.png", 512, 512)
	b := writePNG(t, dir, "b.png", 512, 512)

	c := NewImageCache(1)
	if _, err := c.Load(a); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(b); err != nil {
		t.Fatal(err)
	}
	st := c.Stats()
	if st.Entries != 1 || st.Evictions != 1 {
		t.Errorf("Stats() = %+v, want one entry after one eviction", st)
	}
}

// stubEngine opens producers that do nothing.
type stubEngine struct{ urls []string }

type stubProducer struct{}

func (stubProducer) Resize(int, int)                                   {}
func (stubProducer) SendBeginFrame()                                   {}
func (stubProducer) PushStats([]byte)                                  {}
func (stubProducer) MouseClick(composition.MouseButton, bool, int, int) {}
func (stubProducer) MouseMove(bool, int, int)                          {}
func (stubProducer) Close()                                            {}

func (e *stubEngine) Open(_ *web.View, url string) (web.Producer, error) {
	e.urls = append(e.urls, url)
	return stubProducer{}, nil
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "overlay.png", 8, 8)

	s := Grid(GridOptions{Width: 800, Height: 600, Columns: 2, Rows: 1, URL: "https://example.com", Overlay: "overlay.png"})
	s.Layers = append(s.Layers, Layer{Type: "video", Src: "cam0"})

	engine := &stubEngine{}
	env := Env{Device: headless.NewDevice(), Engine: engine, BaseDir: dir, Images: NewImageCache(0)}
	c, err := Build(s, env)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer c.Close()

	layers := c.Layers()
	if len(layers) != 3 {
		t.Fatalf("layers = %d, want 3 (unknown type skipped)", len(layers))
	}
	if layers[0].ID() != "cell-0-0" || layers[2].ID() != "overlay" {
		t.Errorf("layer IDs = %s, %s", layers[0].ID(), layers[2].ID())
	}
	if got := layers[1].Bounds(); got != (composition.Rect{X: 0.5, Width: 0.5, Height: 1}) {
		t.Errorf("second cell bounds = %+v", got)
	}
	wl := layers[0].(*web.Layer)
	if w, h := wl.View().Size(); w != 400 || h != 600 {
		t.Errorf("cell view size = %dx%d, want 400x600", w, h)
	}
	if len(engine.urls) != 2 {
		t.Errorf("engine opened %d pages, want 2", len(engine.urls))
	}
}

func TestBuildFailsWithoutLayers(t *testing.T) {
	s := &Scene{Width: 10, Height: 10, Layers: []Layer{{Type: TypeImage, Src: "missing.png"}}}
	if _, err := Build(s, Env{Device: headless.NewDevice(), BaseDir: t.TempDir()}); err == nil {
		t.Error("Build() succeeded although no layer could be created")
	}

	c, err := Build(&Scene{Width: 10, Height: 10}, Env{Device: headless.NewDevice()})
	if err != nil || len(c.Layers()) != 0 {
		t.Errorf("Build(empty) = %v, %v", c, err)
	}
}

func TestRegister(t *testing.T) {
	Register("solid", func(env Env, l Layer, w, h int) (composition.Layer, error) {
		return composition.NewImageLayer(env.Device, nil, composition.WithID("solid")), nil
	})
	defer Unregister("solid")

	found := false
	for _, k := range Types() {
		found = found || k == "solid"
	}
	if !found {
		t.Fatalf("Types() = %v, missing solid", Types())
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("solid", newImageLayer)
}
