// Command mixer composites simulated web pages and images on a headless
// device and reports the frame rate.
//
// Usage:
//
//	mixer [flags] [url]
//
// Without --scene, a grid of pages showing url is generated.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gogpu/mixer"
	"github.com/gogpu/mixer/device"
	"github.com/gogpu/mixer/device/headless"
	"github.com/gogpu/mixer/internal/simproducer"
	"github.com/gogpu/mixer/loop"
	"github.com/gogpu/mixer/scene"
	"github.com/gogpu/mixer/web"
)

type config struct {
	width, height int
	grid          string
	viewSource    bool
	scenePath     string
	overlay       string
	hud           string
	frames        int
	fps           float64
	vsync         bool
	backend       string
	sourceDir     string
	url           string
}

func main() {
	var cfg config
	flag.IntVar(&cfg.width, "width", scene.DefaultWidth, "composition width")
	flag.IntVar(&cfg.height, "height", scene.DefaultHeight, "composition height")
	flag.StringVar(&cfg.grid, "grid", "2x2", "grid of pages, columns x rows")
	flag.BoolVar(&cfg.viewSource, "view-source", false, "save the source of every page")
	flag.StringVar(&cfg.scenePath, "scene", "", "scene file (YAML or JSON) replacing the grid")
	flag.StringVar(&cfg.overlay, "overlay", "", "image drawn over the grid")
	flag.StringVar(&cfg.hud, "hud", "sim://hud?stats", "page drawn as a strip along the bottom, empty for none")
	flag.IntVar(&cfg.frames, "frames", 600, "frames to render, 0 runs until interrupted")
	flag.Float64Var(&cfg.fps, "fps", 60, "frame rate limit, 0 for none")
	flag.BoolVar(&cfg.vsync, "vsync", false, "present on vertical blank")
	flag.StringVar(&cfg.sourceDir, "source-dir", filepath.Join(os.TempDir(), "mixer"), "directory for saved page sources")
	flag.StringVar(&cfg.backend, "backend", "", "device backend, empty selects the best available")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()
	cfg.url = flag.Arg(0)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "mixer",
	})
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("invalid log level", "level", *logLevel, "err", err)
	}
	logger.SetLevel(level)
	mixer.SetLogger(slog.New(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("mixer failed", "err", err)
	}
}

func run(ctx context.Context, cfg config) error {
	s, baseDir, err := loadScene(cfg)
	if err != nil {
		return err
	}

	b, err := device.Open(cfg.backend, device.Options{Width: s.Width, Height: s.Height})
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	defer b.Close()

	dev, ok := b.Device().(*headless.Device)
	if !ok {
		return fmt.Errorf("backend %q: the simulated engine needs a %s device", cfg.backend, headless.Name)
	}

	images := scene.NewImageCache(64)
	comp, err := scene.Build(s, scene.Env{
		Device:     dev,
		Engine:     simproducer.New(dev),
		BaseDir:    baseDir,
		Images:     images,
		WebOptions: []web.Option{web.WithSourceDir(cfg.sourceDir)},
	})
	if err != nil {
		return err
	}
	defer comp.Close()

	l := loop.New(comp, b.Context(), b.Target(),
		loop.WithVsync(cfg.vsync),
		loop.WithFrameLimit(cfg.fps),
		loop.WithMaxFrames(cfg.frames),
	)
	start := time.Now()
	err = l.Run(ctx)

	elapsed := time.Since(start)
	mixer.Logger().Info("done",
		"frames", l.Frames(),
		"elapsed", elapsed.Round(time.Millisecond),
		"fps", float64(l.Frames())/elapsed.Seconds(),
		"layers", len(comp.Layers()),
		"image_cache", images.Stats().Entries,
	)
	return err
}

func loadScene(cfg config) (*scene.Scene, string, error) {
	if cfg.scenePath != "" {
		s, err := scene.Load(cfg.scenePath)
		if err != nil {
			return nil, "", err
		}
		return s, filepath.Dir(cfg.scenePath), nil
	}

	columns, rows, err := scene.ParseGrid(cfg.grid)
	if err != nil {
		return nil, "", err
	}
	return scene.Grid(scene.GridOptions{
		Width:      cfg.width,
		Height:     cfg.height,
		URL:        cfg.url,
		Columns:    columns,
		Rows:       rows,
		ViewSource: cfg.viewSource,
		Overlay:    cfg.overlay,
		HUD:        cfg.hud,
	}), "", nil
}
