package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultURL is the page shown when none is given.
const DefaultURL = "https://webglsamples.org/aquarium/aquarium.html"

// GridOptions configures the generated default scene.
type GridOptions struct {
	// Width and Height are the canvas size. Zero selects the default.
	Width, Height int

	// URL is loaded in every grid cell. Empty selects DefaultURL.
	URL string

	// Columns and Rows of web layers. A zero value creates no grid.
	Columns, Rows int

	// ViewSource dumps the source of every page.
	ViewSource bool

	// Overlay is an image drawn over the grid, if not empty.
	Overlay string

	// HUD is a page drawn as a strip along the bottom edge, if not empty.
	HUD string
}

// Grid generates a scene with Columns x Rows web layers, an optional
// image overlay and an optional HUD strip.
func Grid(o GridOptions) *Scene {
	s := &Scene{Width: o.Width, Height: o.Height}
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	url := o.URL
	if url == "" {
		url = DefaultURL
	}

	if o.Columns > 0 && o.Rows > 0 {
		cx := 1 / float32(o.Columns)
		cy := 1 / float32(o.Rows)
		for x := 0; x < o.Columns; x++ {
			for y := 0; y < o.Rows; y++ {
				s.Layers = append(s.Layers, Layer{
					ID:         fmt.Sprintf("cell-%d-%d", x, y),
					Type:       TypeWeb,
					Src:        url,
					Left:       ptr(float32(x) * cx),
					Top:        ptr(float32(y) * cy),
					Width:      ptr(cx),
					Height:     ptr(cy),
					WantInput:  true,
					ViewSource: o.ViewSource,
				})
			}
		}
	}

	if o.Overlay != "" {
		s.Layers = append(s.Layers, Layer{ID: "overlay", Type: TypeImage, Src: o.Overlay})
	}
	if o.HUD != "" {
		s.Layers = append(s.Layers, Layer{
			ID:         "hud",
			Type:       TypeWeb,
			Src:        o.HUD,
			Top:        ptr(float32(0.95)),
			Height:     ptr(float32(0.05)),
			ViewSource: o.ViewSource,
		})
	}
	return s
}

// ParseGrid parses a grid size such as "2x3" (columns x rows) or "2"
// (2 x 2).
func ParseGrid(v string) (columns, rows int, err error) {
	if c, r, ok := strings.Cut(v, "x"); ok {
		columns, err = strconv.Atoi(c)
		if err == nil {
			rows, err = strconv.Atoi(r)
		}
	} else {
		columns, err = strconv.Atoi(v)
		rows = columns
	}
	if err != nil {
		return 0, 0, fmt.Errorf("scene: grid %q: %w", v, err)
	}
	if columns < 0 || rows < 0 {
		return 0, 0, fmt.Errorf("scene: grid %q: negative size", v)
	}
	return columns, rows, nil
}

func ptr[T any](v T) *T { return &v }
