package composition

import "github.com/gogpu/mixer/surface"

// Rect is a rectangle in normalized canvas space.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Contains reports whether the normalized point (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Pixels converts r to pixels of a width x height canvas.
func (r Rect) Pixels(width, height int) surface.Rect {
	return surface.Rect{
		X:      int(r.X * float32(width)),
		Y:      int(r.Y * float32(height)),
		Width:  int(r.Width * float32(width)),
		Height: int(r.Height * float32(height)),
	}
}

// NormalizeRect converts a pixel rectangle of a width x height canvas to
// normalized space. An empty canvas yields the zero Rect.
func NormalizeRect(px surface.Rect, width, height int) Rect {
	if width <= 0 || height <= 0 {
		return Rect{}
	}
	w, h := float32(width), float32(height)
	return Rect{
		X:      float32(px.X) / w,
		Y:      float32(px.Y) / h,
		Width:  float32(px.Width) / w,
		Height: float32(px.Height) / h,
	}
}

// CenteredRect returns the normalized rectangle of a w x h pixel window
// centered on a width x height canvas. The window is clamped to the canvas.
func CenteredRect(w, h, width, height int) Rect {
	w = min(w, width)
	h = min(h, height)
	return NormalizeRect(surface.Rect{
		X:      (width - w) / 2,
		Y:      (height - h) / 2,
		Width:  w,
		Height: h,
	}, width, height)
}
