package surface

// Kind distinguishes the surfaces a single producer can emit.
type Kind uint8

const (
	// KindView is the producer's main surface.
	KindView Kind = iota

	// KindPopup is a transient secondary surface, such as an open
	// drop-down list, drawn over the view.
	KindPopup
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindView:
		return "view"
	case KindPopup:
		return "popup"
	default:
		return "unknown"
	}
}

// Rect is a rectangle in producer pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the pixel (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
