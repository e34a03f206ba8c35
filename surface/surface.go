package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// ErrInvalidHandle is returned when a handle has a zero ID or an empty size.
var ErrInvalidHandle = errors.New("surface: invalid handle")

// ID identifies a shared surface. Zero is never a valid ID.
type ID uint64

// SyncToken is the keyed-mutex key that accompanies a shared surface.
// The producer releases the surface with this key once the frame is
// written; the consumer acquires it with the same key before reading.
type SyncToken uint64

// Handle is an opaque cross-boundary identifier for a GPU texture plus its
// metadata.
//
// Handles are plain values and are safe to copy between goroutines.
type Handle struct {
	// ID is the opaque share identifier. A different ID means the
	// underlying texture was recreated.
	ID ID

	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// Format is the pixel format of the surface.
	Format gputypes.TextureFormat
}

// Validate reports whether h can be opened.
func (h Handle) Validate() error {
	if h.ID == 0 {
		return fmt.Errorf("%w: zero id", ErrInvalidHandle)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidHandle, h.Width, h.Height)
	}
	return nil
}

// SameSurface reports whether h and other identify the same underlying
// texture.
func (h Handle) SameSurface(other Handle) bool {
	return h.ID == other.ID
}

// String returns a compact description for logs.
func (h Handle) String() string {
	return fmt.Sprintf("surface#%d(%dx%d)", h.ID, h.Width, h.Height)
}

// BytesPerPixel returns the storage size of one pixel in format f.
// Unknown formats report 4, the size of every format producers emit today.
func BytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	default:
		return 4
	}
}
