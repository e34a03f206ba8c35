package device

import (
	"errors"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/mixer/surface"
)

// Common errors returned by device implementations.
var (
	// ErrDeviceLost is returned when the underlying device is gone.
	ErrDeviceLost = errors.New("device: device lost")

	// ErrSurfaceNotFound is returned when a shared surface handle cannot
	// be resolved on this device.
	ErrSurfaceNotFound = errors.New("device: shared surface not found")

	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("device: texture destroyed")

	// ErrSizeMismatch is returned when a copy source and destination differ
	// in size or format.
	ErrSizeMismatch = errors.New("device: texture size mismatch")

	// ErrInvalidDimensions is returned when a texture size is not positive.
	ErrInvalidDimensions = errors.New("device: invalid dimensions")
)

// Host is the GPU provider supplied by the host application.
// It is the gpucontext ecosystem interface; backends that accept a Host
// share its device and adopt its surface format.
type Host = gpucontext.DeviceProvider

// TextureUsage is the default usage for private textures: they receive
// copies and are sampled by the quad effect.
const TextureUsage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc | gputypes.TextureUsageTextureBinding

// TextureDescriptor describes a private texture.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the texture size in pixels.
	Width  int
	Height int

	// Format is the pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used. Zero means TextureUsage.
	Usage gputypes.TextureUsage
}

// Texture is a GPU texture resource.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// Destroy releases the GPU resources. Destroy is idempotent.
	Destroy()
}

// Geometry is a vertex buffer holding one quad.
type Geometry interface {
	Destroy()
}

// Effect is a shader program together with its sampler and blend state.
type Effect interface {
	Destroy()
}

// Device creates GPU resources. Implementations must allow resource
// creation from any goroutine, because shared surfaces are opened on the
// producer goroutine.
type Device interface {
	// OpenSharedSurface opens the texture named by h on this device.
	OpenSharedSurface(h surface.Handle) (Texture, error)

	// CreateTexture creates a private texture. If pixels is non-nil it is
	// the initial content, tightly packed rows of desc.Width pixels.
	CreateTexture(desc TextureDescriptor, pixels []byte) (Texture, error)

	// CreateQuad builds vertex geometry for q.
	CreateQuad(q Quad) (Geometry, error)

	// CreateEffect builds a shader effect from compiled shader code.
	CreateEffect(desc EffectDescriptor) (Effect, error)
}

// Context is the immediate context of the compositing goroutine.
// A Context is NOT safe for concurrent use.
type Context interface {
	// Copy copies the full content of src into dst. Both textures must
	// have the same size and format.
	Copy(dst, src Texture) error

	// AcquireLock takes the keyed mutex of a shared texture, waiting at
	// most timeout. It returns false when the lock could not be taken.
	// Textures without a keyed mutex always succeed.
	AcquireLock(tex Texture, token surface.SyncToken, timeout time.Duration) bool

	// ReleaseLock releases a keyed mutex taken with AcquireLock.
	ReleaseLock(tex Texture, token surface.SyncToken)

	// Draw binds geometry, effect and texture, draws the quad and unbinds.
	Draw(geometry Geometry, effect Effect, tex Texture) error
}

// Target is a render target the composition is drawn onto, usually the
// back buffer of the host's swapchain.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Bind makes the target the output of ctx.
	Bind(ctx Context)

	// Clear fills the target with an RGBA color.
	Clear(r, g, b, a float32)

	// Present shows the frame. syncInterval 0 presents immediately,
	// 1 waits for vertical blank.
	Present(syncInterval int) error

	// Resize changes the target size.
	Resize(width, height int) error
}
