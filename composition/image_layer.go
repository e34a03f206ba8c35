package composition

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mixer/device"
)

// ImageLayer draws a static texture.
type ImageLayer struct {
	Base
	tex device.Texture
}

// NewImageLayer creates a layer drawing tex. The layer owns tex and
// destroys it on Close.
func NewImageLayer(dev device.Device, tex device.Texture, opts ...BaseOption) *ImageLayer {
	return &ImageLayer{Base: NewBase(dev, opts...), tex: tex}
}

// NewImageLayerFromRGBA uploads img and creates a layer drawing it.
func NewImageLayerFromRGBA(dev device.Device, img *image.RGBA, opts ...BaseOption) (*ImageLayer, error) {
	b := img.Bounds()
	pixels := img.Pix
	if img.Stride != 4*b.Dx() {
		pixels = make([]byte, 0, 4*b.Dx()*b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := img.PixOffset(b.Min.X, y)
			pixels = append(pixels, img.Pix[off:off+4*b.Dx()]...)
		}
	}

	tex, err := dev.CreateTexture(device.TextureDescriptor{
		Label:  "image",
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}, pixels)
	if err != nil {
		return nil, fmt.Errorf("composition: image texture: %w", err)
	}
	return NewImageLayer(dev, tex, opts...), nil
}

// Texture returns the drawn texture.
func (l *ImageLayer) Texture() device.Texture { return l.tex }

// Render draws the image.
func (l *ImageLayer) Render(ctx device.Context) {
	l.RenderTexture(ctx, l.tex)
}

// Close releases the layer and its texture.
func (l *ImageLayer) Close() {
	if l.Closed() {
		return
	}
	l.Base.Close()
	if l.tex != nil {
		l.tex.Destroy()
	}
}
