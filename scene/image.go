package scene

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxTextureSize is the largest texture edge an image is uploaded at.
// Larger images are scaled down, keeping their aspect ratio.
const MaxTextureSize = 8192

// DecodeImage decodes a PNG, JPEG, GIF, BMP or WebP image into RGBA.
func DecodeImage(r io.Reader) (*image.RGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("scene: decode image: %w", err)
	}

	b := src.Bounds()
	w, h := fitTexture(b.Dx(), b.Dy())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	return dst, nil
}

// LoadImage reads and decodes the image file at path.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	defer f.Close()
	return DecodeImage(f)
}

func fitTexture(w, h int) (int, int) {
	if w <= MaxTextureSize && h <= MaxTextureSize {
		return w, h
	}
	if w >= h {
		return MaxTextureSize, max(1, h*MaxTextureSize/w)
	}
	return max(1, w*MaxTextureSize/h), MaxTextureSize
}
