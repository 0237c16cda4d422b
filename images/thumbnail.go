package images

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/nfnt/resize"
)

// ToImage wraps a packed RGB888 buffer in an image.Image without copying
// pixel math into callers.
func ToImage(data []byte, width, height, channels int) (image.Image, error) {
	if channels != 3 {
		return nil, fmt.Errorf("images: expected 3 channels, got %d", channels)
	}
	if len(data) != width*height*channels {
		return nil, fmt.Errorf("images: buffer length %d does not match %dx%dx%d",
			len(data), width, height, channels)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * channels
			dst := y*img.Stride + x*4
			img.Pix[dst] = data[src]
			img.Pix[dst+1] = data[src+1]
			img.Pix[dst+2] = data[src+2]
			img.Pix[dst+3] = 0xFF
		}
	}
	return img, nil
}

// WriteThumbnail downscales a raw RGB frame to at most maxWidth pixels wide
// (preserving aspect ratio) and writes it as PNG. Frames already narrower
// than maxWidth are written at native size.
func WriteThumbnail(w io.Writer, data []byte, width, height, channels int, maxWidth uint) error {
	img, err := ToImage(data, width, height, channels)
	if err != nil {
		return err
	}

	if maxWidth > 0 && uint(width) > maxWidth {
		img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	}
	return png.Encode(w, img)
}
