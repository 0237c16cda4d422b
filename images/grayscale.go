// Package images provides the pixel-level operations the benchmark needs on
// raw camera buffers: grayscale conversion, frame-to-frame differencing, and
// snapshot thumbnails. All functions operate on packed 8-bit buffers so the
// sampling loops never pay for an intermediate image.Image.
package images

import (
	"fmt"

	"github.com/chewxy/math32"
)

// BT.601 luma weights, the same coefficients OpenCV applies for RGB to
// grayscale conversion.
const (
	lumaRed   float32 = 0.299
	lumaGreen float32 = 0.587
	lumaBlue  float32 = 0.114
)

// Grayscale converts a packed RGB888 buffer to an 8-bit luma buffer of
// width*height length.
func Grayscale(data []byte, width, height, channels int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("images: invalid dimensions %dx%d", width, height)
	}
	if channels != 3 {
		return nil, fmt.Errorf("images: expected 3 channels, got %d", channels)
	}
	if len(data) != width*height*channels {
		return nil, fmt.Errorf("images: buffer length %d does not match %dx%dx%d",
			len(data), width, height, channels)
	}

	gray := make([]byte, width*height)
	for i := range gray {
		off := i * channels
		luma := lumaRed*float32(data[off]) +
			lumaGreen*float32(data[off+1]) +
			lumaBlue*float32(data[off+2])
		gray[i] = uint8(math32.Round(luma))
	}
	return gray, nil
}
