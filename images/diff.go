package images

import "fmt"

// MeanAbsDiff returns the mean absolute per-pixel difference between two
// grayscale buffers of equal length. A value of 0 means identical frames;
// 255 is the theoretical maximum.
func MeanAbsDiff(a, b []byte) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("images: empty frame buffer")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("images: frame size mismatch: %d vs %d", len(a), len(b))
	}

	var sum uint64
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		sum += uint64(d)
	}
	return float64(sum) / float64(len(a)), nil
}
