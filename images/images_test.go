package images

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayscaleKnownValues(t *testing.T) {
	// One row of four pixels: black, white, pure red, pure green.
	data := []byte{
		0, 0, 0,
		255, 255, 255,
		255, 0, 0,
		0, 255, 0,
	}

	gray, err := Grayscale(data, 4, 1, 3)
	require.NoError(t, err)
	require.Len(t, gray, 4)

	assert.Equal(t, byte(0), gray[0])
	assert.Equal(t, byte(255), gray[1])
	assert.Equal(t, byte(76), gray[2])  // round(0.299 * 255)
	assert.Equal(t, byte(150), gray[3]) // round(0.587 * 255)
}

func TestGrayscaleValidation(t *testing.T) {
	_, err := Grayscale([]byte{1, 2, 3}, 2, 1, 3)
	assert.Error(t, err)

	_, err = Grayscale([]byte{1, 2, 3, 4}, 1, 1, 4)
	assert.Error(t, err)

	_, err = Grayscale(nil, 0, 1, 3)
	assert.Error(t, err)
}

func TestMeanAbsDiff(t *testing.T) {
	a := []byte{10, 20, 30, 40}
	b := []byte{12, 18, 30, 44}

	// |10-12| + |20-18| + |30-30| + |40-44| = 8 over 4 pixels.
	diff, err := MeanAbsDiff(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, diff, 1e-12)

	diff, err = MeanAbsDiff(a, a)
	require.NoError(t, err)
	assert.Zero(t, diff)
}

func TestMeanAbsDiffValidation(t *testing.T) {
	_, err := MeanAbsDiff(nil, []byte{1})
	assert.Error(t, err)

	_, err = MeanAbsDiff([]byte{1, 2}, []byte{1})
	assert.Error(t, err)
}

func TestWriteThumbnailDownscales(t *testing.T) {
	width, height := 8, 4
	data := make([]byte, width*height*3)
	for i := range data {
		data[i] = byte(i)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteThumbnail(&buf, data, width, height, 3, 4))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestWriteThumbnailKeepsSmallFrames(t *testing.T) {
	data := []byte{255, 0, 0, 0, 255, 0}

	var buf bytes.Buffer
	require.NoError(t, WriteThumbnail(&buf, data, 2, 1, 3, 160))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}
