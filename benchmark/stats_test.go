package benchmark

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 5.0, Mean(values), 1e-12)
	assert.InDelta(t, 2.0, StdDev(values), 1e-12)
}

func TestMinMax(t *testing.T) {
	values := []float64{0.034, 0.031, 0.040, 0.029}

	assert.Equal(t, 0.029, Min(values))
	assert.Equal(t, 0.040, Max(values))
}

func TestEmptyInputs(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.Zero(t, StdDev(nil))
	assert.Zero(t, Min(nil))
	assert.Zero(t, Max(nil))
	assert.Zero(t, RMSDeviation(nil, 0.033))
}

func TestRMSDeviationClosedForm(t *testing.T) {
	intervals := []float64{0.030, 0.035, 0.040}
	target := 1.0 / 30.0

	var sumSquares float64
	for _, v := range intervals {
		d := v - target
		sumSquares += d * d
	}
	expected := math.Sqrt(sumSquares / float64(len(intervals)))

	assert.InDelta(t, expected, RMSDeviation(intervals, target), 1e-15)
}

func TestRMSDeviationZeroForExactIntervals(t *testing.T) {
	target := 1.0 / 15.0
	intervals := []float64{target, target, target, target, target}

	assert.InDelta(t, 0.0, RMSDeviation(intervals, target), 1e-15)
}
