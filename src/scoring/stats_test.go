package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedMedianIgnoresNonPositiveWeight(t *testing.T) {
	samples := []weightedSample{
		{value: 100, weight: 0},
		{value: 200, weight: 1},
	}
	m := weightedMedian(samples)
	assert.True(t, m.Valid)
	assert.Equal(t, 200.0, m.Value)
}

func TestWeightedMedianEmptyIsNone(t *testing.T) {
	assert.False(t, weightedMedian(nil).Valid)
}

func TestWeightedMedianPicksCrossoverPoint(t *testing.T) {
	samples := []weightedSample{
		{value: 10, weight: 1},
		{value: 20, weight: 1},
		{value: 30, weight: 1},
	}
	m := weightedMedian(samples)
	assert.Equal(t, 20.0, m.Value)
}

func TestWeightedStdDevRequiresTwoSamples(t *testing.T) {
	assert.False(t, weightedStdDev([]weightedSample{{value: 1, weight: 1}}).Valid)
}

func TestWeightedStdDevZeroWhenIdentical(t *testing.T) {
	samples := []weightedSample{
		{value: 10, weight: 1},
		{value: 10, weight: 1},
	}
	sd := weightedStdDev(samples)
	assert.True(t, sd.Valid)
	assert.InDelta(t, 0, sd.Value, 1e-9)
}

func TestSampleStdDevRequiresTwoDistinctValues(t *testing.T) {
	assert.False(t, sampleStdDev([]float64{5, 5, 5}).Valid)
	assert.True(t, sampleStdDev([]float64{5, 6}).Valid)
}

func TestSampleStdDevKnownValue(t *testing.T) {
	sd := sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.True(t, sd.Valid)
	assert.InDelta(t, 2.138, sd.Value, 0.01)
}

func TestMeanAbs(t *testing.T) {
	assert.Equal(t, 3.0, meanAbs([]float64{-3, 3}))
}

func TestPopStdDevEmpty(t *testing.T) {
	assert.Equal(t, 0.0, popStdDev(nil))
}
