package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCenterMapsToFifty(t *testing.T) {
	p := PointFields{HistoryDays: 40}
	base, blink := Normalize(p)
	assert.Equal(t, 40, base)
	assert.InDelta(t, 50.0, blink, 1e-9)
}

func TestNormalizeClampsToHundred(t *testing.T) {
	p := PointFields{HistoryDays: 1000}
	_, blink := Normalize(p)
	assert.Equal(t, 100.0, blink)
}

func TestNormalizeClampsToZero(t *testing.T) {
	p := PointFields{HistoryDays: -1000}
	_, blink := Normalize(p)
	assert.Equal(t, 0.0, blink)
}

func TestNormalizeRoundsToTwoDecimals(t *testing.T) {
	p := PointFields{HistoryDays: 41}
	_, blink := Normalize(p)
	assert.Equal(t, 50.6, blink)
}

func TestNormalizeBaseScoreIsSumOfFields(t *testing.T) {
	p := PointFields{HistoryDays: 10, MedianPaycheck: 20, NetCash30: -10}
	base, _ := Normalize(p)
	assert.Equal(t, p.Sum(), base)
}
