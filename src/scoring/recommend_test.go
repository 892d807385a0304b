package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendRejectsUnderMinimumHistory(t *testing.T) {
	assert.Equal(t, Rejected, Recommend(100, 89))
}

func TestRecommendThresholdTiers(t *testing.T) {
	tests := []struct {
		name        string
		blinkScore  float64
		historyDays int
		want        Recommendation
	}{
		{"short history at threshold", 88, 150, Approved},
		{"short history below threshold", 87.99, 150, Rejected},
		{"mid history at threshold", 80, 300, Approved},
		{"mid history below threshold", 79.99, 300, Rejected},
		{"long history at threshold", 73, 400, Approved},
		{"long history below threshold", 72.99, 400, Rejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommend(tt.blinkScore, tt.historyDays))
		})
	}
}

func TestRecommendTierBoundaries(t *testing.T) {
	assert.Equal(t, Approved, Recommend(88, 179))
	assert.Equal(t, Approved, Recommend(80, 180))
	assert.Equal(t, Approved, Recommend(80, 364))
	assert.Equal(t, Approved, Recommend(73, 365))
}
