package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientHistoryErrorUnwrapsToSentinel(t *testing.T) {
	err := &InsufficientHistoryError{HistoryDays: 12}
	assert.True(t, errors.Is(err, ErrInsufficientHistory))
	assert.Contains(t, err.Error(), "12")
}

func TestComputationErrorMessage(t *testing.T) {
	err := &ComputationError{Metric: "volatility_90", Reason: "division by zero"}
	assert.Contains(t, err.Error(), "volatility_90")
	assert.Contains(t, err.Error(), "division by zero")
}
