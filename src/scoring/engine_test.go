package scoring

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSteadyHistory returns 400 days of biweekly $2000 paychecks and a
// flat balance, ending at t0, for engine-level tests that need to clear
// the 90-day history gate.
func buildSteadyHistory(t0 Day) ([]RawTransaction, []DailyBalance) {
	var raw []RawTransaction
	var balances []DailyBalance
	start := t0.Add(-399)
	for d := start; d <= t0; d = d.Add(1) {
		balances = append(balances, balance(d, "2500.00"))
		if int64(d)%14 == 0 {
			raw = append(raw, rawTxn("pay-"+d.Time().Format("20060102"), d, "-2000.00", "ADP", "ADP PAYROLL", "21006000"))
		}
	}
	return raw, balances
}

func TestEngineScoreInsufficientHistory(t *testing.T) {
	e := NewEngine()
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-2000.00", "ADP", "ADP PAYROLL", "21006000"),
	}
	_, err := e.Score(raw, nil, ReportContext{T0: day(0)}, nil)
	require.Error(t, err)

	var insufficient *InsufficientHistoryError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, errors.Is(err, ErrInsufficientHistory))
	assert.Equal(t, 1, insufficient.HistoryDays)
}

func TestEngineScoreNoTransactionsAtAll(t *testing.T) {
	e := NewEngine()
	_, err := e.Score(nil, nil, ReportContext{T0: day(0)}, nil)
	require.Error(t, err)
	var insufficient *InsufficientHistoryError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 0, insufficient.HistoryDays)
}

func TestEngineScoreFullPipeline(t *testing.T) {
	t0 := day(400)
	raw, balances := buildSteadyHistory(t0)
	cur := decimal.RequireFromString("2500.00")

	e := NewEngine()
	result, err := e.Score(raw, balances, ReportContext{T0: t0, CurrentBalance: &cur}, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.BlinkScore, 0.0)
	assert.LessOrEqual(t, result.BlinkScore, 100.0)
	assert.Equal(t, result.Points.Sum(), result.BaseScore)
	assert.Equal(t, result.Points.Sum(), result.BaseScore, "base_score must equal the sum of the eleven point fields")
}

func TestEngineScoreIsDeterministic(t *testing.T) {
	t0 := day(400)
	raw, balances := buildSteadyHistory(t0)
	cur := decimal.RequireFromString("2500.00")
	rc := ReportContext{T0: t0, CurrentBalance: &cur}

	e := NewEngine()
	a, err := e.Score(raw, balances, rc, nil)
	require.NoError(t, err)
	b, err := e.Score(raw, balances, rc, nil)
	require.NoError(t, err)

	assert.Equal(t, a.BlinkScore, b.BlinkScore)
	assert.Equal(t, a.BaseScore, b.BaseScore)
	assert.Equal(t, a.Recommendation, b.Recommendation)
	assert.Equal(t, a.Flags, b.Flags)
}

func TestEngineScoreOverridesChangeTagging(t *testing.T) {
	t0 := day(400)
	raw, balances := buildSteadyHistory(t0)
	cur := decimal.RequireFromString("2500.00")
	rc := ReportContext{T0: t0, CurrentBalance: &cur}

	e := NewEngine()
	baseline, err := e.Score(raw, balances, rc, nil)
	require.NoError(t, err)

	no := false
	overrides := Overrides{}
	for _, tt := range baseline.Tagged {
		if tt.IsPayroll {
			overrides[tt.ID] = Override{IsPayroll: &no}
		}
	}
	overridden, err := e.Score(raw, balances, rc, overrides)
	require.NoError(t, err)

	assert.False(t, overridden.Metrics.MedianPaycheck.Valid)
	assert.NotEqual(t, baseline.BaseScore, overridden.BaseScore)
}

func TestEngineScoreRecommendationConsistentWithThresholdTable(t *testing.T) {
	t0 := day(400)
	raw, balances := buildSteadyHistory(t0)
	cur := decimal.RequireFromString("2500.00")

	e := NewEngine()
	result, err := e.Score(raw, balances, ReportContext{T0: t0, CurrentBalance: &cur}, nil)
	require.NoError(t, err)

	hd := int(result.Metrics.HistoryDays.Value)
	assert.Equal(t, Recommend(result.BlinkScore, hd), result.Recommendation)
}
