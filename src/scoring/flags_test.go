package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitFlagsAllFalseWhenMetricsAbsent(t *testing.T) {
	f := EmitFlags(MetricVector{})
	assert.False(t, f.OverdraftVolatility)
	assert.False(t, f.CashCrunch)
	assert.False(t, f.DebtTrap)
}

func TestOverdraftVolatilityFlag(t *testing.T) {
	f := EmitFlags(MetricVector{OverdraftCount90: Some(3), BufferVolatility: Some(101)})
	assert.True(t, f.OverdraftVolatility)

	f = EmitFlags(MetricVector{OverdraftCount90: Some(2), BufferVolatility: Some(101)})
	assert.False(t, f.OverdraftVolatility)

	f = EmitFlags(MetricVector{OverdraftCount90: Some(3), BufferVolatility: Some(100)})
	assert.False(t, f.OverdraftVolatility)
}

func TestCashCrunchFlag(t *testing.T) {
	f := EmitFlags(MetricVector{NetCash30: Some(-201), DaysSinceLastPaycheck: Some(11)})
	assert.True(t, f.CashCrunch)

	f = EmitFlags(MetricVector{NetCash30: Some(-199), DaysSinceLastPaycheck: Some(11)})
	assert.False(t, f.CashCrunch)
}

func TestDebtTrapFlag(t *testing.T) {
	f := EmitFlags(MetricVector{DebtLoad30: Some(0.36), CleanBuffer7: Some(49)})
	assert.True(t, f.DebtTrap)

	f = EmitFlags(MetricVector{DebtLoad30: Some(0.35), CleanBuffer7: Some(49)})
	assert.False(t, f.DebtTrap)
}

func TestFlagsAreIndependent(t *testing.T) {
	f := EmitFlags(MetricVector{
		OverdraftCount90:      Some(3),
		BufferVolatility:      Some(101),
		NetCash30:             Some(0),
		DaysSinceLastPaycheck: Some(0),
		DebtLoad30:            Some(0),
		CleanBuffer7:          Some(1000),
	})
	assert.True(t, f.OverdraftVolatility)
	assert.False(t, f.CashCrunch)
	assert.False(t, f.DebtTrap)
}
