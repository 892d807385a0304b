package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"plain date", "2026-01-15"},
		{"rfc3339", "2026-01-15T00:00:00Z"},
		{"rfc3339 with offset", "2026-01-15T23:00:00-05:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDay(tt.in)
			require.NoError(t, err)
			assert.Equal(t, "2026-01-15", d.Time().Format("2006-01-02"))
		})
	}
}

func TestParseDayRejectsGarbage(t *testing.T) {
	_, err := ParseDay("not-a-date")
	assert.Error(t, err)
}

func TestDayArithmetic(t *testing.T) {
	d := NewDay(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, int64(5), d.Add(5).Sub(d))
	assert.Equal(t, int64(-5), d.Add(-5).Sub(d))
}

func TestWindowContains(t *testing.T) {
	t0 := Day(100)
	w := newWindow(t0, 7)
	assert.False(t, w.contains(Day(93)))
	assert.True(t, w.contains(Day(94)))
	assert.True(t, w.contains(Day(100)))
	assert.False(t, w.contains(Day(101)))
}

func TestParseTransaction(t *testing.T) {
	tx, err := ParseTransaction(RawTransaction{
		ID:     "t1",
		Date:   "2026-01-01",
		Amount: "-1200.50",
	})
	require.NoError(t, err)
	assert.True(t, tx.Amount.IsNegative())
	assert.Equal(t, "t1", tx.ID)
}

func TestParseTransactionRejectsBadAmount(t *testing.T) {
	_, err := ParseTransaction(RawTransaction{ID: "t1", Date: "2026-01-01", Amount: "not-a-number"})
	assert.Error(t, err)
}

func TestPointFieldsSumHasNoDoubleCounting(t *testing.T) {
	p := PointFields{
		HistoryDays:           10,
		MedianPaycheck:        20,
		PaycheckRegularity:    25,
		DaysSinceLastPaycheck: 10,
		OverdraftCount90:      20,
		CleanBuffer7:          40,
		BufferVolatility:      0,
		DepositMultiplicity30: 0,
		NetCash30:             10,
		DebtLoad30:            20,
		Volatility90:          10,
	}
	assert.Equal(t, 165, p.Sum())
}

func TestOptionalOr(t *testing.T) {
	assert.Equal(t, 5.0, None.Or(5))
	assert.Equal(t, 3.0, Some(3).Or(5))
}
