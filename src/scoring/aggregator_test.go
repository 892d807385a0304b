package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balance(d Day, amount string) DailyBalance {
	return DailyBalance{Date: d, Balance: decimal.RequireFromString(amount)}
}

func TestComputeHistoryDays(t *testing.T) {
	t0 := day(100)
	tagged := []TaggedTransaction{
		{Transaction: Transaction{Date: day(10)}},
		{Transaction: Transaction{Date: day(50)}},
	}
	hd, ok := computeHistoryDays(tagged, t0)
	require.True(t, ok)
	assert.Equal(t, 91, hd)
}

func TestComputeHistoryDaysEmpty(t *testing.T) {
	_, ok := computeHistoryDays(nil, day(0))
	assert.False(t, ok)
}

func TestAggregateMedianPaycheckFromPayrollInflows(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-1000.00", "ADP", "ADP PAYROLL", "21006000"),
		rawTxn("p2", day(14), "-2000.00", "ADP", "ADP PAYROLL", "21006000"),
	}
	tagged, _ := Tag(raw, nil, day(14))
	mv := Aggregate(tagged, nil, ReportContext{T0: day(14)})
	require.True(t, mv.MedianPaycheck.Valid)
	// Both paychecks carry weight 0.5, so the cumulative weight reaches
	// half the total at the smaller value.
	assert.Equal(t, 1000.0, mv.MedianPaycheck.Value)
}

func TestAggregateOverdraftCount90(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("o1", day(0), "35.00", "", "OVERDRAFT FEE", "22001000"),
		rawTxn("o2", day(5), "35.00", "", "OVERDRAFT FEE", "22001000"),
		rawTxn("o3", day(200), "35.00", "", "OVERDRAFT FEE", "22001000"),
	}
	tagged, _ := Tag(raw, nil, day(200))
	mv := Aggregate(tagged, nil, ReportContext{T0: day(200)})
	require.True(t, mv.OverdraftCount90.Valid)
	assert.Equal(t, 1.0, mv.OverdraftCount90.Value)
}

func TestBuildBuffer7NullWithoutCurrentBalance(t *testing.T) {
	mv := Aggregate(nil, nil, ReportContext{T0: day(0)})
	assert.False(t, mv.CleanBuffer7.Valid)
	assert.False(t, mv.BufferVolatility.Valid)
}

func TestBuildBuffer7ForwardFillsGaps(t *testing.T) {
	t0 := day(20)
	balances := []DailyBalance{
		balance(t0.Add(-6), "500.00"),
		// day t0-5 through t0-1 missing, should forward-fill from the later T0 balance.
	}
	cur := decimal.RequireFromString("900.00")
	mv := Aggregate(nil, balances, ReportContext{T0: t0, CurrentBalance: &cur})
	require.True(t, mv.CleanBuffer7.Valid)
	assert.Equal(t, 500.0, mv.CleanBuffer7.Value)
}

func TestBuildBuffer7AnchorsTodayToCurrentBalance(t *testing.T) {
	t0 := day(20)
	cur := decimal.RequireFromString("900.00")
	// No prior balance rows at all: every day forward-fills from today.
	mv := Aggregate(nil, nil, ReportContext{T0: t0, CurrentBalance: &cur})
	require.True(t, mv.CleanBuffer7.Valid)
	assert.Equal(t, 900.0, mv.CleanBuffer7.Value)
}

func TestCounterpartyKeyPrefersMerchantName(t *testing.T) {
	tx := TaggedTransaction{Transaction: Transaction{MerchantName: "Whole Foods", Description: "WF MARKET 123 LONG DESC"}}
	assert.Equal(t, "WHOLE FOODS", counterpartyKey(tx))
}

func TestCounterpartyKeyFallsBackToDescription(t *testing.T) {
	tx := TaggedTransaction{Transaction: Transaction{Description: "SOME LONG MERCHANT DESCRIPTION STRING"}}
	assert.Equal(t, "SOME LONG MERCHA", counterpartyKey(tx))
}

func TestCounterpartyKeyUnknownWhenBothBlank(t *testing.T) {
	tx := TaggedTransaction{}
	assert.Equal(t, "UNKNOWN", counterpartyKey(tx))
}

func TestDepositMultiplicity30DenominatorFloorsAtOne(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("d1", day(0), "-50.00", "Store A", "", ""),
		rawTxn("d2", day(1), "-50.00", "Store B", "", ""),
	}
	tagged, _ := Tag(raw, nil, day(1))
	mv := Aggregate(tagged, nil, ReportContext{T0: day(1)})
	require.True(t, mv.DepositMultiplicity30.Valid)
	assert.Equal(t, 2.0, mv.DepositMultiplicity30.Value)
}

func TestDebtLoad30NullWithoutInflow(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("l1", day(0), "100.00", "", "", "", "Loan Payment"),
	}
	tagged, _ := Tag(raw, nil, day(0))
	mv := Aggregate(tagged, nil, ReportContext{T0: day(0)})
	assert.False(t, mv.DebtLoad30.Valid)
}

func TestDebtLoad30Ratio(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("in1", day(0), "-1000.00", "", "", ""),
		rawTxn("l1", day(0), "200.00", "", "", "", "Loan Payment"),
	}
	tagged, _ := Tag(raw, nil, day(0))
	mv := Aggregate(tagged, nil, ReportContext{T0: day(0)})
	require.True(t, mv.DebtLoad30.Valid)
	assert.InDelta(t, 0.2, mv.DebtLoad30.Value, 1e-9)
}

func TestVolatility90ZeroWhenWindowAllZero(t *testing.T) {
	// Only transaction is far outside the 90-day window; every day inside
	// the window has zero net cash, so sd == mean == 0.
	raw := []RawTransaction{
		rawTxn("a", day(0), "-10.00", "", "", ""),
	}
	tagged, _ := Tag(raw, nil, day(200))
	mv := Aggregate(tagged, nil, ReportContext{T0: day(200)})
	require.True(t, mv.Volatility90.Valid)
	assert.Equal(t, 0.0, mv.Volatility90.Value)
}

func TestAggregateIsPure(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-1500.00", "ADP", "ADP PAYROLL", "21006000"),
	}
	tagged, _ := Tag(raw, nil, day(0))
	a := Aggregate(tagged, nil, ReportContext{T0: day(0)})
	b := Aggregate(tagged, nil, ReportContext{T0: day(0)})
	assert.Equal(t, a, b)
}
