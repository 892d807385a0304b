package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) Day { return Day(20000 + n) }

func rawTxn(id string, d Day, amount, merchant, desc, categoryID string, categoryPath ...string) RawTransaction {
	return RawTransaction{
		ID:           id,
		Date:         d.Time().Format("2006-01-02"),
		Amount:       amount,
		MerchantName: merchant,
		Description:  desc,
		CategoryPath: categoryPath,
		CategoryID:   categoryID,
	}
}

func TestTagPayrollByCategoryID(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-1500.00", "ADP", "ADP PAYROLL", "21006000"),
	}
	tagged, warnings := Tag(raw, nil, day(0))
	require.Empty(t, warnings)
	require.Len(t, tagged, 1)
	assert.True(t, tagged[0].IsPayroll)
	// Category + keyword both match => mask popcount 2 => weight 0.5.
	assert.Equal(t, 0.5, tagged[0].PayrollConfidenceWeight)
}

func TestTagPayrollSingleRuleLowConfidence(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-1500.00", "", "", "21006000"),
	}
	tagged, _ := Tag(raw, nil, day(0))
	assert.True(t, tagged[0].IsPayroll)
	assert.Equal(t, 0.2, tagged[0].PayrollConfidenceWeight)
}

func TestTagPositiveAmountNeverPayroll(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "1500.00", "ADP", "ADP PAYROLL", "21006000"),
	}
	tagged, _ := Tag(raw, nil, day(0))
	assert.False(t, tagged[0].IsPayroll)
}

func TestTagLoanPayByCategoryPath(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("l1", day(0), "400.00", "", "", "", "Loan Payment"),
	}
	tagged, _ := Tag(raw, nil, day(0))
	assert.True(t, tagged[0].IsLoanPay)
}

func TestTagLoanPayByKeywordExcludesP2P(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("l1", day(0), "50.00", "", "PAYMENT TO VENMO", ""),
	}
	tagged, _ := Tag(raw, nil, day(0))
	assert.False(t, tagged[0].IsLoanPay)
}

func TestTagLoanPayByKeywordNoExclusion(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("l1", day(0), "50.00", "", "CHASE CARD PAYMENT", ""),
	}
	tagged, _ := Tag(raw, nil, day(0))
	assert.True(t, tagged[0].IsLoanPay)
}

func TestTagOverdraftFee(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("o1", day(0), "35.00", "", "OVERDRAFT FEE CHARGED", "22001000"),
		rawTxn("o2", day(1), "35.00", "", "REGULAR FEE", "99999"),
	}
	tagged, _ := Tag(raw, nil, day(0))
	assert.True(t, tagged[0].IsODFee)
	assert.False(t, tagged[1].IsODFee)
}

func TestTagCadenceDetectionBiweekly(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("c1", day(0), "-1000.00", "", "", ""),
		rawTxn("c2", day(14), "-1000.00", "", "", ""),
		rawTxn("c3", day(28), "-1000.00", "", "", ""),
	}
	tagged, _ := Tag(raw, nil, day(28))
	for _, tt := range tagged {
		assert.NotZero(t, tt.PayrollRuleMask&payrollBitCadence, "expected cadence bit set for %s", tt.ID)
	}
}

func TestTagCadenceRequiresThreeInBucket(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("c1", day(0), "-1000.00", "", "", ""),
		rawTxn("c2", day(14), "-1000.00", "", "", ""),
	}
	tagged, _ := Tag(raw, nil, day(14))
	for _, tt := range tagged {
		assert.Zero(t, tt.PayrollRuleMask&payrollBitCadence)
	}
}

func TestTagMalformedRowProducesWarningNotError(t *testing.T) {
	raw := []RawTransaction{
		{ID: "bad", Date: "garbage", Amount: "1.00"},
		rawTxn("good", day(0), "-10.00", "", "", ""),
	}
	tagged, warnings := Tag(raw, nil, day(0))
	require.Len(t, warnings, 1)
	assert.Equal(t, "bad", warnings[0].TransactionID)
	require.Len(t, tagged, 1)
	assert.Equal(t, "good", tagged[0].ID)
}

func TestApplyOverridesForcesPayrollTrue(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-1500.00", "", "", ""),
	}
	yes := true
	tagged, _ := Tag(raw, Overrides{"p1": {IsPayroll: &yes}}, day(0))
	assert.True(t, tagged[0].IsPayroll)
	assert.Equal(t, 1.0, tagged[0].PayrollConfidenceWeight)
}

func TestApplyOverridesForcesPayrollFalseClearsMask(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-1500.00", "ADP", "ADP PAYROLL", "21006000"),
	}
	no := false
	tagged, _ := Tag(raw, Overrides{"p1": {IsPayroll: &no}}, day(0))
	assert.False(t, tagged[0].IsPayroll)
	assert.Equal(t, 0.0, tagged[0].PayrollConfidenceWeight)
	assert.Zero(t, tagged[0].PayrollRuleMask)
}

func TestApplyOverridesIgnoresUnknownID(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-1500.00", "", "", ""),
	}
	yes := true
	tagged, _ := Tag(raw, Overrides{"other": {IsPayroll: &yes}}, day(0))
	assert.False(t, tagged[0].IsPayroll)
}

func TestApplyOverridesCannotTouchOverdraft(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("o1", day(0), "35.00", "", "OVERDRAFT FEE", "22001000"),
	}
	no := false
	tagged, _ := Tag(raw, Overrides{"o1": {IsLoanPay: &no}}, day(0))
	assert.True(t, tagged[0].IsODFee)
}

func TestTagIsPure(t *testing.T) {
	raw := []RawTransaction{
		rawTxn("p1", day(0), "-1500.00", "ADP", "ADP PAYROLL", "21006000"),
	}
	a, _ := Tag(raw, nil, day(0))
	b, _ := Tag(raw, nil, day(0))
	assert.Equal(t, a, b)
}
