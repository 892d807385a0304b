package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketHistoryDays(t *testing.T) {
	assert.Equal(t, 0, bucketHistoryDays(None))
	assert.Equal(t, 0, bucketHistoryDays(Some(90)))
	assert.Equal(t, 5, bucketHistoryDays(Some(180)))
	assert.Equal(t, 5, bucketHistoryDays(Some(364)))
	assert.Equal(t, 10, bucketHistoryDays(Some(365)))
}

func TestBucketOverdraftCount(t *testing.T) {
	assert.Equal(t, 20, bucketOverdraftCount(Some(0)))
	assert.Equal(t, 5, bucketOverdraftCount(Some(2)))
	assert.Equal(t, -15, bucketOverdraftCount(Some(3)))
	assert.Equal(t, 0, bucketOverdraftCount(None))
}

func TestBucketPaycheckRegularity(t *testing.T) {
	assert.Equal(t, 25, bucketPaycheckRegularity(Some(2)))
	assert.Equal(t, 10, bucketPaycheckRegularity(Some(5)))
	assert.Equal(t, -10, bucketPaycheckRegularity(Some(5.01)))
}

func TestBucketDaysSinceLastPaycheck(t *testing.T) {
	assert.Equal(t, 10, bucketDaysSinceLastPaycheck(Some(7)))
	assert.Equal(t, 0, bucketDaysSinceLastPaycheck(Some(14)))
	assert.Equal(t, -10, bucketDaysSinceLastPaycheck(Some(15)))
}

func TestBucketDebtLoad30(t *testing.T) {
	assert.Equal(t, 20, bucketDebtLoad30(Some(0.15)))
	assert.Equal(t, 5, bucketDebtLoad30(Some(0.30)))
	assert.Equal(t, -15, bucketDebtLoad30(Some(0.31)))
}

func TestBucketNetCash30(t *testing.T) {
	assert.Equal(t, 10, bucketNetCash30(Some(0)))
	assert.Equal(t, 10, bucketNetCash30(Some(100)))
	assert.Equal(t, -10, bucketNetCash30(Some(-0.01)))
}

func TestBucketVolatility90(t *testing.T) {
	assert.Equal(t, 10, bucketVolatility90(Some(0.40)))
	assert.Equal(t, 0, bucketVolatility90(Some(0.70)))
	assert.Equal(t, -10, bucketVolatility90(Some(0.71)))
}

func TestBucketMedianPaycheck(t *testing.T) {
	assert.Equal(t, 20, bucketMedianPaycheck(Some(1500)))
	assert.Equal(t, 10, bucketMedianPaycheck(Some(1000)))
	assert.Equal(t, 0, bucketMedianPaycheck(Some(600)))
	assert.Equal(t, -10, bucketMedianPaycheck(Some(599.99)))
}

func TestLiquidityCompositeBelowFloor(t *testing.T) {
	assert.Equal(t, -20, liquidityComposite(Some(99), None))
	assert.Equal(t, -20, liquidityComposite(None, None))
}

func TestLiquidityCompositeMidBandIgnoresVolatility(t *testing.T) {
	assert.Equal(t, 10, liquidityComposite(Some(100), Some(1000)))
	assert.Equal(t, 10, liquidityComposite(Some(299), None))
}

func TestLiquidityCompositeHighBandDependsOnVolatility(t *testing.T) {
	assert.Equal(t, 40, liquidityComposite(Some(300), Some(50)))
	assert.Equal(t, 25, liquidityComposite(Some(300), Some(51)))
	assert.Equal(t, 25, liquidityComposite(Some(300), None))
}

func TestDepositMultiplicityPenalty(t *testing.T) {
	assert.Equal(t, 0, depositMultiplicityPenalty(Some(4)))
	assert.Equal(t, -15, depositMultiplicityPenalty(Some(4.01)))
	assert.Equal(t, 0, depositMultiplicityPenalty(None))
}

func TestGateLowPayrollConfidenceZeroesPayrollPoints(t *testing.T) {
	tagged := []TaggedTransaction{
		{IsPayroll: true, PayrollConfidenceWeight: 0.2},
		{IsPayroll: true, PayrollConfidenceWeight: 0.2},
	}
	p := PointFields{MedianPaycheck: 20, PaycheckRegularity: 25, DaysSinceLastPaycheck: 10, OverdraftCount90: 20}
	gateLowPayrollConfidence(&p, tagged)
	assert.Zero(t, p.MedianPaycheck)
	assert.Zero(t, p.PaycheckRegularity)
	assert.Zero(t, p.DaysSinceLastPaycheck)
	assert.Equal(t, 20, p.OverdraftCount90, "non-payroll fields are untouched by the gate")
}

func TestGateHighPayrollConfidenceLeavesPointsAlone(t *testing.T) {
	tagged := []TaggedTransaction{
		{IsPayroll: true, PayrollConfidenceWeight: 1.0},
	}
	p := PointFields{MedianPaycheck: 20}
	gateLowPayrollConfidence(&p, tagged)
	assert.Equal(t, 20, p.MedianPaycheck)
}

func TestGateNoopWithoutPayrollTransactions(t *testing.T) {
	p := PointFields{MedianPaycheck: 20}
	gateLowPayrollConfidence(&p, nil)
	assert.Equal(t, 20, p.MedianPaycheck)
}

func TestScoreSumsToElevenIndependentSlots(t *testing.T) {
	mv := MetricVector{
		HistoryDays:      Some(365),
		OverdraftCount90: Some(0),
		CleanBuffer7:     Some(300),
		BufferVolatility: Some(10),
	}
	p := Score(mv, nil)
	assert.Equal(t, 0, p.BufferVolatility, "liquidity composite lives in CleanBuffer7's slot")
	assert.Equal(t, 40, p.CleanBuffer7)
	assert.Equal(t, 10+20+40, p.Sum())
}
