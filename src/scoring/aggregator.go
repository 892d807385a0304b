package scoring

import (
	"sort"
	"strings"
)

const (
	reliablePayrollWeight = 0.5
	forwardFillLookback   = 10
	bufferWindowDays      = 7
)

// Aggregate computes the eleven-field MetricVector from tagged
// transactions, historical daily balances, and the report context.
func Aggregate(tagged []TaggedTransaction, balances []DailyBalance, rc ReportContext) MetricVector {
	var mv MetricVector

	historyDays, hasHistory := computeHistoryDays(tagged, rc.T0)
	if hasHistory {
		mv.HistoryDays = Some(float64(historyDays))
	}

	mv.MedianPaycheck = medianPaycheck(tagged)
	mv.PaycheckRegularity = paycheckRegularity(tagged, rc.T0)
	mv.DaysSinceLastPaycheck = daysSinceLastPaycheck(tagged, rc.T0)
	mv.OverdraftCount90 = Some(float64(overdraftCount(tagged, newWindow(rc.T0, 90))))

	buf7, ok := buildBuffer7(balances, rc)
	if ok {
		mv.CleanBuffer7 = Some(minFloat(buf7))
		mv.BufferVolatility = sampleStdDev(buf7)
	}

	mv.DepositMultiplicity30 = depositMultiplicity30(tagged, rc.T0)

	dailyNet := buildDailyNetCash(tagged, rc.T0, historyDays, hasHistory)
	mv.NetCash30 = Some(windowSum(dailyNet, rc.T0, 30))
	mv.DebtLoad30 = debtLoad30(tagged, rc.T0)
	mv.Volatility90 = volatility90(dailyNet, rc.T0)

	return mv
}

// computeHistoryDays returns T0 - earliest transaction date + 1, and
// whether any transaction exists at all.
func computeHistoryDays(tagged []TaggedTransaction, t0 Day) (int, bool) {
	if len(tagged) == 0 {
		return 0, false
	}
	earliest := tagged[0].Date
	for _, tx := range tagged[1:] {
		if tx.Date < earliest {
			earliest = tx.Date
		}
	}
	return int(t0.Sub(earliest)) + 1, true
}

func medianPaycheck(tagged []TaggedTransaction) Optional {
	var samples []weightedSample
	for _, tx := range tagged {
		if !tx.IsPayroll {
			continue
		}
		abs, _ := tx.Amount.Abs().Float64()
		samples = append(samples, weightedSample{value: abs, weight: tx.PayrollConfidenceWeight})
	}
	return weightedMedian(samples)
}

// paycheckRegularity is the weighted standard deviation of consecutive
// day-gaps between payroll transactions inside W180, gap weight = min of
// the two endpoints' confidence weights.
func paycheckRegularity(tagged []TaggedTransaction, t0 Day) Optional {
	w180 := newWindow(t0, 180)
	var payrolls []TaggedTransaction
	for _, tx := range tagged {
		if tx.IsPayroll && w180.contains(tx.Date) {
			payrolls = append(payrolls, tx)
		}
	}
	if len(payrolls) < 2 {
		return None
	}
	sort.Slice(payrolls, func(i, j int) bool { return payrolls[i].Date < payrolls[j].Date })

	var gaps []weightedSample
	for i := 1; i < len(payrolls); i++ {
		gap := float64(payrolls[i].Date.Sub(payrolls[i-1].Date))
		w := payrolls[i-1].PayrollConfidenceWeight
		if payrolls[i].PayrollConfidenceWeight < w {
			w = payrolls[i].PayrollConfidenceWeight
		}
		gaps = append(gaps, weightedSample{value: gap, weight: w})
	}
	return weightedStdDev(gaps)
}

func daysSinceLastPaycheck(tagged []TaggedTransaction, t0 Day) Optional {
	var latest Day
	found := false
	for _, tx := range tagged {
		if !tx.IsPayroll || tx.PayrollConfidenceWeight < reliablePayrollWeight {
			continue
		}
		if !found || tx.Date > latest {
			latest = tx.Date
			found = true
		}
	}
	if !found {
		return None
	}
	return Some(float64(t0.Sub(latest)))
}

func overdraftCount(tagged []TaggedTransaction, w window) int {
	n := 0
	for _, tx := range tagged {
		if tx.IsODFee && w.contains(tx.Date) {
			n++
		}
	}
	return n
}

// buildBuffer7 forward-fills a 10-day daily-balance map (restricted to
// [T0-9, T0], plus T0 itself pinned to the caller-supplied current
// balance) and returns the 7 chronologically-ordered values for
// [T0-6, T0]. If no current balance is supplied the whole pair is null,
// signalled by ok=false.
func buildBuffer7(balances []DailyBalance, rc ReportContext) ([]float64, bool) {
	if rc.CurrentBalance == nil {
		return nil, false
	}

	m := map[Day]float64{}
	lookback := newWindow(rc.T0, forwardFillLookback)
	for _, b := range balances {
		if lookback.contains(b.Date) {
			v, _ := b.Balance.Float64()
			m[b.Date] = v
		}
	}
	cur, _ := rc.CurrentBalance.Float64()
	m[rc.T0] = cur

	filled := make(map[Day]float64, forwardFillLookback)
	var lastSeen float64
	haveLast := false
	for d := rc.T0; d.Sub(rc.T0) > -int64(forwardFillLookback); d = d.Add(-1) {
		if v, ok := m[d]; ok {
			lastSeen = v
			haveLast = true
		}
		if haveLast {
			filled[d] = lastSeen
		}
	}

	out := make([]float64, 0, bufferWindowDays)
	for d := rc.T0.Add(-int64(bufferWindowDays - 1)); d <= rc.T0; d = d.Add(1) {
		if v, ok := filled[d]; ok {
			out = append(out, v)
		}
	}
	if len(out) < bufferWindowDays {
		return nil, false
	}
	return out, true
}

// counterpartyKey normalizes a transaction's counterparty identity:
// merchant name if present, else the first 16 chars of the description,
// else "Unknown"; trimmed and upper-cased.
func counterpartyKey(tx TaggedTransaction) string {
	var key string
	switch {
	case strings.TrimSpace(tx.MerchantName) != "":
		key = tx.MerchantName
	case strings.TrimSpace(tx.Description) != "":
		d := tx.Description
		if len(d) > 16 {
			d = d[:16]
		}
		key = d
	default:
		key = "Unknown"
	}
	return strings.ToUpper(strings.TrimSpace(key))
}

func depositMultiplicity30(tagged []TaggedTransaction, t0 Day) Optional {
	w30 := newWindow(t0, 30)
	counterparties := map[string]struct{}{}
	payrollEvents := 0
	for _, tx := range tagged {
		if !w30.contains(tx.Date) {
			continue
		}
		if tx.Amount.IsNegative() {
			counterparties[counterpartyKey(tx)] = struct{}{}
		}
		if tx.IsPayroll {
			payrollEvents++
		}
	}
	denom := payrollEvents
	if denom < 1 {
		denom = 1
	}
	return Some(float64(len(counterparties)) / float64(denom))
}

// buildDailyNetCash pre-initializes every day in the observed history to
// 0 and accumulates each transaction's net-cash contribution: inflows
// (-amount when amount<0) minus outflows (amount when amount>0), which
// collapses to -amount per transaction.
func buildDailyNetCash(tagged []TaggedTransaction, t0 Day, historyDays int, hasHistory bool) map[Day]float64 {
	m := map[Day]float64{}
	if !hasHistory {
		return m
	}
	start := t0.Add(-int64(historyDays - 1))
	for d := start; d <= t0; d = d.Add(1) {
		m[d] = 0
	}
	for _, tx := range tagged {
		if _, ok := m[tx.Date]; !ok {
			continue
		}
		amt, _ := tx.Amount.Float64()
		m[tx.Date] += -amt
	}
	return m
}

func windowSum(dailyNet map[Day]float64, t0 Day, k int) float64 {
	w := newWindow(t0, k)
	sum := 0.0
	for d, v := range dailyNet {
		if w.contains(d) {
			sum += v
		}
	}
	return sum
}

func windowSeries(dailyNet map[Day]float64, t0 Day, k int) []float64 {
	w := newWindow(t0, k)
	var out []float64
	for d, v := range dailyNet {
		if w.contains(d) {
			out = append(out, v)
		}
	}
	return out
}

func debtLoad30(tagged []TaggedTransaction, t0 Day) Optional {
	w30 := newWindow(t0, 30)
	loanOut := 0.0
	inflowMag := 0.0
	for _, tx := range tagged {
		if !w30.contains(tx.Date) {
			continue
		}
		amt, _ := tx.Amount.Float64()
		if tx.IsLoanPay && amt > 0 {
			loanOut += amt
		}
		if amt < 0 {
			inflowMag += -amt
		}
	}
	if inflowMag == 0 {
		return None
	}
	return Some(loanOut / inflowMag)
}

func volatility90(dailyNet map[Day]float64, t0 Day) Optional {
	series := windowSeries(dailyNet, t0, 90)
	if len(series) < 2 {
		return None
	}
	sd := popStdDev(series)
	m := meanAbs(series)
	if sd == 0 && m == 0 {
		return Some(0)
	}
	if m < 0.01 && sd > 0 {
		return None
	}
	return Some(sd / m)
}

func minFloat(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
