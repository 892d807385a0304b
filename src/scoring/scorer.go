package scoring

// Score maps a MetricVector to its per-metric PointFields, applying the
// liquidity composite, the deposit-multiplicity penalty, and the
// low-payroll-confidence gate. A null metric contributes 0 points unless
// noted otherwise.
func Score(mv MetricVector, tagged []TaggedTransaction) PointFields {
	var p PointFields

	p.HistoryDays = bucketHistoryDays(mv.HistoryDays)
	p.OverdraftCount90 = bucketOverdraftCount(mv.OverdraftCount90)
	p.PaycheckRegularity = bucketPaycheckRegularity(mv.PaycheckRegularity)
	p.DaysSinceLastPaycheck = bucketDaysSinceLastPaycheck(mv.DaysSinceLastPaycheck)
	p.DebtLoad30 = bucketDebtLoad30(mv.DebtLoad30)
	p.NetCash30 = bucketNetCash30(mv.NetCash30)
	p.Volatility90 = bucketVolatility90(mv.Volatility90)
	p.MedianPaycheck = bucketMedianPaycheck(mv.MedianPaycheck)

	// Liquidity composite occupies the CleanBuffer7 slot; BufferVolatility's
	// own slot stays 0 so the eleven fields sum without double-counting.
	p.CleanBuffer7 = liquidityComposite(mv.CleanBuffer7, mv.BufferVolatility)
	p.BufferVolatility = 0

	p.DepositMultiplicity30 = depositMultiplicityPenalty(mv.DepositMultiplicity30)

	gateLowPayrollConfidence(&p, tagged)

	return p
}

func bucketHistoryDays(h Optional) int {
	if !h.Valid {
		return 0
	}
	switch {
	case h.Value >= 365:
		return 10
	case h.Value >= 180:
		return 5
	default:
		return 0
	}
}

func bucketOverdraftCount(f Optional) int {
	if !f.Valid {
		return 0
	}
	switch {
	case f.Value == 0:
		return 20
	case f.Value <= 2:
		return 5
	default:
		return -15
	}
}

func bucketPaycheckRegularity(sigma Optional) int {
	if !sigma.Valid {
		return 0
	}
	switch {
	case sigma.Value <= 2:
		return 25
	case sigma.Value <= 5:
		return 10
	default:
		return -10
	}
}

func bucketDaysSinceLastPaycheck(d Optional) int {
	if !d.Valid {
		return 0
	}
	switch {
	case d.Value <= 7:
		return 10
	case d.Value <= 14:
		return 0
	default:
		return -10
	}
}

func bucketDebtLoad30(r Optional) int {
	if !r.Valid {
		return 0
	}
	switch {
	case r.Value <= 0.15:
		return 20
	case r.Value <= 0.30:
		return 5
	default:
		return -15
	}
}

func bucketNetCash30(n Optional) int {
	if !n.Valid {
		return 0
	}
	if n.Value >= 0 {
		return 10
	}
	return -10
}

func bucketVolatility90(v Optional) int {
	if !v.Valid {
		return 0
	}
	switch {
	case v.Value <= 0.40:
		return 10
	case v.Value <= 0.70:
		return 0
	default:
		return -10
	}
}

func bucketMedianPaycheck(p Optional) int {
	if !p.Valid {
		return 0
	}
	switch {
	case p.Value >= 1500:
		return 20
	case p.Value >= 1000:
		return 10
	case p.Value >= 600:
		return 0
	default:
		return -10
	}
}

// liquidityComposite combines clean_buffer7 (C) and buffer_volatility (B).
func liquidityComposite(c, b Optional) int {
	if !c.Valid || c.Value < 100 {
		return -20
	}
	if c.Value >= 300 {
		if !b.Valid || b.Value > 50 {
			return 25
		}
		return 40
	}
	// 100 <= C < 300, independent of B.
	return 10
}

// depositMultiplicityPenalty applies the -15 penalty when DM > 4.
func depositMultiplicityPenalty(dm Optional) int {
	if dm.Valid && dm.Value > 4 {
		return -15
	}
	return 0
}

// gateLowPayrollConfidence zeroes the payroll-derived point contributions
// when the average confidence weight across all payroll transactions is
// below 0.25. The metric values themselves are untouched - only the
// points the caller already computed.
func gateLowPayrollConfidence(p *PointFields, tagged []TaggedTransaction) {
	total := 0.0
	count := 0
	for _, tx := range tagged {
		if tx.IsPayroll {
			total += tx.PayrollConfidenceWeight
			count++
		}
	}
	if count == 0 {
		return
	}
	avg := total / float64(count)
	if avg < 0.25 {
		p.MedianPaycheck = 0
		p.PaycheckRegularity = 0
		p.DaysSinceLastPaycheck = 0
	}
}
