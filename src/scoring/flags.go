package scoring

// EmitFlags raises the three independent early-warning flags from raw
// metrics. A flag is false whenever either of its two metrics is absent.
func EmitFlags(mv MetricVector) Flags {
	var f Flags

	if mv.OverdraftCount90.Valid && mv.BufferVolatility.Valid {
		f.OverdraftVolatility = mv.OverdraftCount90.Value >= 3 && mv.BufferVolatility.Value > 100
	}
	if mv.NetCash30.Valid && mv.DaysSinceLastPaycheck.Valid {
		f.CashCrunch = mv.NetCash30.Value < -200 && mv.DaysSinceLastPaycheck.Value > 10
	}
	if mv.DebtLoad30.Valid && mv.CleanBuffer7.Valid {
		f.DebtTrap = mv.DebtLoad30.Value > 0.35 && mv.CleanBuffer7.Value < 50
	}

	return f
}
