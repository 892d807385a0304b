package scoring

const minHistoryDays = 90

// Engine runs the full tagger -> aggregator -> scorer -> normalizer ->
// (recommendation, flags) pipeline. It holds no state; a zero-value
// Engine is ready to use, and a single Engine may be shared across
// goroutines since Score performs no mutation of shared state.
type Engine struct{}

// NewEngine returns a ready-to-use Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score runs the engine end to end. It returns *InsufficientHistoryError
// when the observed history is under 90 days or there are no usable
// transactions at all - in that case no metrics or score are computed.
func (e *Engine) Score(raw []RawTransaction, balances []DailyBalance, rc ReportContext, overrides Overrides) (*ScoreResult, error) {
	tagged, warnings := Tag(raw, overrides, rc.T0)

	historyDays, hasHistory := computeHistoryDays(tagged, rc.T0)
	if !hasHistory || historyDays < minHistoryDays {
		return nil, &InsufficientHistoryError{HistoryDays: historyDays}
	}

	metrics := Aggregate(tagged, balances, rc)
	points := Score(metrics, tagged)
	baseScore, blinkScore := Normalize(points)
	recommendation := Recommend(blinkScore, historyDays)
	flags := EmitFlags(metrics)

	return &ScoreResult{
		Metrics:        metrics,
		Points:         points,
		BaseScore:      baseScore,
		BlinkScore:     blinkScore,
		Recommendation: recommendation,
		Flags:          flags,
		Tagged:         tagged,
		Warnings:       warnings,
	}, nil
}
