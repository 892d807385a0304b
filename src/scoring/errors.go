package scoring

import (
	"errors"
	"fmt"
)

// ErrInsufficientHistory is the sentinel wrapped by InsufficientHistoryError.
// Callers should use errors.Is(err, ErrInsufficientHistory) rather than a
// type assertion, per the teacher's error-propagation convention of plain
// Go errors returned from the data layer.
var ErrInsufficientHistory = errors.New("scoring: insufficient history")

// InsufficientHistoryError is returned when history_days < 90 (or there
// are no transactions at all, which implies zero history). No metrics or
// score are computed; the recommendation is always Rejected.
type InsufficientHistoryError struct {
	HistoryDays int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("scoring: insufficient history: %d days (need >= 90)", e.HistoryDays)
}

func (e *InsufficientHistoryError) Unwrap() error {
	return ErrInsufficientHistory
}

// ComputationError signals an internal arithmetic or invariant violation
// (e.g. a metric that should be finite turned out not to be). It is
// always a defect in the engine or its inputs, never ordinary scoring
// signal - ordinary nullity is represented by Optional, not by an error.
type ComputationError struct {
	Metric string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("scoring: computation error in %s: %s", e.Metric, e.Reason)
}
