// Package scoring implements the Blink Score feature-engineering and
// scoring engine: transaction tagging, windowed metric aggregation,
// point-bucket scoring, and the approval recommendation. The engine is a
// pure function of its inputs - it performs no I/O and holds no state
// between calls.
package scoring

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Day is a calendar day represented as an integer day count, so that
// window arithmetic (T0 - (k-1)) is exact integer subtraction with no
// timezone or DST edge cases. Conversion to/from time.Time happens once,
// at the ingestion boundary.
type Day int64

// NewDay truncates t to its UTC calendar date and returns the
// corresponding Day.
func NewDay(t time.Time) Day {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return Day(midnight.Unix() / 86400)
}

// Time returns the UTC midnight time.Time for d.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// Add returns d shifted by n days (n may be negative).
func (d Day) Add(n int64) Day {
	return d + Day(n)
}

// Sub returns the number of days between d and o (d - o).
func (d Day) Sub(o Day) int64 {
	return int64(d) - int64(o)
}

// ParseDay parses a calendar date in "2006-01-02" or RFC3339 form. For an
// RFC3339 timestamp the calendar date as written is kept; its offset is
// not applied.
func ParseDay(s string) (Day, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return NewDay(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return NewDay(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), nil
	}
	return 0, fmt.Errorf("scoring: unparseable date %q", s)
}

// window is an inclusive calendar-day span ending at T0: [T0-(k-1), T0].
type window struct {
	start, end Day
}

func newWindow(t0 Day, k int) window {
	return window{start: t0.Add(-int64(k - 1)), end: t0}
}

func (w window) contains(d Day) bool {
	return d >= w.start && d <= w.end
}

// Transaction is a single ledger entry. Amount is signed: negative for an
// inflow (credit to the account), positive for an outflow (debit).
type Transaction struct {
	ID           string
	Date         Day
	Amount       decimal.Decimal
	MerchantName string
	Description  string
	CategoryPath []string
	CategoryID   string
}

// RawTransaction is the caller-facing ingestion shape: dates and amounts
// as strings, exactly as they arrive from a bank feed, a database row, or
// a JSON request body. ParseTransaction converts it to a Transaction.
type RawTransaction struct {
	ID           string
	Date         string
	Amount       string
	MerchantName string
	Description  string
	CategoryPath []string
	CategoryID   string
}

// ParseTransaction converts a RawTransaction to a Transaction, returning
// an error if the date or amount cannot be parsed. The id is required and
// is not validated here for uniqueness - that is a caller invariant.
func ParseTransaction(r RawTransaction) (Transaction, error) {
	day, err := ParseDay(r.Date)
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: %w", r.ID, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: unparseable amount %q: %w", r.ID, r.Amount, err)
	}
	return Transaction{
		ID:           r.ID,
		Date:         day,
		Amount:       amount,
		MerchantName: r.MerchantName,
		Description:  r.Description,
		CategoryPath: r.CategoryPath,
		CategoryID:   r.CategoryID,
	}, nil
}

// DailyBalance is the end-of-day balance for a single calendar day.
type DailyBalance struct {
	Date    Day
	Balance decimal.Decimal
}

// ReportContext carries the reference date and, optionally, the current
// balance as of that date.
type ReportContext struct {
	T0             Day
	CurrentBalance *decimal.Decimal
}

// Override forces a transaction's is_payroll and/or is_loanpay flag,
// applied after automatic tagging. A nil field means "no override for
// this flag"; absence of the transaction id from the Overrides map means
// "no override at all" for that transaction.
type Override struct {
	IsPayroll *bool
	IsLoanPay *bool
}

// Overrides maps a transaction id to its override instruction. Overriding
// a non-existent id is a no-op.
type Overrides map[string]Override

// Payroll rule-mask bits. Bit 0 is the category rule, bit 1 the keyword
// rule, bit 2 the cadence rule.
const (
	payrollBitCategory = 1 << 0
	payrollBitKeyword   = 1 << 1
	payrollBitCadence    = 1 << 2
)

// TaggedTransaction is a Transaction plus the heuristic tagger's output.
type TaggedTransaction struct {
	Transaction
	IsPayroll               bool
	IsLoanPay               bool
	IsODFee                 bool
	PayrollRuleMask         int
	PayrollConfidenceWeight float64
}

// Optional represents a metric that either has a value or is absent.
// Scoring rules distinguish "0" from "absent"; do not use a sentinel
// numeric value (NaN, 0) to mean "missing" - use Optional instead.
type Optional struct {
	Valid bool
	Value float64
}

// Some returns a present Optional with value v.
func Some(v float64) Optional { return Optional{Valid: true, Value: v} }

// None is the absent Optional.
var None = Optional{}

// Or returns o's value if present, else the default.
func (o Optional) Or(def float64) float64 {
	if !o.Valid {
		return def
	}
	return o.Value
}

// MetricVector is the eleven-field behavioral metric vector computed by
// the Window Aggregator. Every field is nullable.
type MetricVector struct {
	HistoryDays           Optional
	MedianPaycheck        Optional
	PaycheckRegularity    Optional
	DaysSinceLastPaycheck Optional
	OverdraftCount90      Optional
	CleanBuffer7          Optional
	BufferVolatility      Optional
	DepositMultiplicity30 Optional
	NetCash30             Optional
	DebtLoad30            Optional
	Volatility90          Optional
}

// PointFields holds the per-metric integer point contributions. It has
// the same eleven-field shape as MetricVector: the liquidity composite
// rule (which reads both CleanBuffer7 and BufferVolatility) contributes
// its single point value through the CleanBuffer7 slot and leaves the
// BufferVolatility slot at 0, and the deposit-multiplicity penalty
// contributes through the DepositMultiplicity30 slot. Summing all eleven
// fields yields base_score with no double-counting.
type PointFields struct {
	HistoryDays           int
	MedianPaycheck        int
	PaycheckRegularity    int
	DaysSinceLastPaycheck int
	OverdraftCount90      int
	CleanBuffer7          int
	BufferVolatility      int
	DepositMultiplicity30 int
	NetCash30             int
	DebtLoad30            int
	Volatility90          int
}

// Sum returns the arithmetic sum of all eleven point fields (base_score).
func (p PointFields) Sum() int {
	return p.HistoryDays + p.MedianPaycheck + p.PaycheckRegularity +
		p.DaysSinceLastPaycheck + p.OverdraftCount90 + p.CleanBuffer7 +
		p.BufferVolatility + p.DepositMultiplicity30 + p.NetCash30 +
		p.DebtLoad30 + p.Volatility90
}

// Flags are the three orthogonal early-warning flags.
type Flags struct {
	OverdraftVolatility bool
	CashCrunch          bool
	DebtTrap            bool
}

// Recommendation is the engine's approve/reject outcome.
type Recommendation string

const (
	Approved Recommendation = "approved"
	Rejected Recommendation = "rejected"
)

// Warning is a structured, non-fatal signal raised while processing a
// single row - currently only MalformedTransaction. It never aborts the
// batch.
type Warning struct {
	TransactionID string
	Reason        string
}

// ScoreResult is the engine's full output.
type ScoreResult struct {
	Metrics        MetricVector
	Points         PointFields
	BaseScore      int
	BlinkScore     float64
	Recommendation Recommendation
	Flags          Flags
	Tagged         []TaggedTransaction
	Warnings       []Warning
}
