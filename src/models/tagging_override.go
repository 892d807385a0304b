package models

import (
	"encoding/json"
	"time"
)

// TaggingOverride lets a user force the payroll or loan-payment
// classification for transactions matching a condition tree, bypassing
// the heuristic tagger for that one call. The first matching rule per
// transaction wins; evaluation order is by ID ascending.
type TaggingOverride struct {
	ID         int             `json:"id"`
	UserID     int             `json:"user_id"`
	Name       string          `json:"name"`
	Conditions json.RawMessage `json:"conditions"` // JSONB, shape of Condition
	IsPayroll  *bool           `json:"is_payroll,omitempty"`
	IsLoanPay  *bool           `json:"is_loan_pay,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
