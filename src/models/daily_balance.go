package models

import "time"

// DailyBalanceSnapshot is one day's total balance across a user's linked
// accounts, captured at the start of every scoring run (sync, on-demand
// score, webhook, dispatcher). Plaid's transactions/sync endpoint does not
// return historical balances, so the scoring engine's balance window is
// built up one snapshot per day rather than backfilled.
type DailyBalanceSnapshot struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Date      string    `json:"date"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
