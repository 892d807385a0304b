package db

import (
	"blinkscore-server/src/scoring"
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SaveDailyBalanceSnapshot records one day's total balance for a user.
// A second sync on the same day overwrites the earlier snapshot rather
// than accumulating duplicates.
func SaveDailyBalanceSnapshot(ctx context.Context, pool *pgxpool.Pool, userID int64, date string, balance decimal.Decimal) error {
	query := `
		INSERT INTO daily_balance_snapshots (user_id, date, balance, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, date) DO UPDATE SET balance = $3
	`
	_, err := pool.Exec(ctx, query, userID, date, balance.String())
	return err
}

// GetDailyBalancesForScoring returns the snapshot history for a user in
// the shape the scoring engine expects.
func GetDailyBalancesForScoring(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]scoring.DailyBalance, error) {
	query := `SELECT date, balance FROM daily_balance_snapshots WHERE user_id = $1 ORDER BY date`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scoring.DailyBalance
	for rows.Next() {
		var dateStr, balStr string
		if err := rows.Scan(&dateStr, &balStr); err != nil {
			return nil, err
		}
		day, err := scoring.ParseDay(dateStr)
		if err != nil {
			continue
		}
		bal, err := decimal.NewFromString(balStr)
		if err != nil {
			continue
		}
		out = append(out, scoring.DailyBalance{Date: day, Balance: bal})
	}
	return out, rows.Err()
}
