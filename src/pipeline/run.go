// Package pipeline wires the deterministic scoring engine to persisted
// Plaid data. It is the one place that turns database rows into
// scoring.RawTransaction/scoring.DailyBalance and turns a scoring.ScoreResult
// back into a models.ScoreAudit row. Both the sync handler and the cron
// dispatcher call into it so a manual sync and a scheduled rescore behave
// identically.
package pipeline

import (
	scorecache "blinkscore-server/src/db"
	db "blinkscore-server/src/db/sql"
	"blinkscore-server/src/models"
	"blinkscore-server/src/scoring"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RunScoring loads a user's synced transactions and account balances,
// runs the scoring engine, and persists the outcome as a score audit
// row. It returns the *scoring.ScoreResult on success. On
// InsufficientHistory it persists a failure-only audit row and returns
// the same error the engine raised, so callers can distinguish "not
// enough history yet" from a hard failure.
func RunScoring(ctx context.Context, pool *pgxpool.Pool, userID int64) (*scoring.ScoreResult, error) {
	today := scoring.NewDay(time.Now())
	referenceDate := today.Time().Format("2006-01-02")

	if err := snapshotTodaysBalance(ctx, pool, userID, today); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to snapshot daily balance")
	}

	raw, err := db.GetRawTransactionsForScoring(ctx, pool, userID)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	balances, err := db.GetDailyBalancesForScoring(ctx, pool, userID)
	if err != nil {
		return nil, fmt.Errorf("loading balance history: %w", err)
	}

	currentBalance, err := currentTotalBalance(ctx, pool, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("no current balance available, buffer metrics will be null")
	}

	var parsedOverrides scoring.Overrides
	parsed, err := parseRawForOverrideLookup(raw)
	if err == nil {
		parsedOverrides, err = db.ResolveOverrides(ctx, pool, userID, parsed)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("failed to resolve tagging overrides")
		}
	}

	rc := scoring.ReportContext{T0: today}
	if currentBalance != nil {
		rc.CurrentBalance = currentBalance
	}

	engine := scoring.NewEngine()
	result, err := engine.Score(raw, balances, rc, parsedOverrides)
	if err != nil {
		var insufficient *scoring.InsufficientHistoryError
		if errors.As(err, &insufficient) {
			if _, auditErr := db.CreateFailedScoreAudit(ctx, pool, int(userID), referenceDate, insufficient.HistoryDays, err.Error()); auditErr != nil {
				log.Error().Err(auditErr).Int64("user_id", userID).Msg("failed to persist insufficient-history audit")
			}
			return nil, err
		}
		return nil, err
	}

	for _, w := range result.Warnings {
		log.Warn().Str("transaction_id", w.TransactionID).Str("reason", w.Reason).Int64("user_id", userID).Msg("malformed transaction skipped during scoring")
	}

	if err := persistAudit(ctx, pool, userID, referenceDate, result); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to persist score audit")
	}

	scorecache.SetScoreCache(scoreCacheKey(userID, referenceDate), result)

	return result, nil
}

func scoreCacheKey(userID int64, referenceDate string) string {
	return fmt.Sprintf("score:%d:%s", userID, referenceDate)
}

func snapshotTodaysBalance(ctx context.Context, pool *pgxpool.Pool, userID int64, today scoring.Day) error {
	total, err := currentTotalBalance(ctx, pool, userID)
	if err != nil {
		return err
	}
	if total == nil {
		return nil
	}
	return db.SaveDailyBalanceSnapshot(ctx, pool, userID, today.Time().Format("2006-01-02"), *total)
}

func currentTotalBalance(ctx context.Context, pool *pgxpool.Pool, userID int64) (*decimal.Decimal, error) {
	accounts, err := db.GetAllAccountsForUser(ctx, pool, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	total := decimal.Zero
	for _, a := range accounts {
		bal, err := decimal.NewFromString(a.CurrentBalance)
		if err != nil {
			continue
		}
		total = total.Add(bal)
	}
	return &total, nil
}

func parseRawForOverrideLookup(raw []scoring.RawTransaction) ([]scoring.Transaction, error) {
	parsed := make([]scoring.Transaction, 0, len(raw))
	for _, r := range raw {
		tx, err := scoring.ParseTransaction(r)
		if err != nil {
			continue
		}
		parsed = append(parsed, tx)
	}
	return parsed, nil
}

func persistAudit(ctx context.Context, pool *pgxpool.Pool, userID int64, referenceDate string, result *scoring.ScoreResult) error {
	metricsJSON, err := json.Marshal(result.Metrics)
	if err != nil {
		return err
	}
	pointsJSON, err := json.Marshal(result.Points)
	if err != nil {
		return err
	}
	flagsJSON, err := json.Marshal(result.Flags)
	if err != nil {
		return err
	}

	historyDays := result.Metrics.HistoryDays.Or(0)
	base := result.BaseScore
	blink := result.BlinkScore

	_, err = db.CreateScoreAudit(ctx, pool, &models.ScoreAudit{
		UserID:         int(userID),
		ReferenceDate:  referenceDate,
		HistoryDays:    int(historyDays),
		Metrics:        metricsJSON,
		Points:         pointsJSON,
		BaseScore:      &base,
		BlinkScore:     &blink,
		Recommendation: string(result.Recommendation),
		Flags:          flagsJSON,
	})
	return err
}
