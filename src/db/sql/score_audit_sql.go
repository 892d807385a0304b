package db

import (
	"blinkscore-server/src/models"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateScoreAudit persists a successful scoring run.
func CreateScoreAudit(ctx context.Context, pool *pgxpool.Pool, a *models.ScoreAudit) (*models.ScoreAudit, error) {
	query := `
		INSERT INTO score_audits (
			user_id, reference_date, history_days, metrics, points,
			base_score, blink_score, recommendation, flags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, user_id, reference_date, history_days, metrics, points,
			base_score, blink_score, recommendation, flags, created_at
	`
	var out models.ScoreAudit
	err := pool.QueryRow(ctx, query,
		a.UserID, a.ReferenceDate, a.HistoryDays, a.Metrics, a.Points,
		a.BaseScore, a.BlinkScore, a.Recommendation, a.Flags,
	).Scan(&out.ID, &out.UserID, &out.ReferenceDate, &out.HistoryDays, &out.Metrics, &out.Points,
		&out.BaseScore, &out.BlinkScore, &out.Recommendation, &out.Flags, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFailedScoreAudit persists a run that was rejected for insufficient
// history. Metrics, points, and score columns stay NULL.
func CreateFailedScoreAudit(ctx context.Context, pool *pgxpool.Pool, userID int, referenceDate string, historyDays int, reason string) (*models.ScoreAudit, error) {
	query := `
		INSERT INTO score_audits (user_id, reference_date, history_days, failure_reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, reference_date, history_days, failure_reason, created_at
	`
	var out models.ScoreAudit
	err := pool.QueryRow(ctx, query, userID, referenceDate, historyDays, reason).
		Scan(&out.ID, &out.UserID, &out.ReferenceDate, &out.HistoryDays, &out.FailureReason, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func GetScoreAuditByID(ctx context.Context, pool *pgxpool.Pool, userID, auditID int) (*models.ScoreAudit, error) {
	query := `
		SELECT id, user_id, reference_date, history_days, metrics, points,
			base_score, blink_score, recommendation, flags, failure_reason, created_at
		FROM score_audits WHERE id = $1 AND user_id = $2
	`
	var out models.ScoreAudit
	err := pool.QueryRow(ctx, query, auditID, userID).
		Scan(&out.ID, &out.UserID, &out.ReferenceDate, &out.HistoryDays, &out.Metrics, &out.Points,
			&out.BaseScore, &out.BlinkScore, &out.Recommendation, &out.Flags, &out.FailureReason, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLatestScoreAudit returns the most recent run for a user, success or
// failure.
func GetLatestScoreAudit(ctx context.Context, pool *pgxpool.Pool, userID int) (*models.ScoreAudit, error) {
	query := `
		SELECT id, user_id, reference_date, history_days, metrics, points,
			base_score, blink_score, recommendation, flags, failure_reason, created_at
		FROM score_audits WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 1
	`
	var out models.ScoreAudit
	err := pool.QueryRow(ctx, query, userID).
		Scan(&out.ID, &out.UserID, &out.ReferenceDate, &out.HistoryDays, &out.Metrics, &out.Points,
			&out.BaseScore, &out.BlinkScore, &out.Recommendation, &out.Flags, &out.FailureReason, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func GetAllScoreAuditsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.ScoreAudit, error) {
	query := `
		SELECT id, user_id, reference_date, history_days, metrics, points,
			base_score, blink_score, recommendation, flags, failure_reason, created_at
		FROM score_audits WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []models.ScoreAudit
	for rows.Next() {
		var a models.ScoreAudit
		err := rows.Scan(&a.ID, &a.UserID, &a.ReferenceDate, &a.HistoryDays, &a.Metrics, &a.Points,
			&a.BaseScore, &a.BlinkScore, &a.Recommendation, &a.Flags, &a.FailureReason, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func DeleteScoreAudit(ctx context.Context, pool *pgxpool.Pool, userID, auditID int) error {
	query := `DELETE FROM score_audits WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, auditID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("score audit not found")
	}
	return nil
}
