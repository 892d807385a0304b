package db

import (
	"blinkscore-server/src/models"
	"blinkscore-server/src/scoring"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateTaggingOverride(ctx context.Context, pool *pgxpool.Pool, o *models.TaggingOverride) (*models.TaggingOverride, error) {
	query := `
		INSERT INTO tagging_overrides (user_id, name, conditions, is_payroll, is_loan_pay)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, conditions, is_payroll, is_loan_pay, created_at, updated_at
	`
	var out models.TaggingOverride
	err := pool.QueryRow(ctx, query, o.UserID, o.Name, o.Conditions, o.IsPayroll, o.IsLoanPay).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Conditions, &out.IsPayroll, &out.IsLoanPay, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func GetTaggingOverrideByID(ctx context.Context, pool *pgxpool.Pool, userID, overrideID int) (*models.TaggingOverride, error) {
	query := `
		SELECT id, user_id, name, conditions, is_payroll, is_loan_pay, created_at, updated_at
		FROM tagging_overrides WHERE id = $1 AND user_id = $2
	`
	var out models.TaggingOverride
	err := pool.QueryRow(ctx, query, overrideID, userID).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Conditions, &out.IsPayroll, &out.IsLoanPay, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func GetAllTaggingOverrides(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.TaggingOverride, error) {
	query := `
		SELECT id, user_id, name, conditions, is_payroll, is_loan_pay, created_at, updated_at
		FROM tagging_overrides WHERE user_id = $1 ORDER BY id
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []models.TaggingOverride
	for rows.Next() {
		var o models.TaggingOverride
		if err := rows.Scan(&o.ID, &o.UserID, &o.Name, &o.Conditions, &o.IsPayroll, &o.IsLoanPay, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func UpdateTaggingOverride(ctx context.Context, pool *pgxpool.Pool, o *models.TaggingOverride) (*models.TaggingOverride, error) {
	query := `
		UPDATE tagging_overrides
		SET name = $1, conditions = $2, is_payroll = $3, is_loan_pay = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, name, conditions, is_payroll, is_loan_pay, created_at, updated_at
	`
	var out models.TaggingOverride
	err := pool.QueryRow(ctx, query, o.Name, o.Conditions, o.IsPayroll, o.IsLoanPay, o.ID, o.UserID).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Conditions, &out.IsPayroll, &out.IsLoanPay, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func DeleteTaggingOverride(ctx context.Context, pool *pgxpool.Pool, userID, overrideID int) error {
	query := `DELETE FROM tagging_overrides WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, overrideID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("tagging override not found")
	}
	return nil
}

// ResolveOverrides fetches a user's tagging overrides and evaluates them
// against a transaction set, producing the scoring.Overrides map the
// engine expects. Rules are evaluated in ID order; the first match per
// transaction wins.
func ResolveOverrides(ctx context.Context, pool *pgxpool.Pool, userID int64, txns []scoring.Transaction) (scoring.Overrides, error) {
	rules, err := GetAllTaggingOverrides(ctx, pool, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tagging overrides: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	out := scoring.Overrides{}
	for _, tx := range txns {
		for _, rule := range rules {
			var cond models.Condition
			if err := json.Unmarshal(rule.Conditions, &cond); err != nil {
				continue
			}
			if evaluateOverrideCondition(cond, tx) {
				out[tx.ID] = scoring.Override{IsPayroll: rule.IsPayroll, IsLoanPay: rule.IsLoanPay}
				break
			}
		}
	}
	return out, nil
}

func evaluateOverrideCondition(cond models.Condition, tx scoring.Transaction) bool {
	if len(cond.And) > 0 {
		for _, c := range cond.And {
			if !evaluateOverrideCondition(c, tx) {
				return false
			}
		}
		return true
	}
	if len(cond.Or) > 0 {
		for _, c := range cond.Or {
			if evaluateOverrideCondition(c, tx) {
				return true
			}
		}
		return false
	}

	var fieldValue interface{}
	switch cond.Field {
	case "merchant_name":
		fieldValue = tx.MerchantName
	case "description":
		fieldValue = tx.Description
	case "amount":
		f, _ := tx.Amount.Float64()
		fieldValue = f
	case "category_id":
		fieldValue = tx.CategoryID
	default:
		return false
	}

	switch cond.Op {
	case "equals":
		switch v := fieldValue.(type) {
		case string:
			val, ok2 := cond.Value.(string)
			return ok2 && strings.EqualFold(v, val)
		case float64:
			val, ok2 := cond.Value.(float64)
			return ok2 && v == val
		default:
			return false
		}
	case "contains":
		s, ok := fieldValue.(string)
		val, ok2 := cond.Value.(string)
		return ok && ok2 && strings.Contains(strings.ToLower(s), strings.ToLower(val))
	case "gte":
		f, ok := fieldValue.(float64)
		val, ok2 := cond.Value.(float64)
		return ok && ok2 && f >= val
	case "lte":
		f, ok := fieldValue.(float64)
		val, ok2 := cond.Value.(float64)
		return ok && ok2 && f <= val
	case "gt":
		f, ok := fieldValue.(float64)
		val, ok2 := cond.Value.(float64)
		return ok && ok2 && f > val
	case "lt":
		f, ok := fieldValue.(float64)
		val, ok2 := cond.Value.(float64)
		return ok && ok2 && f < val
	case "in":
		s, ok := fieldValue.(string)
		arr, ok2 := cond.Value.([]interface{})
		if ok && ok2 {
			for _, v := range arr {
				if str, ok := v.(string); ok && strings.EqualFold(s, str) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}
