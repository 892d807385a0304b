package models

import (
	"encoding/json"
	"time"
)

// ScoreAudit is the persisted record of a single scoring run. Successful
// runs carry the full metric/point breakdown; runs that failed on
// insufficient history persist only the failure reason and history_days.
type ScoreAudit struct {
	ID             int             `json:"id"`
	UserID         int             `json:"user_id"`
	ReferenceDate  string          `json:"reference_date"`
	HistoryDays    int             `json:"history_days"`
	Metrics        json.RawMessage `json:"metrics,omitempty"`
	Points         json.RawMessage `json:"points,omitempty"`
	BaseScore      *int            `json:"base_score,omitempty"`
	BlinkScore     *float64        `json:"blink_score,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
	Flags          json.RawMessage `json:"flags,omitempty"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
