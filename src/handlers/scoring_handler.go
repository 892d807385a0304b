package handlers

import (
	db "blinkscore-server/src/db/sql"
	"blinkscore-server/src/pipeline"
	"blinkscore-server/src/scoring"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunScore triggers an on-demand scoring run against the user's already
// synced transactions and balance history, independent of a Plaid sync.
func RunScore(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		result, err := pipeline.RunScoring(r.Context(), pool, userID)
		if err != nil {
			var insufficient *scoring.InsufficientHistoryError
			if errors.As(err, &insufficient) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error":        "insufficient_history",
					"history_days": insufficient.HistoryDays,
				})
				return
			}
			log.Printf("ERROR: Scoring run failed for user %d: %v", userID, err)
			http.Error(w, "failed to score user", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// GetLatestScore returns the most recent persisted score audit for a
// user, success or failure.
func GetLatestScore(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		requestedUserID := chi.URLParam(r, "user_id")

		parsedUserID, err := strconv.ParseInt(requestedUserID, 10, 64)
		if err != nil {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		if userID != parsedUserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		audit, err := db.GetLatestScoreAudit(r.Context(), pool, int(userID))
		if err != nil {
			log.Printf("ERROR: No score audit found for user %d: %v", userID, err)
			http.Error(w, "no score found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(audit)
	}
}

// GetScoreHistory returns every persisted score audit for a user,
// newest first.
func GetScoreHistory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		requestedUserID := chi.URLParam(r, "user_id")

		parsedUserID, err := strconv.ParseInt(requestedUserID, 10, 64)
		if err != nil {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		if userID != parsedUserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		audits, err := db.GetAllScoreAuditsForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Printf("ERROR: Failed to get score history for user %d: %v", userID, err)
			http.Error(w, "failed to get score history", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(audits)
	}
}
