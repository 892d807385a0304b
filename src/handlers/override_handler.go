package handlers

import (
	db "blinkscore-server/src/db/sql"
	"blinkscore-server/src/models"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateTaggingOverride(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name       string          `json:"name"`
			Conditions json.RawMessage `json:"conditions"`
			IsPayroll  *bool           `json:"is_payroll"`
			IsLoanPay  *bool           `json:"is_loan_pay"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create tagging override request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.IsPayroll == nil && req.IsLoanPay == nil {
			http.Error(w, "override must set is_payroll or is_loan_pay", http.StatusBadRequest)
			return
		}
		override := &models.TaggingOverride{
			UserID:     int(userID),
			Name:       req.Name,
			Conditions: req.Conditions,
			IsPayroll:  req.IsPayroll,
			IsLoanPay:  req.IsLoanPay,
		}
		created, err := db.CreateTaggingOverride(r.Context(), pool, override)
		if err != nil {
			log.Printf("ERROR: Failed to create tagging override for user %d: %v", userID, err)
			http.Error(w, "failed to create tagging override", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created tagging override id %d for user %d, name %s", created.ID, userID, created.Name)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetTaggingOverrideByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		overrideIDStr := chi.URLParam(r, "override_id")
		overrideID, err := strconv.Atoi(overrideIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid override id param: %s", overrideIDStr)
			http.Error(w, "invalid override id", http.StatusBadRequest)
			return
		}
		override, err := db.GetTaggingOverrideByID(r.Context(), pool, int(userID), overrideID)
		if err != nil {
			log.Printf("ERROR: Tagging override id %d not found for user %d: %v", overrideID, userID, err)
			http.Error(w, "tagging override not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(override)
	}
}

func GetAllTaggingOverrides(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		overrides, err := db.GetAllTaggingOverrides(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get tagging overrides for user %d: %v", userID, err)
			http.Error(w, "failed to get tagging overrides", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(overrides)
	}
}

func UpdateTaggingOverride(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		overrideIDStr := chi.URLParam(r, "override_id")
		overrideID, err := strconv.Atoi(overrideIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid override id param: %s", overrideIDStr)
			http.Error(w, "invalid override id", http.StatusBadRequest)
			return
		}
		var req struct {
			Name       string          `json:"name"`
			Conditions json.RawMessage `json:"conditions"`
			IsPayroll  *bool           `json:"is_payroll"`
			IsLoanPay  *bool           `json:"is_loan_pay"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update tagging override request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		override := &models.TaggingOverride{
			ID:         overrideID,
			UserID:     int(userID),
			Name:       req.Name,
			Conditions: req.Conditions,
			IsPayroll:  req.IsPayroll,
			IsLoanPay:  req.IsLoanPay,
		}
		updated, err := db.UpdateTaggingOverride(r.Context(), pool, override)
		if err != nil {
			log.Printf("ERROR: Failed to update tagging override id %d for user %d: %v", overrideID, userID, err)
			http.Error(w, "failed to update tagging override", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated tagging override id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTaggingOverride(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		overrideIDStr := chi.URLParam(r, "override_id")
		overrideID, err := strconv.Atoi(overrideIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid override id param: %s", overrideIDStr)
			http.Error(w, "invalid override id", http.StatusBadRequest)
			return
		}
		err = db.DeleteTaggingOverride(r.Context(), pool, int(userID), overrideID)
		if err != nil {
			log.Printf("ERROR: Failed to delete tagging override id %d for user %d: %v", overrideID, userID, err)
			http.Error(w, "failed to delete tagging override", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted tagging override id %d for user %d", overrideID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "tagging override deleted"})
	}
}
