package handlers

import (
	db "blinkscore-server/src/db/sql"
	"blinkscore-server/src/pipeline"
	"blinkscore-server/src/util"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

type plaidWebhookPayload struct {
	WebhookType string `json:"webhook_type"`
	WebhookCode string `json:"webhook_code"`
	ItemID      string `json:"item_id"`
}

// PlaidWebhook verifies and handles Plaid's async item notifications.
// A SYNC_UPDATES_AVAILABLE transactions webhook re-runs scoring for the
// owning user over the transactions already stored; it does not pull new
// transactions from Plaid. Other webhook types are acknowledged and
// logged only.
func PlaidWebhook(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		headers := map[string]string{}
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}

		ok, err := util.VerifyWebhook(r.Context(), plaidClient, body, headers)
		if err != nil || !ok {
			log.Printf("ERROR: Plaid webhook verification failed: %v", err)
			http.Error(w, "invalid webhook signature", http.StatusUnauthorized)
			return
		}

		var payload plaidWebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			log.Printf("ERROR: Failed to decode plaid webhook payload: %v", err)
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		log.Printf("INFO: Received plaid webhook %s/%s for item %s", payload.WebhookType, payload.WebhookCode, payload.ItemID)

		if payload.WebhookType == "TRANSACTIONS" && payload.WebhookCode == "SYNC_UPDATES_AVAILABLE" {
			userID, err := db.GetUserIDForItem(r.Context(), pool, payload.ItemID)
			if err != nil {
				log.Printf("ERROR: Unknown plaid item in webhook: %s: %v", payload.ItemID, err)
				w.WriteHeader(http.StatusOK)
				return
			}
			if _, err := pipeline.RunScoring(r.Context(), pool, userID); err != nil {
				log.Printf("ERROR: Rescore after webhook failed for user %d: %v", userID, err)
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

// FireSandboxWebhook lets a sandbox client manually fire a test webhook
// against its own item, for exercising PlaidWebhook end to end.
func FireSandboxWebhook(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AccessToken string `json:"access_token"`
			WebhookCode string `json:"webhook_code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.WebhookCode == "" {
			req.WebhookCode = "SYNC_UPDATES_AVAILABLE"
		}

		fireReq := plaid.NewSandboxItemFireWebhookRequest(req.AccessToken, req.WebhookCode)
		_, _, err := plaidClient.PlaidApi.SandboxItemFireWebhook(r.Context()).SandboxItemFireWebhookRequest(*fireReq).Execute()
		if err != nil {
			log.Printf("ERROR: Failed to fire sandbox webhook: %v", err)
			http.Error(w, "failed to fire sandbox webhook", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
