package api

import (
	"blinkscore-server/src/handlers"
	"blinkscore-server/src/middleware"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func NewRouter(pool *pgxpool.Pool, plaidClient *plaid.APIClient, plaidEnv string, isDemo bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.DemoModeMiddleware(isDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(pool))
		r.Post("/register", handlers.Register(pool))
		r.Post("/plaid/webhook", handlers.PlaidWebhook(plaidClient, pool))
		if plaidEnv == "sandbox" {
			r.Post("/plaid/sandbox/fire_webhook", handlers.FireSandboxWebhook(plaidClient, pool))
		}

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(pool)).Group(func(r chi.Router) {
			// User
			r.Get("/user/{user_id}", handlers.GetUser(pool))
			r.Put("/user", handlers.UpdateUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeleteUser(pool))

			// Plaid link + ingestion
			r.Post("/plaid/create-link-token", handlers.CreateLinkToken(plaidClient, pool))
			r.Post("/plaid/exchange-public-token", handlers.ExchangePublicToken(plaidClient, pool))
			r.Get("/plaid/items", handlers.GetPlaidItemsFromDB(pool))
			r.Get("/plaid/accounts/{item_id}", handlers.GetPlaidAccounts(plaidClient, pool))
			r.Get("/plaid/accounts/{item_id}/db", handlers.GetAccountsFromDB(pool))
			r.Get("/plaid/transactions/{item_id}/sync", handlers.SyncTransactions(plaidClient, pool))
			r.Get("/plaid/transactions/{account_id}", handlers.GetTransactionsFromDB(pool))

			// Tagging overrides
			r.Post("/tagging-overrides", handlers.CreateTaggingOverride(pool))
			r.Get("/tagging-overrides", handlers.GetAllTaggingOverrides(pool))
			r.Get("/tagging-overrides/{override_id}", handlers.GetTaggingOverrideByID(pool))
			r.Put("/tagging-overrides/{override_id}", handlers.UpdateTaggingOverride(pool))
			r.Delete("/tagging-overrides/{override_id}", handlers.DeleteTaggingOverride(pool))

			// Scoring
			r.Post("/score", handlers.RunScore(pool))
			r.Get("/score/{user_id}", handlers.GetLatestScore(pool))
			r.Get("/score/{user_id}/history", handlers.GetScoreHistory(pool))
		})
	})

	return r
}
