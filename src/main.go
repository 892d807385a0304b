package main

import (
	"blinkscore-server/src/api"
	"blinkscore-server/src/config"
	"blinkscore-server/src/cron"
	"blinkscore-server/src/db"
	"blinkscore-server/src/plaid"
	"log"
	"net/http"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	plaidClient := plaid.NewPlaidClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)

	dispatcher := cron.NewDispatcher(pool, cfg.RescoreInterval)
	dispatcher.Start()
	defer dispatcher.Stop()

	router := api.NewRouter(pool, plaidClient, cfg.PlaidEnv, cfg.IsDemo)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
