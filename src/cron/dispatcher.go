// Package cron periodically rescoring every user with a linked Plaid
// item. The retrieved dependency set carries no scheduling library, so
// the dispatcher is built directly on time.Ticker; a bounded worker
// pool keeps a slow run from piling up goroutines against the database.
package cron

import (
	db "blinkscore-server/src/db/sql"
	"blinkscore-server/src/pipeline"
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const maxConcurrentRescores = 8

// Dispatcher fires RunScoring for every user on a fixed interval.
type Dispatcher struct {
	pool     *pgxpool.Pool
	interval time.Duration
	stop     chan struct{}
}

func NewDispatcher(pool *pgxpool.Pool, interval time.Duration) *Dispatcher {
	return &Dispatcher{pool: pool, interval: interval, stop: make(chan struct{})}
}

// Start runs the ticker loop in the background until Stop is called.
func (d *Dispatcher) Start() {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.runOnce()
			case <-d.stop:
				return
			}
		}
	}()
}

func (d *Dispatcher) Stop() {
	close(d.stop)
}

func (d *Dispatcher) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	userIDs, err := db.GetAllUserIDsWithPlaidItems(ctx, d.pool)
	if err != nil {
		log.Error().Err(err).Msg("rescore dispatcher: failed to list users")
		return
	}

	sem := make(chan struct{}, maxConcurrentRescores)
	done := make(chan struct{}, len(userIDs))

	for _, userID := range userIDs {
		userID := userID
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; done <- struct{}{} }()
			if _, err := pipeline.RunScoring(ctx, d.pool, userID); err != nil {
				log.Warn().Err(err).Int64("user_id", userID).Msg("rescore dispatcher: scoring run failed")
			}
		}()
	}

	for range userIDs {
		<-done
	}
}
