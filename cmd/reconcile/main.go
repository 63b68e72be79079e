// Package main is the operational reconciliation job. It re-sums every
// collection's balance from the ledger (flagging drift against cached
// snapshots) and fails withdrawals stuck in processing past a cutoff so
// they stop double-reserving balance.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"ajo/internal/config"
	"ajo/internal/models"
	"ajo/internal/repositories"
	"ajo/internal/services/balance"
)

func main() {
	staleAfter := flag.Duration("stale-after", 24*time.Hour,
		"fail withdrawals stuck in processing longer than this")
	flag.Parse()

	config.LoadEnv()
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()
	contributionRepo := repositories.NewContributionRepository(repositories.DB)
	withdrawalRepo := repositories.NewWithdrawalRepository(repositories.DB)
	balanceService := balance.NewService(contributionRepo, withdrawalRepo, repositories.CacheService)

	failStale(ctx, withdrawalRepo, *staleAfter)
	reconcileBalances(ctx, balanceService)
}

// failStale terminates withdrawals the payout provider never resolved.
func failStale(ctx context.Context, repo repositories.WithdrawalRepository, staleAfter time.Duration) {
	cutoff := time.Now().UTC().Add(-staleAfter)
	stale, err := repo.ListProcessingOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("Failed to list stale withdrawals: %v", err)
	}

	for i := range stale {
		w := &stale[i]
		now := time.Now().UTC()
		w.Status = models.WithdrawalStatusFailed
		w.FailureReason = "payout timed out during processing"
		w.FailedAt = &now
		if err := repo.Update(ctx, w); err != nil {
			log.Printf("failed to fail withdrawal %s: %v", w.Reference, err)
			continue
		}
		log.Printf("withdrawal %s failed after %s in processing", w.Reference, staleAfter)
	}
	log.Printf("stale withdrawal sweep done: %d failed", len(stale))
}

// reconcileBalances recomputes every collection's balance and compares
// it against the cached snapshot. Drift means a write path skipped
// invalidation; the recomputed value wins.
func reconcileBalances(ctx context.Context, balances balance.Service) {
	var collections []models.Collection
	if err := repositories.DB.Find(&collections).Error; err != nil {
		log.Fatalf("Failed to list collections: %v", err)
	}

	drifted := 0
	for i := range collections {
		id := collections[i].ID

		cached, err := balances.Collection(ctx, id)
		if err != nil {
			log.Printf("collection %d: cached read failed: %v", id, err)
			continue
		}
		fresh, err := balances.CollectionFresh(ctx, id)
		if err != nil {
			log.Printf("collection %d: recompute failed: %v", id, err)
			continue
		}

		if !cached.CurrentlyWithdrawable.Equal(fresh.CurrentlyWithdrawable) {
			drifted++
			log.Printf("collection %d: snapshot drift, cached %s vs ledger %s",
				id, cached.CurrentlyWithdrawable, fresh.CurrentlyWithdrawable)
			if err := balances.Invalidate(ctx, id); err != nil {
				log.Printf("collection %d: invalidate failed: %v", id, err)
			}
		}
	}
	log.Printf("balance reconciliation done: %d collections, %d drifted", len(collections), drifted)
}
