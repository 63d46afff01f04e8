package worker

// sweeper.go
// Background goroutine that periodically removes expired chat sessions,
// usage records whose session no longer exists, and recipe lines whose
// product was removed from the catalog.

import (
	"context"
	"time"

	"signrecipes/internal/service"

	"github.com/rs/zerolog/log"
)

// SweeperConfig holds all dependencies for the retention goroutine.
type SweeperConfig struct {
	Cleanup   service.CleanupService
	Interval  time.Duration
	Retention time.Duration
}

// StartSweeper launches a background goroutine that runs a retention sweep
// on every tick. It respects the context for graceful shutdown.
func StartSweeper(ctx context.Context, cfg SweeperConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().
			Dur("interval", cfg.Interval).
			Dur("retention", cfg.Retention).
			Msg("sweeper: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sweeper: shutting down")
				return
			case <-ticker.C:
				runSweep(ctx, cfg)
			}
		}
	}()
}

func runSweep(ctx context.Context, cfg SweeperConfig) {
	res, err := cfg.Cleanup.Sweep(ctx, cfg.Retention)
	if err != nil {
		log.Error().Err(err).Msg("sweeper: sweep failed")
		return
	}
	if res.SessionsRemoved > 0 || res.UsageRowsRemoved > 0 || res.RecipeRowsRemoved > 0 {
		log.Info().
			Int64("sessions", res.SessionsRemoved).
			Int64("usage_rows", res.UsageRowsRemoved).
			Int64("recipe_rows", res.RecipeRowsRemoved).
			Msg("sweeper: sweep completed")
	}
}
