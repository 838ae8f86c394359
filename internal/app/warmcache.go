package app

import (
	"context"
	"time"
)

// warmTimeout bounds the startup warm pass so a hung warehouse cannot pin a
// goroutine for the life of the process.
const warmTimeout = 2 * time.Minute

// StartWarmCache pre-resolves historical facts for the configured dashboard
// symbols in the background. The server starts serving immediately; requests
// arriving before the warm pass finishes simply pay the cache-miss cost.
func (a *App) StartWarmCache() {
	symbols := a.Config.Symbols
	if len(symbols) == 0 {
		a.Logger.Debug().Msg("No symbols configured, skipping cache warm")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	a.warmCancel = cancel

	a.Logger.Info().Int("symbols", len(symbols)).Msg("Starting cache warm")

	go func() {
		defer cancel()
		a.Performance.WarmCache(ctx, symbols)
	}()
}
