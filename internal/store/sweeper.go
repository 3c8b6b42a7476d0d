package store

import (
	"context"
	"log/slog"
	"time"
)

// RunSweeper removes sessions older than ttl every interval until ctx is cancelled.
//
// It returns nil when ctx is cancelled. A failed sweep is logged and retried on the next tick.
// When ttl is zero sessions never expire and RunSweeper just waits for ctx.
func RunSweeper(ctx context.Context, backend Backend, ttl, interval time.Duration, logger *slog.Logger) error {
	if ttl <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("session sweeper started",
		slog.Duration("ttl", ttl),
		slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("session sweeper stopped")
			return nil
		case now := <-ticker.C:
			removed, err := backend.ExpireSessions(ctx, now.Add(-ttl))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("session sweep failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				logger.Debug("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}
