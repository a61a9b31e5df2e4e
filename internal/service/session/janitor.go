package session

import (
	"context"
	"time"

	"github.com/sandevgo/pixbot/pkg/log"
)

// Janitor periodically evicts expired sessions. It runs as a srv.Service.
type Janitor struct {
	store    *Store
	interval time.Duration
}

func NewJanitor(store *Store, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{store: store, interval: interval}
}

func (j *Janitor) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := j.store.Evict(); removed > 0 {
				logger.Debug().Int("removed", removed).Int("remaining", j.store.Len()).Msg("evicted expired sessions")
			}
		}
	}
}

func (j *Janitor) Shutdown(ctx context.Context) error {
	return nil
}
