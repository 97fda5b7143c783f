package workers

import (
	"chat-core/repositories"
	"context"
	"log/slog"
	"time"
)

// TypingSweeper periodically drops expired typing rows. Pure storage hygiene:
// liveness is decided by the read-time expiry filter, so sweeping (or not
// sweeping) never changes what callers observe.
type TypingSweeper struct {
	typing   repositories.ITypingRepository
	log      *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func NewTypingSweeper(typing repositories.ITypingRepository, log *slog.Logger, interval time.Duration) *TypingSweeper {
	return &TypingSweeper{typing: typing, log: log, interval: interval, now: time.Now}
}

func (w *TypingSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			deleted, err := w.typing.DeleteExpired(w.now())
			if err != nil {
				return err
			}
			if deleted > 0 {
				w.log.Debug("Swept expired typing events", "deleted", deleted)
			}
		}
	}
}
