package workers

import (
	"context"
	"time"

	"folio_backend/internal/logger"
	"folio_backend/internal/repositories"

	"gorm.io/gorm"
)

const sweepInterval = 60 * time.Second

// SessionSweeper deletes sessions older than the expiration window. One
// failed sweep is logged and retried on the next tick; the loop only ends
// when the context is cancelled at shutdown.
type SessionSweeper struct {
	db            *gorm.DB
	userRepo      repositories.UserRepository
	windowSeconds int64
}

func NewSessionSweeper(db *gorm.DB, userRepo repositories.UserRepository, windowSeconds int64) *SessionSweeper {
	return &SessionSweeper{
		db:            db,
		userRepo:      userRepo,
		windowSeconds: windowSeconds,
	}
}

func (w *SessionSweeper) Start(ctx context.Context) {
	logger.Info("session sweeper started", "interval", sweepInterval, "window_seconds", w.windowSeconds)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SessionSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Unix() - w.windowSeconds
	deleted, err := w.userRepo.DeleteExpiredSessions(w.db, cutoff)
	if err != nil {
		logger.CtxWithError(ctx, "session sweep failed", err)
		return
	}
	if deleted > 0 {
		logger.CtxInfo(ctx, "expired sessions deleted", "count", deleted)
	}
}
