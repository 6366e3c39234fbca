package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iamasit07/connect4/engine/internal/service/game"
)

type Worker struct {
	Registry *game.Registry
	Interval time.Duration
	log      *zap.Logger
}

func NewWorker(registry *game.Registry, interval time.Duration, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Worker{Registry: registry, Interval: interval, log: log}
}

// Start runs the cleanup once, then every Interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	w.log.Info("[CLEANUP] Background worker started", zap.Duration("interval", w.Interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("[CLEANUP] Background worker stopped")
			return
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *Worker) runCleanup() {
	if removed := w.Registry.CleanupQuit(); removed > 0 {
		w.log.Debug("[CLEANUP] Removed quit games", zap.Int("count", removed))
	}
}
