package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionExpirer - то, что умеет закрывать простаивающие сессии
type SessionExpirer interface {
	ExpireIdle(now time.Time) int
}

// SessionJanitor периодически закрывает сессии без активности
type SessionJanitor struct {
	*BaseWorker
	sessions SessionExpirer
	interval time.Duration
}

// NewSessionJanitor создает воркер, закрывающий простаивающие сессии
func NewSessionJanitor(sessions SessionExpirer, interval time.Duration, logger *zap.Logger) *SessionJanitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionJanitor{
		BaseWorker: NewBaseWorker("session-janitor", logger),
		sessions:   sessions,
		interval:   interval,
	}
}

// Start запускает тикер очистки
func (w *SessionJanitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Logger().Info("Session janitor started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan():
			return nil
		case now := <-ticker.C:
			if n := w.sessions.ExpireIdle(now); n > 0 {
				w.Logger().Debug("Idle sessions expired", zap.Int("count", n))
			}
		}
	}
}
