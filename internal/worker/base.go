package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// BaseWorker - имя, логгер с полем worker и сигнал остановки.
// Встраивается в конкретные воркеры, Start они реализуют сами.
type BaseWorker struct {
	name   string
	logger *zap.Logger
	done   chan struct{}
	once   sync.Once
}

// NewBaseWorker создает основу воркера с логгером, помеченным именем
func NewBaseWorker(name string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:   name,
		logger: logger.With(zap.String("worker", name)),
		done:   make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string { return w.name }

func (w *BaseWorker) Logger() *zap.Logger { return w.logger }

// Stop закрывает канал остановки один раз
func (w *BaseWorker) Stop() error {
	w.once.Do(func() {
		w.logger.Info("Stopping worker")
		close(w.done)
	})
	return nil
}

// StopChan закрывается по Stop
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.done
}

// Context отменяется вместе с parent или по Stop
func (w *BaseWorker) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-w.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
