package worker

import "context"

// Worker - фоновая задача процесса: janitor сессий в api, relay в cmd/worker.
// WorkerManager запускает каждый Worker в своей горутине.
type Worker interface {
	// Start блокирует до отмены ctx или Stop и возвращает nil при штатной остановке
	Start(ctx context.Context) error

	// Stop идемпотентен
	Stop() error

	// Name - для логов
	Name() string
}
