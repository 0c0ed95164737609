package repository

import (
	"context"

	"github.com/mobility-map/internal/domain"
)

// StreamPublisher - сторона relay: пишет RelayBatch в общий стрим
type StreamPublisher interface {
	// PublishToStream сериализует data в JSON и добавляет запись с обрезкой по MAXLEN
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}

// StreamConsumer - сторона сессии в режиме stream. Каждый запуск фида
// получает свою группу, поэтому сессии не делят записи между собой.
type StreamConsumer interface {
	// CreateConsumerGroup начинает группу с "$": старые записи не перечитываются
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// DeleteConsumerGroup вызывается при отмене запуска
	DeleteConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeStream закрывает канал при отмене ctx
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)

	AckMessage(ctx context.Context, stream, group, messageID string) error
}

type StreamRepository interface {
	StreamPublisher
	StreamConsumer
}
