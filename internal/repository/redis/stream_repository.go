package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
)

const (
	// payloadField - поле записи с JSON батча
	payloadField = "data"

	readCount    = 10
	readBlock    = time.Second
	retryBackoff = time.Second
)

type streamRepository struct {
	client *redis.Client
	maxLen int64
	logger *zap.Logger
}

// NewStreamRepository: maxLen > 0 включает XADD MAXLEN ~ maxLen.
func NewStreamRepository(client *redis.Client, maxLen int64, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		maxLen: maxLen,
		logger: logger,
	}
}

// CreateConsumerGroup создает группу с "$", BUSYGROUP не ошибка
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	log := r.logger.With(zap.String("stream", stream), zap.String("group", group))

	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	switch {
	case err == nil:
		log.Debug("Consumer group created")
		return nil
	case strings.HasPrefix(err.Error(), "BUSYGROUP"):
		log.Debug("Consumer group already exists")
		return nil
	default:
		log.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("xgroup create %s/%s: %w", stream, group, err)
	}
}

// DeleteConsumerGroup удаляет группу запуска
func (r *streamRepository) DeleteConsumerGroup(ctx context.Context, stream, group string) error {
	if err := r.client.XGroupDestroy(ctx, stream, group).Err(); err != nil {
		r.logger.Warn("Failed to delete consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("xgroup destroy %s/%s: %w", stream, group, err)
	}
	return nil
}

// ConsumeStream читает записи группы, канал закрывается при отмене ctx
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	out := make(chan domain.StreamMessage, readCount)
	log := r.logger.With(zap.String("stream", stream), zap.String("consumer", consumer))

	go func() {
		defer close(out)
		defer log.Debug("Stream consumer stopped")

		args := &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    readCount,
			Block:    readBlock,
		}

		for ctx.Err() == nil {
			streams, err := r.client.XReadGroup(ctx, args).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error("Failed to read from stream", zap.Error(err))
				if !sleep(ctx, retryBackoff) {
					return
				}
				continue
			}
			if !r.forward(ctx, log, streams, out) {
				return
			}
		}
	}()

	return out, nil
}

// forward отдает записи в out, false - ctx отменен
func (r *streamRepository) forward(ctx context.Context, log *zap.Logger, streams []redis.XStream, out chan<- domain.StreamMessage) bool {
	for _, s := range streams {
		for _, msg := range s.Messages {
			data, ok := msg.Values[payloadField].(string)
			if !ok {
				log.Warn("Stream entry without payload", zap.String("message_id", msg.ID))
				continue
			}
			select {
			case out <- domain.StreamMessage{ID: msg.ID, Data: data}:
			case <-ctx.Done():
				return false
			}
		}
	}
	return true
}

// AckMessage подтверждает запись
func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		r.logger.Error("Failed to ack stream entry",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("xack %s: %w", messageID, err)
	}
	return nil
}

// PublishToStream публикует JSON в поле data
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode stream payload: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{payloadField: string(payload)},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}

	id, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream", zap.String("stream", stream), zap.Error(err))
		return fmt.Errorf("xadd %s: %w", stream, err)
	}

	r.logger.Debug("Published to stream",
		zap.String("stream", stream),
		zap.String("message_id", id),
		zap.Int("bytes", len(payload)))
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
