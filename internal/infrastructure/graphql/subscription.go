package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/config"
)

// graphql-transport-ws
const (
	subprotocol = "graphql-transport-ws"

	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
	msgPing           = "ping"
	msgPong           = "pong"
)

var ErrSubscriptionClosed = errors.New("subscription closed by server")

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type subscribePayload struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// SubscriptionClient открывает по одному websocket соединению на подписку
type SubscriptionClient struct {
	endpoint   string
	clientName string
	dialer     *websocket.Dialer
	ackTimeout time.Duration
	logger     *zap.Logger
}

// NewSubscriptionClient создает клиент graphql-transport-ws
func NewSubscriptionClient(cfg *config.MobilityConfig, logger *zap.Logger) *SubscriptionClient {
	return &SubscriptionClient{
		endpoint:   cfg.SubscriptionsEndpoint,
		clientName: cfg.ClientName,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.RequestTimeout,
			Subprotocols:     []string{subprotocol},
		},
		ackTimeout: cfg.RequestTimeout,
		logger:     logger,
	}
}

// Subscribe блокирует, пока ctx не отменён или сервер не завершил подписку.
// next вызывается последовательно, в порядке прихода сообщений.
func (c *SubscriptionClient) Subscribe(ctx context.Context, query string, variables map[string]interface{}, next func(data json.RawMessage) error) error {
	header := http.Header{}
	header.Set(clientNameHeader, c.clientName)

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, header)
	if err != nil {
		return fmt.Errorf("dial subscriptions endpoint: %w", err)
	}

	var writeMu sync.Mutex
	write := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	id := uuid.NewString()
	done := make(chan struct{})
	defer close(done)

	// при отмене ctx вежливо завершаем подписку и рвём соединение, чтобы разблокировать чтение
	go func() {
		select {
		case <-ctx.Done():
			_ = write(wsMessage{ID: id, Type: msgComplete})
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	if err := c.handshake(conn, write); err != nil {
		return c.wrapErr(ctx, err)
	}

	payload, err := json.Marshal(subscribePayload{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal subscribe payload: %w", err)
	}
	if err := write(wsMessage{ID: id, Type: msgSubscribe, Payload: payload}); err != nil {
		return c.wrapErr(ctx, fmt.Errorf("send subscribe: %w", err))
	}

	c.logger.Debug("Subscription started", zap.String("id", id), zap.String("endpoint", c.endpoint))

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return c.wrapErr(ctx, fmt.Errorf("read message: %w", err))
		}

		switch msg.Type {
		case msgNext:
			if msg.ID != id {
				continue
			}
			var res response
			if err := json.Unmarshal(msg.Payload, &res); err != nil {
				c.logger.Warn("Skipping undecodable subscription payload", zap.Error(err))
				continue
			}
			if len(res.Errors) > 0 {
				c.logger.Warn("Subscription payload has errors", zap.Error(Errors(res.Errors)))
			}
			if len(res.Data) == 0 {
				continue
			}
			if err := next(res.Data); err != nil {
				return err
			}
		case msgError:
			var errs []Error
			_ = json.Unmarshal(msg.Payload, &errs)
			return Errors(errs)
		case msgComplete:
			if msg.ID == id {
				return ErrSubscriptionClosed
			}
		case msgPing:
			if err := write(wsMessage{Type: msgPong}); err != nil {
				return c.wrapErr(ctx, fmt.Errorf("send pong: %w", err))
			}
		case msgPong, msgConnectionAck:
		default:
			c.logger.Debug("Unknown subscription message", zap.String("type", msg.Type))
		}
	}
}

func (c *SubscriptionClient) handshake(conn *websocket.Conn, write func(wsMessage) error) error {
	if err := write(wsMessage{Type: msgConnectionInit, Payload: json.RawMessage(`{}`)}); err != nil {
		return fmt.Errorf("send connection_init: %w", err)
	}

	if c.ackTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(c.ackTimeout))
	}
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("wait connection_ack: %w", err)
		}
		switch msg.Type {
		case msgConnectionAck:
			return conn.SetReadDeadline(time.Time{})
		case msgPing:
			if err := write(wsMessage{Type: msgPong}); err != nil {
				return fmt.Errorf("send pong: %w", err)
			}
		default:
			return fmt.Errorf("unexpected %q before connection_ack", msg.Type)
		}
	}
}

// wrapErr: после отмены ctx любые ошибки соединения сводятся к ctx.Err()
func (c *SubscriptionClient) wrapErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
