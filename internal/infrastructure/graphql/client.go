package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/config"
)

const clientNameHeader = "ET-Client-Name"

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors,omitempty"`
}

// Error - ошибка из поля errors ответа GraphQL
type Error struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

type Errors []Error

// Error склеивает сообщения всех ошибок ответа
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// Client - HTTP клиент GraphQL API. Создаётся явно и передаётся зависимостям.
type Client struct {
	httpClient *http.Client
	endpoint   string
	clientName string
	logger     *zap.Logger
}

// NewClient создает HTTP клиент GraphQL API мобильности
func NewClient(cfg *config.MobilityConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		endpoint:   cfg.GraphQLEndpoint,
		clientName: cfg.ClientName,
		logger:     logger,
	}
}

// Do выполняет запрос и декодирует data в out
func (c *Client) Do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(clientNameHeader, c.clientName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// отмену не логируем как ошибку, это штатный supersede
		if ctx.Err() == nil {
			c.logger.Error("Failed to execute request", zap.Error(err))
		}
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Mobility API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return fmt.Errorf("mobility API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var gqlResp response
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		c.logger.Warn("Mobility API returned GraphQL errors", zap.Error(Errors(gqlResp.Errors)))
		return Errors(gqlResp.Errors)
	}
	if out == nil || len(gqlResp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
