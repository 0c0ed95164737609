package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	graphQLEndpointDev     = "https://api.dev.entur.io/mobility/v2/graphql"
	graphQLEndpointStaging = "https://api.staging.entur.io/mobility/v2/graphql"
	graphQLEndpointProd    = "https://api.entur.io/mobility/v2/graphql"
)

// Bootstrap - JSON дескриптор, который загружается до создания GraphQL клиента
type Bootstrap struct {
	MobilityGraphQLEndpoint       string `json:"mobilityGraphqlEndpoint"`
	MobilitySubscriptionsEndpoint string `json:"mobilitySubscriptionsEndpoint,omitempty"`
}

// FetchBootstrap загружает дескриптор. Любая ошибка здесь должна останавливать старт.
func FetchBootstrap(ctx context.Context, client *http.Client, url string) (*Bootstrap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create bootstrap request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bootstrap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("bootstrap returned status %d: %s", resp.StatusCode, string(body))
	}

	var b Bootstrap
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bootstrap: %w", err)
	}
	if b.MobilityGraphQLEndpoint == "" {
		return nil, fmt.Errorf("bootstrap descriptor has no mobilityGraphqlEndpoint")
	}

	return &b, nil
}

// Apply переписывает эндпоинты значениями из дескриптора
func (m *MobilityConfig) Apply(b *Bootstrap) {
	m.GraphQLEndpoint = b.MobilityGraphQLEndpoint
	if b.MobilitySubscriptionsEndpoint != "" {
		m.SubscriptionsEndpoint = b.MobilitySubscriptionsEndpoint
	} else {
		m.SubscriptionsEndpoint = SubscriptionsEndpointFor(b.MobilityGraphQLEndpoint)
	}
}

// DefaultGraphQLEndpoint выбирает эндпоинт Entur по окружению
func DefaultGraphQLEndpoint(env string) string {
	switch strings.ToLower(env) {
	case "prod", "production":
		return graphQLEndpointProd
	case "staging":
		return graphQLEndpointStaging
	default:
		return graphQLEndpointDev
	}
}

// SubscriptionsEndpointFor: https://host/x/graphql -> wss://host/x/subscriptions
func SubscriptionsEndpointFor(graphqlEndpoint string) string {
	ws := graphqlEndpoint
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	if strings.HasSuffix(ws, "/graphql") {
		ws = strings.TrimSuffix(ws, "/graphql") + "/subscriptions"
	}
	return ws
}
