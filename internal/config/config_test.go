package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, FeedModePoll, cfg.Feed.Mode)
	assert.Equal(t, 300*time.Millisecond, cfg.Feed.DebounceWindow)
	assert.Equal(t, 10*time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, 16, cfg.Cluster.MaxZoom)
	assert.Equal(t, 2, cfg.Cluster.MinPoints)
	assert.Equal(t, "entur-mobility-map", cfg.Mobility.ClientName)
	assert.Equal(t, graphQLEndpointDev, cfg.Mobility.GraphQLEndpoint)
	assert.Equal(t, "wss://api.dev.entur.io/mobility/v2/subscriptions", cfg.Mobility.SubscriptionsEndpoint)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 50, cfg.Redis.PoolSize)
	assert.Equal(t, "http://localhost:3000,http://localhost:5173", cfg.Server.AllowOrigins)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("FEED_MODE", "Subscription")
	v.Set("MOBILITY_ENV", "prod")
	v.Set("CLUSTER_MAX_ZOOM", 18)
	v.Set("WORKER_RELAY_BBOX", "59.0, 10.0, 60.0, 11.0")
	v.Set("WORKER_RELAY_KINDS", "vehicles")

	cfg := fromViper(v)

	assert.Equal(t, FeedModeSubscription, cfg.Feed.Mode)
	assert.Equal(t, graphQLEndpointProd, cfg.Mobility.GraphQLEndpoint)
	assert.Equal(t, 18, cfg.Cluster.MaxZoom)
	assert.Equal(t, BBox{MinLat: 59, MinLon: 10, MaxLat: 60, MaxLon: 11}, cfg.Worker.RelayBBox)
	assert.Equal(t, []string{"vehicles"}, cfg.Worker.Kinds)
}

func TestParseBBox_Invalid(t *testing.T) {
	assert.Equal(t, BBox{}, parseBBox("1,2,3"))
	assert.Equal(t, BBox{}, parseBBox("a,b,c,d"))
}

func TestDefaultGraphQLEndpoint(t *testing.T) {
	assert.Equal(t, graphQLEndpointStaging, DefaultGraphQLEndpoint("staging"))
	assert.Equal(t, graphQLEndpointProd, DefaultGraphQLEndpoint("production"))
	assert.Equal(t, graphQLEndpointDev, DefaultGraphQLEndpoint(""))
}

func TestSubscriptionsEndpointFor(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080/subscriptions", SubscriptionsEndpointFor("http://localhost:8080/graphql"))
	assert.Equal(t, "wss://example.org/api", SubscriptionsEndpointFor("https://example.org/api"))
}

func TestFetchBootstrap(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"mobilityGraphqlEndpoint":"https://example.org/mobility/graphql"}`))
		}))
		defer server.Close()

		b, err := FetchBootstrap(context.Background(), server.Client(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "https://example.org/mobility/graphql", b.MobilityGraphQLEndpoint)

		var m MobilityConfig
		m.Apply(b)
		assert.Equal(t, "https://example.org/mobility/graphql", m.GraphQLEndpoint)
		assert.Equal(t, "wss://example.org/mobility/subscriptions", m.SubscriptionsEndpoint)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := FetchBootstrap(context.Background(), server.Client(), server.URL)
		assert.Error(t, err)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := FetchBootstrap(context.Background(), server.Client(), server.URL)
		assert.Error(t, err)
	})
}
