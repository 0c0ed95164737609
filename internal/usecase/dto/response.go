package dto

import (
	"time"

	"github.com/mobility-map/internal/cluster"
	"github.com/mobility-map/internal/domain"
)

// SessionResponse - состояние сессии карты
type SessionResponse struct {
	ID         string            `json:"id"`
	Query      domain.Query      `json:"query"`
	Mode       domain.Mode       `json:"mode"`
	Feed       string            `json:"feed"`
	Statistics domain.Statistics `json:"statistics"`
	CreatedAt  time.Time         `json:"created_at"`
}

// MarkersResponse - маркеры для viewport. Version меняется вместе с набором точек.
type MarkersResponse struct {
	Markers    []cluster.Marker  `json:"markers"`
	Viewport   domain.Viewport   `json:"viewport"`
	Statistics domain.Statistics `json:"statistics"`
	Version    uint64            `json:"version"`
}

// ClusterExpansionResponse - куда приблизить карту, чтобы кластер распался
type ClusterExpansionResponse struct {
	ClusterID int          `json:"cluster_id"`
	Zoom      int          `json:"zoom"`
	Center    domain.Point `json:"center"`
}

type ClusterLeavesResponse struct {
	ClusterID int               `json:"cluster_id"`
	Leaves    []domain.GeoPoint `json:"leaves"`
}

// ChangeEvent уходит подписчикам сессии после каждого изменения данных
type ChangeEvent struct {
	Type       string            `json:"type"`
	SessionID  string            `json:"session_id"`
	Version    uint64            `json:"version"`
	Statistics domain.Statistics `json:"statistics"`
}

// ClientConfigResponse - публичная часть конфигурации для дашборда
type ClientConfigResponse struct {
	Env                   string        `json:"env"`
	FeedMode              string        `json:"feed_mode"`
	GraphQLEndpoint       string        `json:"graphql_endpoint"`
	SubscriptionsEndpoint string        `json:"subscriptions_endpoint"`
	DebounceWindow        time.Duration `json:"debounce_window_ns"`
	PollInterval          time.Duration `json:"poll_interval_ns"`
	MaxZoom               int           `json:"max_zoom"`
}
