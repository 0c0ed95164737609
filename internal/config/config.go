package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Mobility MobilityConfig
	Feed     FeedConfig
	Cluster  ClusterConfig
	Session  SessionConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type CacheConfig struct {
	OperatorsCacheTTL  time.Duration
	CodespacesCacheTTL time.Duration
	ZonesCacheTTL      time.Duration
}

type LogConfig struct {
	Level string
}

// MobilityConfig - параметры GraphQL API мобильности.
// BootstrapURL, если задан, переопределяет эндпоинты при старте.
type MobilityConfig struct {
	Env                   string
	BootstrapURL          string
	GraphQLEndpoint       string
	SubscriptionsEndpoint string
	ClientName            string
	RequestTimeout        time.Duration
}

type FeedConfig struct {
	Mode           string
	PollInterval   time.Duration
	DebounceWindow time.Duration
	FetchTimeout   time.Duration
	RetryBackoff   time.Duration
	Stream         string
}

type ClusterConfig struct {
	MinZoom   int
	MaxZoom   int
	MinPoints int
	Radius    float64
	Extent    float64
	NodeSize  int
}

type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	MaxSessions   int
}

// WorkerConfig - relay воркер: подписка на bbox и публикация в stream
type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	RelayBBox     BBox
	Kinds         []string
	MaxStreamLen  int64
}

type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

const (
	FeedModePoll         = "poll"
	FeedModeSubscription = "subscription"
	FeedModeStream       = "stream"
)

// Load читает конфигурацию из .env и переменных окружения
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// .env опционален, в контейнере всё приходит через окружение
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),

			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Cache: CacheConfig{
			OperatorsCacheTTL:  time.Duration(v.GetInt("OPERATORS_CACHE_TTL")) * time.Second,
			CodespacesCacheTTL: time.Duration(v.GetInt("CODESPACES_CACHE_TTL")) * time.Second,
			ZonesCacheTTL:      time.Duration(v.GetInt("ZONES_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Mobility: MobilityConfig{
			Env:                   v.GetString("MOBILITY_ENV"),
			BootstrapURL:          v.GetString("BOOTSTRAP_URL"),
			GraphQLEndpoint:       v.GetString("MOBILITY_GRAPHQL_ENDPOINT"),
			SubscriptionsEndpoint: v.GetString("MOBILITY_SUBSCRIPTIONS_ENDPOINT"),
			ClientName:            v.GetString("MOBILITY_CLIENT_NAME"),
			RequestTimeout:        time.Duration(v.GetInt("MOBILITY_REQUEST_TIMEOUT")) * time.Millisecond,
		},
		Feed: FeedConfig{
			Mode:           strings.ToLower(v.GetString("FEED_MODE")),
			PollInterval:   time.Duration(v.GetInt("FEED_POLL_INTERVAL")) * time.Millisecond,
			DebounceWindow: time.Duration(v.GetInt("FEED_DEBOUNCE_WINDOW")) * time.Millisecond,
			FetchTimeout:   time.Duration(v.GetInt("FEED_FETCH_TIMEOUT")) * time.Millisecond,
			RetryBackoff:   time.Duration(v.GetInt("FEED_RETRY_BACKOFF")) * time.Millisecond,
			Stream:         v.GetString("FEED_STREAM"),
		},
		Cluster: ClusterConfig{
			MinZoom:   v.GetInt("CLUSTER_MIN_ZOOM"),
			MaxZoom:   v.GetInt("CLUSTER_MAX_ZOOM"),
			MinPoints: v.GetInt("CLUSTER_MIN_POINTS"),
			Radius:    v.GetFloat64("CLUSTER_RADIUS"),
			Extent:    v.GetFloat64("CLUSTER_EXTENT"),
			NodeSize:  v.GetInt("CLUSTER_NODE_SIZE"),
		},
		Session: SessionConfig{
			IdleTimeout:   time.Duration(v.GetInt("SESSION_IDLE_TIMEOUT")) * time.Second,
			SweepInterval: time.Duration(v.GetInt("SESSION_SWEEP_INTERVAL")) * time.Second,
			MaxSessions:   v.GetInt("SESSION_MAX"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			RelayBBox:     parseBBox(v.GetString("WORKER_RELAY_BBOX")),
			Kinds:         parseList(v.GetString("WORKER_RELAY_KINDS")),
			MaxStreamLen:  v.GetInt64("WORKER_MAX_STREAM_LEN"),
		},
	}

	cfg.applyDefaults()
	return cfg
}

// applyDefaults - значения по умолчанию как в веб-клиенте карты (Осло, радиус 5 км)
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.AllowOrigins == "" {
		c.Server.AllowOrigins = "http://localhost:3000,http://localhost:5173"
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 50
	}
	if c.Cache.OperatorsCacheTTL == 0 {
		c.Cache.OperatorsCacheTTL = time.Hour
	}
	if c.Cache.CodespacesCacheTTL == 0 {
		c.Cache.CodespacesCacheTTL = time.Hour
	}
	if c.Cache.ZonesCacheTTL == 0 {
		c.Cache.ZonesCacheTTL = 6 * time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Mobility.Env == "" {
		c.Mobility.Env = "dev"
	}
	if c.Mobility.ClientName == "" {
		c.Mobility.ClientName = "entur-mobility-map"
	}
	if c.Mobility.RequestTimeout == 0 {
		c.Mobility.RequestTimeout = 10 * time.Second
	}
	if c.Mobility.GraphQLEndpoint == "" {
		c.Mobility.GraphQLEndpoint = DefaultGraphQLEndpoint(c.Mobility.Env)
	}
	if c.Mobility.SubscriptionsEndpoint == "" {
		c.Mobility.SubscriptionsEndpoint = SubscriptionsEndpointFor(c.Mobility.GraphQLEndpoint)
	}
	if c.Feed.Mode == "" {
		c.Feed.Mode = FeedModePoll
	}
	if c.Feed.PollInterval == 0 {
		c.Feed.PollInterval = 10 * time.Second
	}
	if c.Feed.DebounceWindow == 0 {
		c.Feed.DebounceWindow = 300 * time.Millisecond
	}
	if c.Feed.FetchTimeout == 0 {
		c.Feed.FetchTimeout = 10 * time.Second
	}
	if c.Feed.RetryBackoff == 0 {
		c.Feed.RetryBackoff = 5 * time.Second
	}
	if c.Feed.Stream == "" {
		c.Feed.Stream = "stream:mobility:updates"
	}
	if c.Cluster.MaxZoom == 0 {
		c.Cluster.MaxZoom = 16
	}
	if c.Cluster.MinPoints == 0 {
		c.Cluster.MinPoints = 2
	}
	if c.Cluster.Radius == 0 {
		c.Cluster.Radius = 40
	}
	if c.Cluster.Extent == 0 {
		c.Cluster.Extent = 512
	}
	if c.Cluster.NodeSize == 0 {
		c.Cluster.NodeSize = 64
	}
	if c.Session.IdleTimeout == 0 {
		c.Session.IdleTimeout = 15 * time.Minute
	}
	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = time.Minute
	}
	if c.Session.MaxSessions == 0 {
		c.Session.MaxSessions = 1000
	}
	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "mobility-map-relay"
	}
	if c.Worker.RelayBBox == (BBox{}) {
		c.Worker.RelayBBox = BBox{MinLat: 59.80, MinLon: 10.55, MaxLat: 60.02, MaxLon: 10.95}
	}
	if len(c.Worker.Kinds) == 0 {
		c.Worker.Kinds = []string{"vehicles", "stations"}
	}
	if c.Worker.MaxStreamLen == 0 {
		c.Worker.MaxStreamLen = 10000
	}
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseBBox разбирает "minLat,minLon,maxLat,maxLon"; при ошибке возвращает пустой bbox
func parseBBox(s string) BBox {
	parts := parseList(s)
	if len(parts) != 4 {
		return BBox{}
	}
	var vals [4]float64
	for i, p := range parts {
		if _, err := fmt.Sscanf(p, "%g", &vals[i]); err != nil {
			return BBox{}
		}
	}
	return BBox{MinLat: vals[0], MinLon: vals[1], MaxLat: vals[2], MaxLon: vals[3]}
}

// GetServerAddr - адрес для Listen
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Addr - host:port для redis.Options
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
