package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/cluster"
	"github.com/mobility-map/internal/config"
	"github.com/mobility-map/internal/feed"
	"github.com/mobility-map/internal/metrics"
	"github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/usecase/dto"
)

// SessionManager владеет сессиями карты. Все сессии делят один фид,
// у каждой свой кластеризатор и своё состояние.
type SessionManager struct {
	feed        feed.Feed
	viewOpts    MapViewOptions
	idleTimeout time.Duration
	maxSessions int
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*MapView
}

// NewSessionManager создает реестр сессий с общим фидом
func NewSessionManager(
	f feed.Feed,
	clusterOpts cluster.Options,
	feedCfg *config.FeedConfig,
	sessionCfg *config.SessionConfig,
	logger *zap.Logger,
) *SessionManager {
	return &SessionManager{
		feed: f,
		viewOpts: MapViewOptions{
			Debounce: feedCfg.DebounceWindow,
			Cluster:  clusterOpts,
		},
		idleTimeout: sessionCfg.IdleTimeout,
		maxSessions: sessionCfg.MaxSessions,
		logger:      logger,
		sessions:    make(map[string]*MapView),
	}
}

// Create валидирует запрос, создаёт сессию и сразу запускает фид
func (m *SessionManager) Create(req dto.CreateSessionRequest) (*MapView, error) {
	q := req.ToQuery()
	if err := q.Viewport.Validate(); err != nil {
		return nil, err
	}
	if err := q.Options.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return nil, errors.ErrSessionLimit.WithDetails(map[string]interface{}{
			"max_sessions": m.maxSessions,
		})
	}
	id := uuid.NewString()
	view := NewMapView(id, q, m.feed, m.viewOpts, m.logger)
	m.sessions[id] = view
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	view.Start()

	m.logger.Info("Map session created",
		zap.String("session_id", id),
		zap.String("mode", string(q.Mode())),
		zap.Int("active_sessions", count))
	return view, nil
}

// Get возвращает сессию и продлевает ее активность
func (m *SessionManager) Get(id string) (*MapView, error) {
	m.mu.RLock()
	view, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{"session_id": id})
	}
	view.Touch()
	return view, nil
}

// Delete закрывает сессию и убирает ее из реестра
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	view, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return errors.ErrSessionNotFound.WithDetails(map[string]interface{}{"session_id": id})
	}
	view.Close()
	metrics.ActiveSessions.Set(float64(count))
	m.logger.Info("Map session deleted", zap.String("session_id", id))
	return nil
}

// Count - число активных сессий
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle закрывает сессии без активности дольше idleTimeout
func (m *SessionManager) ExpireIdle(now time.Time) int {
	if m.idleTimeout <= 0 {
		return 0
	}

	var expired []*MapView
	m.mu.Lock()
	for id, view := range m.sessions {
		if now.Sub(view.LastActive()) > m.idleTimeout {
			expired = append(expired, view)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	for _, view := range expired {
		view.Close()
	}
	if len(expired) > 0 {
		metrics.ActiveSessions.Set(float64(count))
		m.logger.Info("Expired idle map sessions",
			zap.Int("expired", len(expired)),
			zap.Int("active_sessions", count))
	}
	return len(expired)
}

// CloseAll - при остановке сервиса
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*MapView)
	m.mu.Unlock()

	for _, view := range sessions {
		view.Close()
	}
	metrics.ActiveSessions.Set(0)
}
