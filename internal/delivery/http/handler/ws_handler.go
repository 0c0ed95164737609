package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/metrics"
	"github.com/mobility-map/internal/pkg/utils"
	"github.com/mobility-map/internal/usecase"
	"github.com/mobility-map/internal/usecase/dto"
)

const (
	sessionLocalKey = "session"
	wsWriteTimeout  = 10 * time.Second
	wsPingInterval  = 30 * time.Second
)

// WSHandler пушит дашборду изменения состояния сессии. Маркеры клиент
// дочитывает через GET /markers, когда видит новую версию.
type WSHandler struct {
	sessions *usecase.SessionManager
	logger   *zap.Logger
}

// NewWSHandler создает обработчик websocket потока сессии
func NewWSHandler(sessions *usecase.SessionManager, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Upgrade пропускает только websocket запросы к существующей сессии
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	c.Locals(sessionLocalKey, view)
	return c.Next()
}

// Stream godoc
// @Summary Session change stream
// @Description Websocket: первым приходит snapshot, дальше state_changed на каждое изменение
// @Tags Sessions
// @Param id path string true "Session ID"
// @Router /ws/sessions/{id} [get]
func (h *WSHandler) Stream(conn *websocket.Conn) {
	view, ok := conn.Locals(sessionLocalKey).(*usecase.MapView)
	if !ok {
		_ = conn.Close()
		return
	}
	logger := h.logger.With(zap.String("session_id", view.ID()))

	events, unsubscribe := view.Subscribe()
	defer unsubscribe()

	metrics.WebsocketClients.Inc()
	defer metrics.WebsocketClients.Dec()
	logger.Debug("Websocket client connected")

	// сообщения клиента не нужны, читаем только чтобы заметить закрытие
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			view.Touch()
		}
	}()

	write := func(ev dto.ChangeEvent) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(ev)
	}

	if err := write(dto.ChangeEvent{
		Type:       "snapshot",
		SessionID:  view.ID(),
		Version:    view.Version(),
		Statistics: view.Statistics(),
	}); err != nil {
		logger.Debug("Websocket write failed", zap.Error(err))
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			logger.Debug("Websocket client disconnected")
			return

		case ev, ok := <-events:
			if !ok {
				// сессия закрыта
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(wsWriteTimeout))
				return
			}
			if err := write(ev); err != nil {
				logger.Debug("Websocket write failed", zap.Error(err))
				return
			}
			view.Touch()

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
