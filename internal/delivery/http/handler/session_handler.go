package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/pkg/utils"
	"github.com/mobility-map/internal/usecase"
	"github.com/mobility-map/internal/usecase/dto"
)

// SessionHandler - сессии карты: viewport, фильтры, маркеры и кластеры
type SessionHandler struct {
	sessions *usecase.SessionManager
	logger   *zap.Logger
}

// NewSessionHandler создает обработчик сессий карты
func NewSessionHandler(sessions *usecase.SessionManager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CreateSession godoc
// @Summary Create map session
// @Description Создаёт сессию карты и запускает фид. Без тела - Осло и обе системы.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest false "Начальный viewport, фильтр и опции"
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	view, err := h.sessions.Create(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendStatus(c, fiber.StatusCreated, view.Info(), nil)
}

// GetSession godoc
// @Summary Get map session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, view.Info(), nil)
}

// DeleteSession godoc
// @Summary Delete map session
// @Description Останавливает фид и удаляет состояние сессии
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateViewport godoc
// @Summary Update viewport
// @Description Изменение применяется после окна debounce, промежуточные значения не запускают фид
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ViewportRequest true "Viewport"
// @Success 202 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/viewport [put]
func (h *SessionHandler) UpdateViewport(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.ViewportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidViewport)
	}
	if err := validate(&req); err != nil {
		return utils.SendError(c, err)
	}
	if err := view.SetViewport(req.ToDomain()); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendStatus(c, fiber.StatusAccepted, view.Info(), nil)
}

// UpdateFilter godoc
// @Summary Update filter
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.FilterRequest true "Filter"
// @Success 202 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/filter [put]
func (h *SessionHandler) UpdateFilter(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.FilterRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	view.SetFilter(req.ToDomain())

	return utils.SendStatus(c, fiber.StatusAccepted, view.Info(), nil)
}

// UpdateOptions godoc
// @Summary Update map options
// @Description Радиус, тип карты и типы систем. Без систем данные очищаются и фид не запускается.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.OptionsRequest true "Options"
// @Success 202 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/options [put]
func (h *SessionHandler) UpdateOptions(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.OptionsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	if err := view.SetOptions(req.ToDomain()); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendStatus(c, fiber.StatusAccepted, view.Info(), nil)
}

// Refresh godoc
// @Summary Refresh session data
// @Description Перезапускает фид с текущим запросом, данные не очищаются
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 202 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/refresh [post]
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	view.Refresh()

	return utils.SendStatus(c, fiber.StatusAccepted, view.Info(), nil)
}

// GetMarkers godoc
// @Summary Get clustered markers
// @Description Маркеры для viewport из query, по умолчанию для текущего viewport сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param min_lat query number false "South"
// @Param min_lon query number false "West"
// @Param max_lat query number false "North"
// @Param max_lon query number false "East"
// @Param zoom query int false "Zoom level"
// @Success 200 {object} utils.SuccessResponse{data=dto.MarkersResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/markers [get]
func (h *SessionHandler) GetMarkers(c *fiber.Ctx) error {
	start := time.Now()

	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	req, err := viewportFromQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var vp *domain.Viewport
	if req != nil {
		v := req.ToDomain()
		vp = &v
	}

	result, err := view.Markers(vp)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Markers),
		Version:  result.Version,
		Zoom:     result.Viewport.Zoom,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// GetClusterExpansion godoc
// @Summary Get cluster expansion zoom
// @Description Зум, на котором кластер распадается, и центр для перелёта камеры
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param cluster_id path int true "Cluster ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.ClusterExpansionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/clusters/{cluster_id}/expansion [get]
func (h *SessionHandler) GetClusterExpansion(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	clusterID, err := c.ParamsInt("cluster_id")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"cluster_id": c.Params("cluster_id"),
		}))
	}

	result, err := view.ExpansionZoom(clusterID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// GetClusterLeaves godoc
// @Summary Get cluster leaves
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param cluster_id path int true "Cluster ID"
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} utils.SuccessResponse{data=dto.ClusterLeavesResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/clusters/{cluster_id}/leaves [get]
func (h *SessionHandler) GetClusterLeaves(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	clusterID, err := c.ParamsInt("cluster_id")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"cluster_id": c.Params("cluster_id"),
		}))
	}
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 500 || offset < 0 {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"limit":  limit,
			"offset": offset,
		}))
	}

	result, err := view.ClusterLeaves(clusterID, limit, offset)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: len(result.Leaves)})
}

// GetStatistics godoc
// @Summary Get session statistics
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Statistics}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/statistics [get]
func (h *SessionHandler) GetStatistics(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, view.Statistics(), &utils.Meta{Version: view.Version()})
}

// GetVehicle godoc
// @Summary Get vehicle details
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param vehicle_id path string true "Vehicle ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Vehicle}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/vehicles/{vehicle_id} [get]
func (h *SessionHandler) GetVehicle(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	vehicle, err := view.Vehicle(c.Params("vehicle_id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, vehicle, nil)
}

// GetStation godoc
// @Summary Get station details
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param station_id path string true "Station ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Station}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/stations/{station_id} [get]
func (h *SessionHandler) GetStation(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	station, err := view.Station(c.Params("station_id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, station, nil)
}
