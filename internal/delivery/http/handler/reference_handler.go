package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/pkg/utils"
	"github.com/mobility-map/internal/usecase"
	"github.com/mobility-map/internal/usecase/dto"
)

// ReferenceHandler - справочники: операторы, кодспейсы, зоны геофенсинга
type ReferenceHandler struct {
	referenceUC *usecase.ReferenceUseCase
	logger      *zap.Logger
}

// NewReferenceHandler создает обработчик справочников
func NewReferenceHandler(referenceUC *usecase.ReferenceUseCase, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		referenceUC: referenceUC,
		logger:      logger,
	}
}

// GetOperators godoc
// @Summary List operators
// @Tags Reference
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Operator}
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/operators [get]
func (h *ReferenceHandler) GetOperators(c *fiber.Ctx) error {
	operators, err := h.referenceUC.GetOperators(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to get operators", zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, operators, &utils.Meta{Total: len(operators)})
}

// GetCodespaces godoc
// @Summary List codespaces
// @Tags Reference
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]string}
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/codespaces [get]
func (h *ReferenceHandler) GetCodespaces(c *fiber.Ctx) error {
	codespaces, err := h.referenceUC.GetCodespaces(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to get codespaces", zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, codespaces, &utils.Meta{Total: len(codespaces)})
}

// GetGeofencingZones godoc
// @Summary List geofencing zones
// @Description Зоны для systemIds, опционально только пересекающие bbox
// @Tags Reference
// @Produce json
// @Param system_ids query string true "Comma separated system IDs"
// @Param min_lat query number false "South"
// @Param min_lon query number false "West"
// @Param max_lat query number false "North"
// @Param max_lon query number false "East"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.GeofencingZones}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/geofencing-zones [get]
func (h *ReferenceHandler) GetGeofencingZones(c *fiber.Ctx) error {
	vp, err := viewportFromQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.GeofencingZonesRequest{
		SystemIDs: splitList(c.Query("system_ids")),
		Viewport:  vp,
	}
	if err := validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	var bbox *domain.BoundingBox
	if req.Viewport != nil {
		b := req.Viewport.ToDomain().BoundingBox
		bbox = &b
	}

	zones, err := h.referenceUC.GetGeofencingZones(c.UserContext(), req.SystemIDs, bbox)
	if err != nil {
		h.logger.Error("Failed to get geofencing zones",
			zap.Strings("system_ids", req.SystemIDs),
			zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, zones, &utils.Meta{Total: len(zones)})
}
