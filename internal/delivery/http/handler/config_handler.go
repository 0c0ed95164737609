package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobility-map/internal/config"
	"github.com/mobility-map/internal/pkg/utils"
	"github.com/mobility-map/internal/usecase/dto"
)

// ConfigHandler отдаёт дашборду публичную часть конфигурации
type ConfigHandler struct {
	cfg *config.Config
}

// NewConfigHandler создает обработчик клиентской конфигурации
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// GetConfig godoc
// @Summary Client configuration
// @Description Окружение, эндпоинты API мобильности и параметры фида
// @Tags Config
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ClientConfigResponse}
// @Router /api/v1/config [get]
func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.ClientConfigResponse{
		Env:                   h.cfg.Mobility.Env,
		FeedMode:              h.cfg.Feed.Mode,
		GraphQLEndpoint:       h.cfg.Mobility.GraphQLEndpoint,
		SubscriptionsEndpoint: h.cfg.Mobility.SubscriptionsEndpoint,
		DebounceWindow:        h.cfg.Feed.DebounceWindow,
		PollInterval:          h.cfg.Feed.PollInterval,
		MaxZoom:               h.cfg.Cluster.MaxZoom,
	}, nil)
}
