package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobility-map/internal/pkg/errors"
)

// SuccessResponse - конверт {"data": ..., "meta": ...}
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// ErrorResponse - конверт {"error": {"code", "message", "details"}}
type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// Meta - служебные поля ответа. Version - версия опубликованного состояния сессии.
type Meta struct {
	Total    int     `json:"total,omitempty"`
	Version  uint64  `json:"version,omitempty"`
	Zoom     int     `json:"zoom,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return SendStatus(c, fiber.StatusOK, data, meta)
}

// SendStatus - успешный ответ с кодом, отличным от 200 (201, 202)
func SendStatus(c *fiber.Ctx, status int, data interface{}, meta *Meta) error {
	return c.Status(status).JSON(SuccessResponse{Data: data, Meta: meta})
}

// SendError отвечает AppError из цепочки ошибки, всё остальное - 500 без деталей
func SendError(c *fiber.Ctx, err error) error {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.ErrInternalServer
	}
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{Error: appErr})
}
