package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/pkg/validator"
	"github.com/mobility-map/internal/usecase/dto"
)

// parseBody разбирает JSON тело и валидирует его. Пустое тело допустимо.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"reason": "invalid request body",
			})
		}
	}
	return validate(dst)
}

func validate(dst interface{}) error {
	if err := validator.Validate(dst); err != nil {
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": err.Error(),
			"fields": validator.Fields(err),
		})
	}
	return nil
}

// viewportFromQuery читает min_lat, min_lon, max_lat, max_lon, zoom из query.
// Возвращает nil, если ни одного параметра нет.
func viewportFromQuery(c *fiber.Ctx) (*dto.ViewportRequest, error) {
	keys := []string{"min_lat", "min_lon", "max_lat", "max_lon"}

	present := false
	for _, k := range append(keys, "zoom") {
		if c.Query(k) != "" {
			present = true
			break
		}
	}
	if !present {
		return nil, nil
	}

	var vals [4]float64
	for i, k := range keys {
		v, err := strconv.ParseFloat(c.Query(k), 64)
		if err != nil {
			return nil, errors.ErrInvalidViewport.WithDetails(map[string]interface{}{
				"param": k,
			})
		}
		vals[i] = v
	}
	zoom, err := strconv.Atoi(c.Query("zoom", "0"))
	if err != nil {
		return nil, errors.ErrInvalidZoom.WithDetails(map[string]interface{}{
			"zoom": c.Query("zoom"),
		})
	}

	req := &dto.ViewportRequest{
		MinLat: vals[0],
		MinLon: vals[1],
		MaxLat: vals[2],
		MaxLon: vals[3],
		Zoom:   zoom,
	}
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidViewport.WithDetails(map[string]interface{}{
			"reason": err.Error(),
			"fields": validator.Fields(err),
		})
	}
	return req, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
