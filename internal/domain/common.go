package domain

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/mobility-map/internal/pkg/errors"
)

const (
	MinZoom = 0
	MaxZoom = 22
)

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Validate проверяет min < max, конечность и диапазон координат
func (b BoundingBox) Validate() error {
	for _, v := range [...]float64{b.MinLat, b.MinLon, b.MaxLat, b.MaxLon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.ErrInvalidViewport.WithDetails(map[string]interface{}{
				"reason": "non-finite coordinate",
			})
		}
	}
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLon < -180 || b.MaxLon > 180 {
		return errors.ErrInvalidViewport.WithDetails(map[string]interface{}{
			"reason": "coordinate out of range",
		})
	}
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return errors.ErrInvalidViewport.WithDetails(map[string]interface{}{
			"reason": "min must be less than max",
		})
	}
	return nil
}

// Contains включает границы
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

func (b BoundingBox) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}

// Bound - то же в виде orb.Bound (x = lon, y = lat)
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// Viewport - видимая область карты и уровень зума
type Viewport struct {
	BoundingBox
	Zoom int `json:"zoom"`
}

// Validate проверяет bbox и диапазон зума
func (v Viewport) Validate() error {
	if err := v.BoundingBox.Validate(); err != nil {
		return err
	}
	if v.Zoom < MinZoom || v.Zoom > MaxZoom {
		return errors.ErrInvalidZoom.WithDetails(map[string]interface{}{
			"zoom": v.Zoom,
			"min":  MinZoom,
			"max":  MaxZoom,
		})
	}
	return nil
}

// Statistics - проекция размеров коллекций, отдельно не хранится
type Statistics struct {
	NumberOfVehicles int `json:"number_of_vehicles"`
	NumberOfStations int `json:"number_of_stations"`
}
