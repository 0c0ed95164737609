package utils

import "math"

// Границы радиуса поиска в метрах
const (
	MinRadiusM = 100
	MaxRadiusM = 50000
)

// IsFinite - false для NaN и ±Inf
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateCoordinates проверяет валидность координат; NaN не проходит сравнения
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius проверяет радиус поиска
func ValidateRadius(radiusM int) bool {
	return radiusM >= MinRadiusM && radiusM <= MaxRadiusM
}
