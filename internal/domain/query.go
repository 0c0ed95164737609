package domain

import (
	"slices"

	"github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/pkg/utils"
)

type MapType string

const (
	MapTypeIcons   MapType = "ICONS"
	MapTypeHeatmap MapType = "HEATMAP"
)

type SystemTypes struct {
	Docked       bool `json:"docked"`
	FreeFloating bool `json:"free_floating"`
}

// Mode - какие коллекции запрашиваются; смена режима сбрасывает состояние
type Mode string

const (
	ModeNone     Mode = "none"
	ModeVehicles Mode = "vehicles"
	ModeStations Mode = "stations"
	ModeAll      Mode = "all"
)

func (m Mode) IncludesVehicles() bool { return m == ModeVehicles || m == ModeAll }
func (m Mode) IncludesStations() bool { return m == ModeStations || m == ModeAll }

// Mode выводит режим из выбранных типов систем
func (s SystemTypes) Mode() Mode {
	switch {
	case s.Docked && s.FreeFloating:
		return ModeAll
	case s.Docked:
		return ModeStations
	case s.FreeFloating:
		return ModeVehicles
	default:
		return ModeNone
	}
}

type Filter struct {
	Codespaces      []string         `json:"codespaces,omitempty"`
	Operators       []string         `json:"operators,omitempty"`
	FormFactors     []FormFactor     `json:"form_factors,omitempty"`
	PropulsionTypes []PropulsionType `json:"propulsion_types,omitempty"`
	IncludeReserved bool             `json:"include_reserved"`
	IncludeDisabled bool             `json:"include_disabled"`
}

// Equal сравнивает списки поэлементно, порядок важен
func (f Filter) Equal(o Filter) bool {
	return slices.Equal(f.Codespaces, o.Codespaces) &&
		slices.Equal(f.Operators, o.Operators) &&
		slices.Equal(f.FormFactors, o.FormFactors) &&
		slices.Equal(f.PropulsionTypes, o.PropulsionTypes) &&
		f.IncludeReserved == o.IncludeReserved &&
		f.IncludeDisabled == o.IncludeDisabled
}

// MatchesVehicle - локальная проверка для push фидов, где фильтр не уходит на сервер
func (f Filter) MatchesVehicle(v Vehicle) bool {
	if !f.IncludeReserved && v.IsReserved != nil && *v.IsReserved {
		return false
	}
	if !f.IncludeDisabled && v.IsDisabled != nil && *v.IsDisabled {
		return false
	}
	if len(f.Operators) > 0 && !slices.Contains(f.Operators, v.OperatorID()) {
		return false
	}
	if v.VehicleType != nil {
		if len(f.FormFactors) > 0 && !slices.Contains(f.FormFactors, v.VehicleType.FormFactor) {
			return false
		}
		if len(f.PropulsionTypes) > 0 && !slices.Contains(f.PropulsionTypes, v.VehicleType.PropulsionType) {
			return false
		}
	}
	return true
}

// MatchesStation проверяет оператора станции
func (f Filter) MatchesStation(s Station) bool {
	if len(f.Operators) == 0 {
		return true
	}
	if s.System == nil || s.System.Operator == nil {
		return false
	}
	return slices.Contains(f.Operators, s.System.Operator.ID)
}

type Options struct {
	Radius      int         `json:"radius"`
	MapType     MapType     `json:"map_type"`
	SystemTypes SystemTypes `json:"system_types"`
}

const DefaultRadius = 5000

// Validate проверяет радиус поиска и тип карты
func (o Options) Validate() error {
	if !utils.ValidateRadius(o.Radius) {
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"radius": o.Radius,
			"min":    utils.MinRadiusM,
			"max":    utils.MaxRadiusM,
		})
	}
	if o.MapType != MapTypeIcons && o.MapType != MapTypeHeatmap {
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"map_type": o.MapType,
		})
	}
	return nil
}

// DefaultOptions - иконки, радиус 5 км, обе системы
func DefaultOptions() Options {
	return Options{
		Radius:      DefaultRadius,
		MapType:     MapTypeIcons,
		SystemTypes: SystemTypes{Docked: true, FreeFloating: true},
	}
}

// Query - полный набор параметров, по которым фид загружает данные
type Query struct {
	Viewport Viewport `json:"viewport"`
	Filter   Filter   `json:"filter"`
	Options  Options  `json:"options"`
}

func (q Query) Mode() Mode { return q.Options.SystemTypes.Mode() }

// DefaultViewport - центр Осло на зуме 12
func DefaultViewport() Viewport {
	return Viewport{
		BoundingBox: BoundingBox{
			MinLat: 59.8815, MinLon: 10.6979,
			MaxLat: 59.9415, MaxLon: 10.8179,
		},
		Zoom: 12,
	}
}
