package graphql

import (
	"fmt"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/pkg/validator"
)

// wire-типы: lat/lon указателями, чтобы отличить отсутствие поля от нуля.
// Внешние поля перекрывают одноименные поля встроенной структуры при декодировании.

type wireVehicle struct {
	domain.Vehicle
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type wireStation struct {
	domain.Station
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type wireVehicleUpdate struct {
	VehicleID  string       `json:"vehicleId"`
	UpdateType string       `json:"updateType"`
	Vehicle    *wireVehicle `json:"vehicle"`
}

type wireStationUpdate struct {
	StationID  string       `json:"stationId"`
	UpdateType string       `json:"updateType"`
	Station    *wireStation `json:"station"`
}

func (w wireVehicle) toDomain() (domain.Vehicle, error) {
	if w.Lat == nil || w.Lon == nil {
		return domain.Vehicle{}, fmt.Errorf("vehicle %q has no position", w.ID)
	}
	v := w.Vehicle
	v.Lat, v.Lon = *w.Lat, *w.Lon
	if err := validator.Validate(v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("vehicle %q: %w", w.ID, err)
	}
	return v, nil
}

func (w wireStation) toDomain() (domain.Station, error) {
	if w.Lat == nil || w.Lon == nil {
		return domain.Station{}, fmt.Errorf("station %q has no position", w.ID)
	}
	s := w.Station
	s.Lat, s.Lon = *w.Lat, *w.Lon
	if err := validator.Validate(s); err != nil {
		return domain.Station{}, fmt.Errorf("station %q: %w", w.ID, err)
	}
	return s, nil
}

func (w wireVehicleUpdate) toDomain() (domain.VehicleUpdate, error) {
	kind, id := domain.UpdateKind(w.UpdateType), w.VehicleID
	var entity *domain.Vehicle
	if kind != domain.UpdateDelete && w.Vehicle != nil {
		v, err := w.Vehicle.toDomain()
		if err != nil {
			return domain.VehicleUpdate{EntityID: id, Kind: kind}, err
		}
		if id == "" {
			id = v.ID
		}
		entity = &v
	}
	ev := domain.NewUpdate(kind, id, entity)
	return ev, ev.Validate()
}

func (w wireStationUpdate) toDomain() (domain.StationUpdate, error) {
	kind, id := domain.UpdateKind(w.UpdateType), w.StationID
	var entity *domain.Station
	if kind != domain.UpdateDelete && w.Station != nil {
		s, err := w.Station.toDomain()
		if err != nil {
			return domain.StationUpdate{EntityID: id, Kind: kind}, err
		}
		if id == "" {
			id = s.ID
		}
		entity = &s
	}
	ev := domain.NewUpdate(kind, id, entity)
	return ev, ev.Validate()
}
