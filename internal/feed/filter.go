package feed

import "github.com/mobility-map/internal/domain"

// У push источников фильтр на сервер не уходит. Сущность, переставшая проходить
// фильтр или вышедшая за bbox, превращается в DELETE, чтобы не висеть на карте.

func filterVehicles(events []domain.VehicleUpdate, f domain.Filter, bbox *domain.BoundingBox) []domain.VehicleUpdate {
	out := make([]domain.VehicleUpdate, 0, len(events))
	for _, e := range events {
		if e.Kind != domain.UpdateDelete && e.Entity != nil {
			v := *e.Entity
			if !f.MatchesVehicle(v) || (bbox != nil && !bbox.Contains(v.Lat, v.Lon)) {
				e = domain.Delete[domain.Vehicle](e.EntityID)
			}
		}
		out = append(out, e)
	}
	return out
}

func filterStations(events []domain.StationUpdate, f domain.Filter, bbox *domain.BoundingBox) []domain.StationUpdate {
	out := make([]domain.StationUpdate, 0, len(events))
	for _, e := range events {
		if e.Kind != domain.UpdateDelete && e.Entity != nil {
			s := *e.Entity
			if !f.MatchesStation(s) || (bbox != nil && !bbox.Contains(s.Lat, s.Lon)) {
				e = domain.Delete[domain.Station](e.EntityID)
			}
		}
		out = append(out, e)
	}
	return out
}
