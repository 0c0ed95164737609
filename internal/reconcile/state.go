package reconcile

import "github.com/mobility-map/internal/domain"

// State - коллекции активной карты. Каждый переход возвращает новый State,
// Statistics всегда пересчитывается из размеров коллекций.
type State struct {
	Vehicles   *Collection[domain.Vehicle]
	Stations   *Collection[domain.Station]
	Statistics domain.Statistics
}

// NewState - пустое состояние
func NewState() *State {
	return newState(Clear[domain.Vehicle](), Clear[domain.Station]())
}

func newState(vehicles *Collection[domain.Vehicle], stations *Collection[domain.Station]) *State {
	return &State{
		Vehicles:   vehicles,
		Stations:   stations,
		Statistics: StatisticsOf(vehicles, stations),
	}
}

// StatisticsOf считает статистику по размерам коллекций
func StatisticsOf(vehicles *Collection[domain.Vehicle], stations *Collection[domain.Station]) domain.Statistics {
	return domain.Statistics{
		NumberOfVehicles: vehicles.Len(),
		NumberOfStations: stations.Len(),
	}
}

// ReplaceVehicles - снапшот только транспорта, станции сбрасываются
func (s *State) ReplaceVehicles(vehicles []domain.Vehicle) *State {
	return newState(Replace(vehicles), Clear[domain.Station]())
}

// ReplaceStations - снапшот только станций, транспорт сбрасывается
func (s *State) ReplaceStations(stations []domain.Station) *State {
	return newState(Clear[domain.Vehicle](), Replace(stations))
}

// ReplaceAll заменяет обе коллекции снапшотом
func (s *State) ReplaceAll(vehicles []domain.Vehicle, stations []domain.Station) *State {
	return newState(Replace(vehicles), Replace(stations))
}

// ApplyVehicleUpdates возвращает s, если батч ничего не изменил
func (s *State) ApplyVehicleUpdates(events []domain.VehicleUpdate) *State {
	next := ApplyUpdates(s.Vehicles, events)
	if next == s.Vehicles {
		return s
	}
	return newState(next, s.Stations)
}

func (s *State) ApplyStationUpdates(events []domain.StationUpdate) *State {
	next := ApplyUpdates(s.Stations, events)
	if next == s.Stations {
		return s
	}
	return newState(s.Vehicles, next)
}

// Cleared - сброс при смене режима или области
func (s *State) Cleared() *State {
	return NewState()
}
