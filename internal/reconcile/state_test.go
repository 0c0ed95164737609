package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mobility-map/internal/domain"
)

func TestState_ScopeSwitchClearsOtherCollection(t *testing.T) {
	s := NewState().ReplaceAll(
		[]domain.Vehicle{{ID: "v1"}, {ID: "v2"}},
		[]domain.Station{{ID: "s1"}},
	)
	assert.Equal(t, domain.Statistics{NumberOfVehicles: 2, NumberOfStations: 1}, s.Statistics)

	vehiclesOnly := s.ReplaceVehicles([]domain.Vehicle{{ID: "v3"}})
	assert.Equal(t, domain.Statistics{NumberOfVehicles: 1, NumberOfStations: 0}, vehiclesOnly.Statistics)

	stationsOnly := s.ReplaceStations([]domain.Station{{ID: "s1"}, {ID: "s2"}})
	assert.Equal(t, domain.Statistics{NumberOfVehicles: 0, NumberOfStations: 2}, stationsOnly.Statistics)

	// исходное состояние не изменилось
	assert.Equal(t, 2, s.Vehicles.Len())
}

func TestState_StatisticsFollowUpdates(t *testing.T) {
	s := NewState()
	s = s.ApplyVehicleUpdates([]domain.VehicleUpdate{
		domain.Upsert("v1", domain.Vehicle{ID: "v1"}),
		domain.Upsert("v2", domain.Vehicle{ID: "v2"}),
		domain.Delete[domain.Vehicle]("v1"),
	})
	s = s.ApplyStationUpdates([]domain.StationUpdate{
		domain.Upsert("s1", domain.Station{ID: "s1"}),
	})

	assert.Equal(t, s.Vehicles.Len(), s.Statistics.NumberOfVehicles)
	assert.Equal(t, s.Stations.Len(), s.Statistics.NumberOfStations)
	assert.Equal(t, domain.Statistics{NumberOfVehicles: 1, NumberOfStations: 1}, s.Statistics)

	assert.Equal(t, domain.Statistics{}, s.Cleared().Statistics)
}

func TestState_EmptyBatchKeepsState(t *testing.T) {
	s := NewState().ReplaceVehicles([]domain.Vehicle{{ID: "v1"}})
	assert.Same(t, s, s.ApplyVehicleUpdates(nil))
	assert.Same(t, s, s.ApplyStationUpdates([]domain.StationUpdate{}))
}
