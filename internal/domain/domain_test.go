package domain

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobility-map/internal/pkg/errors"
)

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func TestVehicle_Merge(t *testing.T) {
	base := Vehicle{
		ID:          "v1",
		Lat:         59.9,
		Lon:         10.7,
		IsReserved:  boolPtr(true),
		VehicleType: &VehicleType{FormFactor: FormFactorScooter},
	}
	patch := Vehicle{ID: "v1", Lat: 59.91, Lon: 10.71, IsDisabled: boolPtr(true)}

	merged := base.Merge(patch)

	assert.Equal(t, 59.91, merged.Lat)
	assert.Equal(t, 10.71, merged.Lon)
	require.NotNil(t, merged.IsReserved)
	assert.True(t, *merged.IsReserved)
	require.NotNil(t, merged.IsDisabled)
	assert.True(t, *merged.IsDisabled)
	assert.Equal(t, FormFactorScooter, merged.VehicleType.FormFactor)

	// base не меняется
	assert.Nil(t, base.IsDisabled)
}

func TestStation_Merge(t *testing.T) {
	base := Station{ID: "s1", Lat: 59.9, Lon: 10.7, Capacity: intPtr(20), NumBikesAvailable: intPtr(5)}
	merged := base.Merge(Station{ID: "s1", Lat: 59.9, Lon: 10.7, NumBikesAvailable: intPtr(3)})

	assert.Equal(t, 20, *merged.Capacity)
	assert.Equal(t, 3, *merged.NumBikesAvailable)
	assert.Equal(t, 5, *base.NumBikesAvailable)
}

func TestVehicle_Icon(t *testing.T) {
	tests := []struct {
		name string
		v    Vehicle
		want string
	}{
		{"scooter", Vehicle{VehicleType: &VehicleType{FormFactor: FormFactorScooter}}, "scooter"},
		{"scooter standing", Vehicle{VehicleType: &VehicleType{FormFactor: "SCOOTER_STANDING"}}, "scooter"},
		{"bicycle", Vehicle{VehicleType: &VehicleType{FormFactor: FormFactorBicycle}}, "bicycle"},
		{"no type", Vehicle{}, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Icon())
		})
	}
}

func TestStation_Icon(t *testing.T) {
	car := Station{VehicleTypesAvailable: []VehicleTypeAvailability{
		{VehicleType: VehicleType{FormFactor: FormFactorBicycle}, Count: 2},
		{VehicleType: VehicleType{FormFactor: FormFactorCar}, Count: 1},
	}}
	assert.Equal(t, "car", car.Icon())
	assert.Equal(t, "bicycle_parking", Station{}.Icon())
}

func TestPoints_IconOnlyForIconsMap(t *testing.T) {
	v := Vehicle{ID: "v1", Lat: 1, Lon: 2, VehicleType: &VehicleType{FormFactor: FormFactorMoped}}

	assert.Equal(t, "moped", VehiclePoint(v, MapTypeIcons).Icon)
	assert.Empty(t, VehiclePoint(v, MapTypeHeatmap).Icon)
	assert.Equal(t, KindStation, StationPoint(Station{ID: "s1"}, MapTypeIcons).Kind)
}

func TestSystemTypes_Mode(t *testing.T) {
	assert.Equal(t, ModeAll, SystemTypes{Docked: true, FreeFloating: true}.Mode())
	assert.Equal(t, ModeStations, SystemTypes{Docked: true}.Mode())
	assert.Equal(t, ModeVehicles, SystemTypes{FreeFloating: true}.Mode())
	assert.Equal(t, ModeNone, SystemTypes{}.Mode())
	assert.True(t, ModeAll.IncludesVehicles())
	assert.False(t, ModeStations.IncludesVehicles())
}

func TestFilter_MatchesVehicle(t *testing.T) {
	v := Vehicle{
		ID:          "v1",
		IsReserved:  boolPtr(true),
		VehicleType: &VehicleType{FormFactor: FormFactorScooter, PropulsionType: PropulsionElectric},
		System:      &System{Operator: &Operator{ID: "YVO:Operator:voi"}},
	}

	assert.False(t, Filter{}.MatchesVehicle(v))
	assert.True(t, Filter{IncludeReserved: true}.MatchesVehicle(v))
	assert.False(t, Filter{IncludeReserved: true, FormFactors: []FormFactor{FormFactorBicycle}}.MatchesVehicle(v))
	assert.True(t, Filter{IncludeReserved: true, Operators: []string{"YVO:Operator:voi"}}.MatchesVehicle(v))
	assert.False(t, Filter{IncludeReserved: true, Operators: []string{"other"}}.MatchesVehicle(v))
}

func TestViewport_Validate(t *testing.T) {
	valid := Viewport{BoundingBox: BoundingBox{MinLat: 59, MinLon: 10, MaxLat: 60, MaxLon: 11}, Zoom: 12}
	assert.NoError(t, valid.Validate())

	inverted := valid
	inverted.MinLat, inverted.MaxLat = 60, 59
	assert.Error(t, inverted.Validate())

	nan := valid
	nan.MinLon = math.NaN()
	assert.Error(t, nan.Validate())

	zoom := valid
	zoom.Zoom = 30
	assert.Error(t, zoom.Validate())

	assert.Equal(t, Point{Lat: 59.5, Lon: 10.5}, valid.Center())
}

func TestUpdateEvent_Validate(t *testing.T) {
	assert.NoError(t, Upsert("v1", Vehicle{ID: "v1"}).Validate())
	assert.NoError(t, Delete[Vehicle]("v1").Validate())
	assert.Error(t, UpdateEvent[Vehicle]{EntityID: "v1", Kind: UpdateCreate}.Validate())
	assert.Error(t, UpdateEvent[Vehicle]{EntityID: "v1", Kind: "MOVE"}.Validate())
	assert.Error(t, UpdateEvent[Vehicle]{Kind: UpdateDelete}.Validate())
}

func TestNewUpdate(t *testing.T) {
	v := Vehicle{ID: "v1"}

	ev := NewUpdate(UpdateCreate, "v1", &v)
	assert.Equal(t, UpdateCreate, ev.Kind)
	assert.Same(t, &v, ev.Entity)

	del := NewUpdate(UpdateDelete, "v1", &v)
	assert.Nil(t, del.Entity)
	assert.NoError(t, del.Validate())
}

func TestGeofencingZones_Intersects(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{{{10.7, 59.9}, {10.8, 59.9}, {10.8, 60.0}, {10.7, 60.0}, {10.7, 59.9}}}))
	zones := GeofencingZones{SystemID: "voi", GeoJSON: fc}

	assert.True(t, zones.Intersects(BoundingBox{MinLat: 59.95, MinLon: 10.75, MaxLat: 60.1, MaxLon: 10.9}))
	assert.False(t, zones.Intersects(BoundingBox{MinLat: 61, MinLon: 11, MaxLat: 62, MaxLon: 12}))
	assert.False(t, GeofencingZones{SystemID: "empty"}.Intersects(BoundingBox{MaxLat: 1, MaxLon: 1}))
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	small := DefaultOptions()
	small.Radius = 10
	assert.ErrorIs(t, small.Validate(), errors.ErrInvalidRequest)

	large := DefaultOptions()
	large.Radius = 100000
	assert.Error(t, large.Validate())

	mapType := DefaultOptions()
	mapType.MapType = "SATELLITE"
	assert.Error(t, mapType.Validate())
}
