package domain

type EntityKind string

const (
	KindVehicle EntityKind = "vehicle"
	KindStation EntityKind = "station"
)

// GeoPoint - вход кластеризатора; Payload несёт исходную сущность
type GeoPoint struct {
	ID      string     `json:"id"`
	Lat     float64    `json:"lat"`
	Lon     float64    `json:"lon"`
	Kind    EntityKind `json:"kind"`
	Icon    string     `json:"icon,omitempty"`
	Payload any        `json:"payload,omitempty"`
}

// VehiclePoint строит точку; иконка только для режима ICONS
func VehiclePoint(v Vehicle, mapType MapType) GeoPoint {
	p := GeoPoint{ID: v.ID, Lat: v.Lat, Lon: v.Lon, Kind: KindVehicle, Payload: v}
	if mapType == MapTypeIcons {
		p.Icon = v.Icon()
	}
	return p
}

// StationPoint строит точку карты из станции
func StationPoint(s Station, mapType MapType) GeoPoint {
	p := GeoPoint{ID: s.ID, Lat: s.Lat, Lon: s.Lon, Kind: KindStation, Payload: s}
	if mapType == MapTypeIcons {
		p.Icon = s.Icon()
	}
	return p
}
