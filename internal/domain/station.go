package domain

type VehicleTypeAvailability struct {
	VehicleType VehicleType `json:"vehicleType"`
	Count       int         `json:"count"`
}

// Station - док-станция. Как и у Vehicle, nil означает отсутствующее поле.
type Station struct {
	ID                    string                    `json:"id" validate:"required"`
	Name                  *TranslatedString         `json:"name,omitempty"`
	Lat                   float64                   `json:"lat" validate:"finite,min=-90,max=90"`
	Lon                   float64                   `json:"lon" validate:"finite,min=-180,max=180"`
	Address               *string                   `json:"address,omitempty"`
	Capacity              *int                      `json:"capacity,omitempty"`
	NumBikesAvailable     *int                      `json:"numBikesAvailable,omitempty"`
	NumDocksAvailable     *int                      `json:"numDocksAvailable,omitempty"`
	IsInstalled           *bool                     `json:"isInstalled,omitempty"`
	IsRenting             *bool                     `json:"isRenting,omitempty"`
	IsReturning           *bool                     `json:"isReturning,omitempty"`
	IsVirtualStation      *bool                     `json:"isVirtualStation,omitempty"`
	LastReported          *int64                    `json:"lastReported,omitempty"`
	System                *System                   `json:"system,omitempty"`
	VehicleTypesAvailable []VehicleTypeAvailability `json:"vehicleTypesAvailable,omitempty"`
}

func (s Station) EntityID() string { return s.ID }

func (s Station) Position() (float64, float64) { return s.Lat, s.Lon }

// Merge накладывает непустые поля patch
func (s Station) Merge(patch Station) Station {
	out := s
	if patch.ID != "" {
		out.ID = patch.ID
	}
	out.Lat, out.Lon = patch.Lat, patch.Lon
	if patch.Name != nil {
		out.Name = patch.Name
	}
	if patch.Address != nil {
		out.Address = patch.Address
	}
	if patch.Capacity != nil {
		out.Capacity = patch.Capacity
	}
	if patch.NumBikesAvailable != nil {
		out.NumBikesAvailable = patch.NumBikesAvailable
	}
	if patch.NumDocksAvailable != nil {
		out.NumDocksAvailable = patch.NumDocksAvailable
	}
	if patch.IsInstalled != nil {
		out.IsInstalled = patch.IsInstalled
	}
	if patch.IsRenting != nil {
		out.IsRenting = patch.IsRenting
	}
	if patch.IsReturning != nil {
		out.IsReturning = patch.IsReturning
	}
	if patch.IsVirtualStation != nil {
		out.IsVirtualStation = patch.IsVirtualStation
	}
	if patch.LastReported != nil {
		out.LastReported = patch.LastReported
	}
	if patch.System != nil {
		out.System = patch.System
	}
	if patch.VehicleTypesAvailable != nil {
		out.VehicleTypesAvailable = patch.VehicleTypesAvailable
	}
	return out
}

// HasCar - есть ли среди доступных типов автомобиль
func (s Station) HasCar() bool {
	for _, vta := range s.VehicleTypesAvailable {
		if vta.VehicleType.FormFactor == FormFactorCar {
			return true
		}
	}
	return false
}

// Icon выбирает иконку станции по типам транспорта
func (s Station) Icon() string {
	if s.HasCar() {
		return "car"
	}
	return "bicycle_parking"
}
