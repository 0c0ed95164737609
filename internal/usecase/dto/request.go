package dto

import "github.com/mobility-map/internal/domain"

// ViewportRequest - видимая область карты
type ViewportRequest struct {
	MinLat float64 `json:"min_lat" validate:"finite,min=-90,max=90"`
	MinLon float64 `json:"min_lon" validate:"finite,min=-180,max=180"`
	MaxLat float64 `json:"max_lat" validate:"finite,min=-90,max=90,gtfield=MinLat"`
	MaxLon float64 `json:"max_lon" validate:"finite,min=-180,max=180,gtfield=MinLon"`
	Zoom   int     `json:"zoom" validate:"min=0,max=22"`
}

// ToDomain переводит запрос в domain.Viewport
func (r ViewportRequest) ToDomain() domain.Viewport {
	return domain.Viewport{
		BoundingBox: domain.BoundingBox{
			MinLat: r.MinLat,
			MinLon: r.MinLon,
			MaxLat: r.MaxLat,
			MaxLon: r.MaxLon,
		},
		Zoom: r.Zoom,
	}
}

// FilterRequest - фильтр по кодспейсам, операторам и типам транспорта
type FilterRequest struct {
	Codespaces      []string `json:"codespaces,omitempty" validate:"omitempty,max=50"`
	Operators       []string `json:"operators,omitempty" validate:"omitempty,max=100"`
	FormFactors     []string `json:"form_factors,omitempty" validate:"omitempty,dive,oneof=BICYCLE CARGO_BICYCLE CAR MOPED SCOOTER SCOOTER_STANDING SCOOTER_SEATED OTHER"`
	PropulsionTypes []string `json:"propulsion_types,omitempty" validate:"omitempty,dive,oneof=HUMAN ELECTRIC_ASSIST ELECTRIC COMBUSTION COMBUSTION_DIESEL HYBRID PLUG_IN_HYBRID HYDROGEN_FUEL_CELL"`
	IncludeReserved bool     `json:"include_reserved"`
	IncludeDisabled bool     `json:"include_disabled"`
}

func (r FilterRequest) ToDomain() domain.Filter {
	f := domain.Filter{
		Codespaces:      r.Codespaces,
		Operators:       r.Operators,
		IncludeReserved: r.IncludeReserved,
		IncludeDisabled: r.IncludeDisabled,
	}
	for _, ff := range r.FormFactors {
		f.FormFactors = append(f.FormFactors, domain.FormFactor(ff))
	}
	for _, pt := range r.PropulsionTypes {
		f.PropulsionTypes = append(f.PropulsionTypes, domain.PropulsionType(pt))
	}
	return f
}

// OptionsRequest - радиус запроса, тип карты и типы систем
type OptionsRequest struct {
	Radius       int    `json:"radius"` // meters, 0 - по умолчанию
	MapType      string `json:"map_type" validate:"omitempty,oneof=ICONS HEATMAP"`
	Docked       bool   `json:"docked"`
	FreeFloating bool   `json:"free_floating"`
}

func (r OptionsRequest) ToDomain() domain.Options {
	opts := domain.Options{
		Radius:  r.Radius,
		MapType: domain.MapType(r.MapType),
		SystemTypes: domain.SystemTypes{
			Docked:       r.Docked,
			FreeFloating: r.FreeFloating,
		},
	}
	if opts.Radius == 0 {
		opts.Radius = domain.DefaultRadius
	}
	if opts.MapType == "" {
		opts.MapType = domain.MapTypeIcons
	}
	return opts
}

// CreateSessionRequest - все поля опциональны, по умолчанию Осло и обе системы
type CreateSessionRequest struct {
	Viewport *ViewportRequest `json:"viewport,omitempty" validate:"omitempty"`
	Filter   *FilterRequest   `json:"filter,omitempty" validate:"omitempty"`
	Options  *OptionsRequest  `json:"options,omitempty" validate:"omitempty"`
}

// ToQuery заполняет отсутствующие части значениями по умолчанию
func (r CreateSessionRequest) ToQuery() domain.Query {
	q := domain.Query{
		Viewport: domain.DefaultViewport(),
		Options:  domain.DefaultOptions(),
	}
	if r.Viewport != nil {
		q.Viewport = r.Viewport.ToDomain()
	}
	if r.Filter != nil {
		q.Filter = r.Filter.ToDomain()
	}
	if r.Options != nil {
		q.Options = r.Options.ToDomain()
	}
	return q
}

// GeofencingZonesRequest - зоны для систем, опционально только пересекающие bbox
type GeofencingZonesRequest struct {
	SystemIDs []string         `json:"system_ids" validate:"required,min=1,max=50"`
	Viewport  *ViewportRequest `json:"viewport,omitempty" validate:"omitempty"`
}
