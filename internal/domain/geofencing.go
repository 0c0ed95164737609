package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeofencingZones - зоны одной системы как GeoJSON FeatureCollection
type GeofencingZones struct {
	SystemID string                     `json:"systemId"`
	GeoJSON  *geojson.FeatureCollection `json:"geojson"`
}

// Bound - объединение bbox всех геометрий; ok=false если геометрий нет
func (z GeofencingZones) Bound() (orb.Bound, bool) {
	if z.GeoJSON == nil {
		return orb.Bound{}, false
	}
	var (
		bound orb.Bound
		found bool
	)
	for _, f := range z.GeoJSON.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !found {
			bound, found = b, true
			continue
		}
		bound = bound.Union(b)
	}
	return bound, found
}

// Intersects сравнивает bbox зон с bbox запроса
func (z GeofencingZones) Intersects(bbox BoundingBox) bool {
	b, ok := z.Bound()
	if !ok {
		return false
	}
	return b.Intersects(bbox.Bound())
}
