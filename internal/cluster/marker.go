package cluster

import "github.com/mobility-map/internal/domain"

// Cluster - агрегированный маркер; PointCount всегда >= 2
type Cluster struct {
	ID         int     `json:"cluster_id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	PointCount int     `json:"point_count"`
}

// Marker - либо одиночная точка, либо кластер, ровно одно поле не nil
type Marker struct {
	Cluster *Cluster         `json:"cluster,omitempty"`
	Point   *domain.GeoPoint `json:"point,omitempty"`
}

// IsCluster - true для агрегированного маркера
func (m Marker) IsCluster() bool { return m.Cluster != nil }

// Count - сколько исходных точек представляет маркер
func (m Marker) Count() int {
	if m.IsCluster() {
		return m.Cluster.PointCount
	}
	if m.Point != nil {
		return 1
	}
	return 0
}

// Position возвращает lat, lon маркера
func (m Marker) Position() (float64, float64) {
	if m.IsCluster() {
		return m.Cluster.Lat, m.Cluster.Lon
	}
	if m.Point != nil {
		return m.Point.Lat, m.Point.Lon
	}
	return 0, 0
}

// Total - сумма Count по списку маркеров
func Total(markers []Marker) int {
	n := 0
	for _, m := range markers {
		n += m.Count()
	}
	return n
}
