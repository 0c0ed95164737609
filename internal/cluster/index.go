// Package cluster groups geo points into zoom-dependent clusters using a
// hierarchical KD index, one level per zoom.
package cluster

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/config"
	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/metrics"
	"github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/pkg/utils"
)

type Options struct {
	MinZoom   int
	MaxZoom   int     // на этом зуме и выше кластеров нет
	MinPoints int     // минимальный размер кластера
	Radius    float64 // радиус кластера в пикселях
	Extent    float64 // размер тайла в пикселях, в нём считается Radius
	NodeSize  int     // размер листа KD-дерева
}

// DefaultOptions - радиус 40 при extent 512, зум до 16, кластер от 2 точек
func DefaultOptions() Options {
	return Options{
		MinZoom:   0,
		MaxZoom:   16,
		MinPoints: 2,
		Radius:    40,
		Extent:    512,
		NodeSize:  64,
	}
}

// OptionsFromConfig дополняет конфигурацию значениями по умолчанию
func OptionsFromConfig(cfg *config.ClusterConfig) Options {
	return Options{
		MinZoom:   cfg.MinZoom,
		MaxZoom:   cfg.MaxZoom,
		MinPoints: cfg.MinPoints,
		Radius:    cfg.Radius,
		Extent:    cfg.Extent,
		NodeSize:  cfg.NodeSize,
	}.normalized()
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.MinZoom < 0 {
		o.MinZoom = 0
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = d.MaxZoom
	}
	if o.MaxZoom > 30 {
		o.MaxZoom = 30
	}
	if o.MinZoom > o.MaxZoom {
		o.MinZoom = o.MaxZoom
	}
	if o.MinPoints < 2 {
		o.MinPoints = d.MinPoints
	}
	if o.Radius <= 0 {
		o.Radius = d.Radius
	}
	if o.Extent <= 0 {
		o.Extent = d.Extent
	}
	if o.NodeSize <= 0 {
		o.NodeSize = d.NodeSize
	}
	return o
}

const unprocessed = math.MaxInt

// node - точка или кластер на одном уровне.
// source: индекс в points для точки, id кластера для кластера.
type node struct {
	x, y      float64
	zoom      int
	source    int
	parent    int
	numPoints int
}

type level struct {
	nodes []node
	tree  *kdIndex
}

func newLevel(nodes []node, nodeSize int) *level {
	return &level{
		nodes: nodes,
		tree: newKDIndex(len(nodes), nodeSize, func(i int) (float64, float64) {
			return nodes[i].x, nodes[i].y
		}),
	}
}

// Index строится один раз на набор точек и дальше только читается
type Index struct {
	opts    Options
	logger  *zap.Logger
	points  []domain.GeoPoint
	levels  []*level
	dropped int
}

// NewIndex создает пустой индекс, точки загружаются через Load
func NewIndex(opts Options, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{opts: opts.normalized(), logger: logger}
}

func (ix *Index) Options() Options { return ix.opts }

// Len - число проиндексированных точек
func (ix *Index) Len() int { return len(ix.points) }

// Dropped - сколько точек отброшено при последней загрузке
func (ix *Index) Dropped() int { return ix.dropped }

func validPoint(p domain.GeoPoint) bool {
	return p.ID != "" &&
		utils.IsFinite(p.Lat) && utils.IsFinite(p.Lon) &&
		utils.ValidateCoordinates(p.Lat, p.Lon)
}

// Load перестраивает индекс. Точки с нечисловыми координатами или без id отбрасываются.
func (ix *Index) Load(points []domain.GeoPoint) *Index {
	start := time.Now()

	ix.points = make([]domain.GeoPoint, 0, len(points))
	ix.dropped = 0
	for _, p := range points {
		if !validPoint(p) {
			ix.dropped++
			metrics.InvalidEntitiesTotal.WithLabelValues(string(p.Kind)).Inc()
			ix.logger.Debug("Skipping invalid point",
				zap.String("id", p.ID),
				zap.String("kind", string(p.Kind)),
				zap.Float64("lat", p.Lat),
				zap.Float64("lon", p.Lon),
			)
			continue
		}
		ix.points = append(ix.points, p)
	}
	if ix.dropped > 0 {
		ix.logger.Warn("Points excluded from clustering", zap.Int("count", ix.dropped))
	}

	nodes := make([]node, len(ix.points))
	for i, p := range ix.points {
		nodes[i] = node{
			x:         lngX(p.Lon),
			y:         latY(p.Lat),
			zoom:      unprocessed,
			source:    i,
			parent:    -1,
			numPoints: 1,
		}
	}

	ix.levels = make([]*level, ix.opts.MaxZoom+1)
	ix.levels[ix.opts.MaxZoom] = newLevel(nodes, ix.opts.NodeSize)
	for z := ix.opts.MaxZoom - 1; z >= ix.opts.MinZoom; z-- {
		ix.levels[z] = newLevel(ix.clusterLevel(ix.levels[z+1], z), ix.opts.NodeSize)
	}

	metrics.ClusterIndexDuration.Observe(time.Since(start).Seconds())
	ix.logger.Debug("Cluster index built",
		zap.Int("points", len(ix.points)),
		zap.Duration("duration", time.Since(start)),
	)
	return ix
}

func (ix *Index) radiusAt(zoom int) float64 {
	return ix.opts.Radius / (ix.opts.Extent * math.Pow(2, float64(zoom)))
}

// clusterLevel собирает уровень zoom из уровня zoom+1. Помечает в prev
// обработанные узлы и их родителей, это нужно для Children.
func (ix *Index) clusterLevel(prev *level, zoom int) []node {
	r := ix.radiusAt(zoom)
	next := make([]node, 0, len(prev.nodes))

	for i := range prev.nodes {
		p := &prev.nodes[i]
		if p.zoom <= zoom {
			continue
		}
		p.zoom = zoom

		neighbors := prev.tree.within(p.x, p.y, r)

		numPoints := p.numPoints
		for _, id := range neighbors {
			if n := &prev.nodes[id]; n.zoom > zoom {
				numPoints += n.numPoints
			}
		}

		if numPoints > p.numPoints && numPoints >= ix.opts.MinPoints {
			wx := p.x * float64(p.numPoints)
			wy := p.y * float64(p.numPoints)
			id := ix.encodeID(i, zoom)

			for _, nid := range neighbors {
				n := &prev.nodes[nid]
				if n.zoom <= zoom {
					continue
				}
				n.zoom = zoom
				wx += n.x * float64(n.numPoints)
				wy += n.y * float64(n.numPoints)
				n.parent = id
			}
			p.parent = id

			next = append(next, node{
				x:         wx / float64(numPoints),
				y:         wy / float64(numPoints),
				zoom:      unprocessed,
				source:    id,
				parent:    -1,
				numPoints: numPoints,
			})
			continue
		}

		next = append(next, carry(*p))
		if numPoints > 1 {
			for _, nid := range neighbors {
				n := &prev.nodes[nid]
				if n.zoom <= zoom {
					continue
				}
				n.zoom = zoom
				next = append(next, carry(*n))
			}
		}
	}
	return next
}

// carry переносит узел на следующий уровень как есть
func carry(n node) node {
	n.zoom = unprocessed
	n.parent = -1
	return n
}

// id кластера: индекс исходного узла и зум уровня, из которого он собран
func (ix *Index) encodeID(originIdx, zoom int) int {
	return (originIdx << 5) + (zoom + 1) + len(ix.points)
}

func (ix *Index) decodeID(clusterID int) (originIdx, originZoom int) {
	v := clusterID - len(ix.points)
	return v >> 5, v % 32
}

func (ix *Index) limitZoom(zoom int) int {
	return max(ix.opts.MinZoom, min(zoom, ix.opts.MaxZoom))
}

func (ix *Index) marker(n node) Marker {
	if n.numPoints > 1 {
		return Marker{Cluster: &Cluster{
			ID:         n.source,
			Lat:        yLat(n.y),
			Lon:        xLng(n.x),
			PointCount: n.numPoints,
		}}
	}
	p := ix.points[n.source]
	return Marker{Point: &p}
}

// GetClusters - маркеры, центры которых попадают в viewport, на уровне его зума
func (ix *Index) GetClusters(vp domain.Viewport) ([]Marker, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	if ix.levels == nil {
		return []Marker{}, nil
	}

	lvl := ix.levels[ix.limitZoom(vp.Zoom)]
	ids := lvl.tree.rangeQuery(lngX(vp.MinLon), latY(vp.MaxLat), lngX(vp.MaxLon), latY(vp.MinLat))

	markers := make([]Marker, 0, len(ids))
	for _, id := range ids {
		markers = append(markers, ix.marker(lvl.nodes[id]))
	}
	return markers, nil
}

// Children - прямые потомки кластера на следующем зуме
func (ix *Index) Children(clusterID int) ([]Marker, error) {
	originIdx, originZoom := ix.decodeID(clusterID)
	if clusterID < len(ix.points) || originZoom <= ix.opts.MinZoom || originZoom > ix.opts.MaxZoom {
		return nil, clusterNotFound(clusterID)
	}
	lvl := ix.levels[originZoom]
	if lvl == nil || originIdx < 0 || originIdx >= len(lvl.nodes) {
		return nil, clusterNotFound(clusterID)
	}

	origin := lvl.nodes[originIdx]
	ids := lvl.tree.within(origin.x, origin.y, ix.radiusAt(originZoom-1))

	var children []Marker
	for _, id := range ids {
		if n := lvl.nodes[id]; n.parent == clusterID {
			children = append(children, ix.marker(n))
		}
	}
	if len(children) == 0 {
		return nil, clusterNotFound(clusterID)
	}
	return children, nil
}

// ExpansionZoom - минимальный зум, на котором кластер распадается, не больше MaxZoom
func (ix *Index) ExpansionZoom(clusterID int) (int, error) {
	if _, err := ix.Children(clusterID); err != nil {
		return 0, err
	}
	_, originZoom := ix.decodeID(clusterID)
	expansion := originZoom - 1
	id := clusterID

	for expansion <= ix.opts.MaxZoom {
		children, err := ix.Children(id)
		if err != nil {
			return 0, err
		}
		expansion++
		if len(children) != 1 || children[0].Cluster == nil {
			break
		}
		id = children[0].Cluster.ID
	}
	return min(expansion, ix.opts.MaxZoom), nil
}

// Leaves - исходные точки кластера с пагинацией
func (ix *Index) Leaves(clusterID, limit, offset int) ([]domain.GeoPoint, error) {
	if limit <= 0 {
		limit = 10
	}
	leaves := make([]domain.GeoPoint, 0, limit)
	leaves, _, err := ix.appendLeaves(leaves, clusterID, limit, offset, 0)
	return leaves, err
}

func (ix *Index) appendLeaves(result []domain.GeoPoint, clusterID, limit, offset, skipped int) ([]domain.GeoPoint, int, error) {
	children, err := ix.Children(clusterID)
	if err != nil {
		return result, skipped, err
	}

	for _, child := range children {
		switch {
		case child.Cluster != nil:
			if skipped+child.Cluster.PointCount <= offset {
				skipped += child.Cluster.PointCount
				continue
			}
			result, skipped, err = ix.appendLeaves(result, child.Cluster.ID, limit, offset, skipped)
			if err != nil {
				return result, skipped, err
			}
		case skipped < offset:
			skipped++
		default:
			result = append(result, *child.Point)
		}
		if len(result) == limit {
			break
		}
	}
	return result, skipped, nil
}

func clusterNotFound(id int) error {
	return errors.ErrClusterNotFound.WithDetails(map[string]interface{}{"cluster_id": id})
}

// ComputeClusters строит индекс и сразу выполняет запрос по viewport
func ComputeClusters(points []domain.GeoPoint, vp domain.Viewport, opts Options) ([]Marker, error) {
	return NewIndex(opts, nil).Load(points).GetClusters(vp)
}
