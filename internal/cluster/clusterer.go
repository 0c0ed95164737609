package cluster

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/metrics"
)

// PointSet - набор точек с версией. Новая версия означает новый набор.
type PointSet interface {
	Version() uint64
	Points() []domain.GeoPoint
}

// memoKey: версия набора, bbox и зум, приведенный к уровню индекса
type memoKey struct {
	version uint64
	bbox    domain.BoundingBox
	zoom    int
}

const memoSize = 32

// Clusterer держит индекс для последней версии набора и кеширует ответы.
// Возвращаемые срезы общие для всех вызовов, менять их нельзя.
type Clusterer struct {
	opts   Options
	logger *zap.Logger

	mu      sync.Mutex
	index   *Index
	version uint64
	built   bool
	builds  int
	memo    map[memoKey][]Marker
}

// NewClusterer создает кластеризатор с мемоизацией по версии набора точек
func NewClusterer(opts Options, logger *zap.Logger) *Clusterer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clusterer{
		opts:   opts.normalized(),
		logger: logger,
		memo:   make(map[memoKey][]Marker),
	}
}

func (c *Clusterer) indexFor(set PointSet) *Index {
	if c.built && c.version == set.Version() {
		return c.index
	}
	c.index = NewIndex(c.opts, c.logger).Load(set.Points())
	c.version = set.Version()
	c.built = true
	c.builds++
	clear(c.memo)
	return c.index
}

// Markers - маркеры для bbox и зума viewport
func (c *Clusterer) Markers(set PointSet, vp domain.Viewport) ([]Marker, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ix := c.indexFor(set)
	key := memoKey{version: set.Version(), bbox: vp.BoundingBox, zoom: ix.limitZoom(vp.Zoom)}
	if markers, ok := c.memo[key]; ok {
		metrics.ClusterCacheTotal.WithLabelValues("hit").Inc()
		return markers, nil
	}
	metrics.ClusterCacheTotal.WithLabelValues("miss").Inc()

	markers, err := ix.GetClusters(vp)
	if err != nil {
		return nil, err
	}
	if len(c.memo) >= memoSize {
		clear(c.memo)
	}
	c.memo[key] = markers
	return markers, nil
}

// ExpansionZoom - первый зум, на котором кластер распадается
func (c *Clusterer) ExpansionZoom(set PointSet, clusterID int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexFor(set).ExpansionZoom(clusterID)
}

// Children - маркеры следующего уровня внутри кластера
func (c *Clusterer) Children(set PointSet, clusterID int) ([]Marker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexFor(set).Children(clusterID)
}

// Leaves - исходные точки кластера с limit и offset
func (c *Clusterer) Leaves(set PointSet, clusterID, limit, offset int) ([]domain.GeoPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexFor(set).Leaves(clusterID, limit, offset)
}

// Builds - сколько раз перестраивался индекс
func (c *Clusterer) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

func (c *Clusterer) Options() Options { return c.opts }
