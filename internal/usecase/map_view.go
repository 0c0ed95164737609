package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/cluster"
	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/feed"
	"github.com/mobility-map/internal/metrics"
	"github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/reconcile"
	"github.com/mobility-map/internal/usecase/dto"
)

// published - то, что видят читатели сессии. Меняется целиком, никогда по частям.
type published struct {
	state   *reconcile.State
	mapType domain.MapType
	version uint64
}

// pointSet адаптирует опубликованное состояние к кластеризатору
type pointSet struct{ p *published }

func (s pointSet) Version() uint64 { return s.p.version }

func (s pointSet) Points() []domain.GeoPoint {
	st := s.p.state
	points := make([]domain.GeoPoint, 0, st.Vehicles.Len()+st.Stations.Len())
	for _, v := range st.Vehicles.Values() {
		points = append(points, domain.VehiclePoint(v, s.p.mapType))
	}
	for _, station := range st.Stations.Values() {
		points = append(points, domain.StationPoint(station, s.p.mapType))
	}
	return points
}

// MapView - одна сессия дашборда: запрос, фид, коллекции и кластеризатор.
// Изменения запроса копятся в pending и применяются после паузы debounce.
// Каждый перезапуск фида получает новое поколение; данные старых поколений
// отбрасываются.
type MapView struct {
	id        string
	feed      feed.Feed
	clusterer *cluster.Clusterer
	debounce  time.Duration
	logger    *zap.Logger
	createdAt time.Time

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu         sync.Mutex
	query      domain.Query
	pending    *domain.Query
	timer      *time.Timer
	generation uint64
	cancelRun  context.CancelFunc
	versionSeq uint64
	closed     bool

	current    atomic.Pointer[published]
	lastActive atomic.Int64

	subsMu      sync.Mutex
	subscribers map[chan dto.ChangeEvent]struct{}
}

type MapViewOptions struct {
	Debounce time.Duration
	Cluster  cluster.Options
}

// NewMapView создает сессию карты. Фид не запускается до Start.
func NewMapView(id string, q domain.Query, f feed.Feed, opts MapViewOptions, logger *zap.Logger) *MapView {
	ctx, cancel := context.WithCancel(context.Background())
	v := &MapView{
		id:          id,
		feed:        f,
		clusterer:   cluster.NewClusterer(opts.Cluster, logger),
		debounce:    opts.Debounce,
		logger:      logger.With(zap.String("session_id", id)),
		createdAt:   time.Now(),
		baseCtx:     ctx,
		baseCancel:  cancel,
		query:       q,
		subscribers: make(map[chan dto.ChangeEvent]struct{}),
	}
	v.current.Store(&published{state: reconcile.NewState(), mapType: q.Options.MapType})
	v.Touch()
	return v
}

func (v *MapView) ID() string { return v.id }

// Touch отмечает активность для janitor
func (v *MapView) Touch() { v.lastActive.Store(time.Now().UnixNano()) }

func (v *MapView) LastActive() time.Time { return time.Unix(0, v.lastActive.Load()) }

// Start запускает фид для начального запроса без debounce
func (v *MapView) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.restartLocked(v.query, true)
}

// Close останавливает фид и таймер; после Close сессия только читается
func (v *MapView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.generation++
	if v.timer != nil {
		v.timer.Stop()
	}
	v.pending = nil
	v.mu.Unlock()

	v.baseCancel()

	v.subsMu.Lock()
	for ch := range v.subscribers {
		close(ch)
		delete(v.subscribers, ch)
	}
	v.subsMu.Unlock()
	v.logger.Debug("Map session closed")
}

// Query - последний запрошенный запрос, включая ещё не применённые изменения
func (v *MapView) Query() domain.Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending != nil {
		return *v.pending
	}
	return v.query
}

// SetViewport валидирует viewport и ставит его в окно debounce
func (v *MapView) SetViewport(vp domain.Viewport) error {
	if err := vp.Validate(); err != nil {
		return err
	}
	v.schedule(func(q *domain.Query) { q.Viewport = vp })
	return nil
}

// SetFilter ставит фильтр в окно debounce
func (v *MapView) SetFilter(f domain.Filter) {
	v.schedule(func(q *domain.Query) { q.Filter = f })
}

// SetOptions подставляет значения по умолчанию и валидирует опции
func (v *MapView) SetOptions(opts domain.Options) error {
	if opts.Radius <= 0 {
		opts.Radius = domain.DefaultRadius
	}
	if opts.MapType == "" {
		opts.MapType = domain.MapTypeIcons
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	v.schedule(func(q *domain.Query) { q.Options = opts })
	return nil
}

// schedule копит изменение и перезапускает окно тишины
func (v *MapView) schedule(change func(q *domain.Query)) {
	v.Touch()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	next := v.query
	if v.pending != nil {
		next = *v.pending
	}
	change(&next)
	v.pending = &next

	if v.timer != nil {
		v.timer.Stop()
	}
	if v.debounce <= 0 {
		v.flushLocked()
		return
	}
	v.timer = time.AfterFunc(v.debounce, v.flush)
}

func (v *MapView) flush() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flushLocked()
}

func (v *MapView) flushLocked() {
	if v.closed || v.pending == nil {
		return
	}
	q := *v.pending
	v.pending = nil
	if queryEqual(q, v.query) {
		return
	}
	// зум нужен только кластеризатору, переменные фида те же
	if feedEqual(q, v.query) {
		v.query = q
		return
	}
	v.restartLocked(q, false)
}

// Refresh перезапускает фид с текущим запросом, poll фид загрузит снапшот сразу
func (v *MapView) Refresh() {
	v.Touch()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.restartLocked(v.query, true)
}

// restartLocked отменяет текущий прогон и запускает новый. Смена режима, а для
// инкрементальных фидов любая смена области или фильтра, сбрасывает коллекции.
func (v *MapView) restartLocked(q domain.Query, force bool) {
	prev := v.query
	v.query = q
	v.generation++
	gen := v.generation

	if v.cancelRun != nil {
		v.cancelRun()
		v.cancelRun = nil
	}

	cur := v.current.Load()
	state := cur.state
	switch {
	case q.Mode() != prev.Mode(), q.Mode() == domain.ModeNone:
		state = state.Cleared()
	case v.feed.Incremental() && !force &&
		(q.Viewport.BoundingBox != prev.Viewport.BoundingBox || !q.Filter.Equal(prev.Filter)):
		state = state.Cleared()
	}
	if state != cur.state || q.Options.MapType != cur.mapType {
		v.notify(v.publishLocked(state, q.Options.MapType))
	}

	if q.Mode() == domain.ModeNone {
		v.logger.Debug("No system types selected, feed stopped")
		return
	}

	ctx, cancel := context.WithCancel(v.baseCtx)
	v.cancelRun = cancel
	metrics.FeedRestartsTotal.Inc()

	v.logger.Debug("Feed restarted",
		zap.String("feed", v.feed.Name()),
		zap.String("mode", string(q.Mode())),
		zap.Uint64("generation", gen))

	go func() {
		if err := v.feed.Run(ctx, q, &runSink{view: v, generation: gen}); err != nil && ctx.Err() == nil {
			v.logger.Warn("Feed run stopped", zap.String("feed", v.feed.Name()), zap.Error(err))
		}
	}()
}

// apply применяет переход, если поколение ещё актуально
func (v *MapView) apply(gen uint64, transition func(*reconcile.State) *reconcile.State) {
	v.mu.Lock()
	if gen != v.generation || v.closed {
		v.mu.Unlock()
		metrics.StaleResultsDiscardedTotal.Inc()
		return
	}
	cur := v.current.Load()
	next := transition(cur.state)
	if next == cur.state {
		v.mu.Unlock()
		return
	}
	p := v.publishLocked(next, cur.mapType)
	v.mu.Unlock()

	v.notify(p)
}

func (v *MapView) publishLocked(state *reconcile.State, mapType domain.MapType) *published {
	v.versionSeq++
	p := &published{state: state, mapType: mapType, version: v.versionSeq}
	v.current.Store(p)
	return p
}

func (v *MapView) notify(p *published) {
	ev := dto.ChangeEvent{
		Type:       "state_changed",
		SessionID:  v.id,
		Version:    p.version,
		Statistics: p.state.Statistics,
	}

	v.subsMu.Lock()
	defer v.subsMu.Unlock()
	for ch := range v.subscribers {
		// медленный подписчик получит только последнее изменение
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Subscribe возвращает канал изменений и функцию отписки. Канал закрывается при Close.
func (v *MapView) Subscribe() (<-chan dto.ChangeEvent, func()) {
	ch := make(chan dto.ChangeEvent, 1)

	v.subsMu.Lock()
	v.subscribers[ch] = struct{}{}
	v.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.subsMu.Lock()
			defer v.subsMu.Unlock()
			if _, ok := v.subscribers[ch]; ok {
				delete(v.subscribers, ch)
				close(ch)
			}
		})
	}
}

// Markers кластеризует текущее состояние для vp, по умолчанию для последнего viewport
func (v *MapView) Markers(vp *domain.Viewport) (*dto.MarkersResponse, error) {
	v.Touch()
	viewport := v.Query().Viewport
	if vp != nil {
		viewport = *vp
	}

	p := v.current.Load()
	markers, err := v.clusterer.Markers(pointSet{p}, viewport)
	if err != nil {
		return nil, err
	}
	return &dto.MarkersResponse{
		Markers:    markers,
		Viewport:   viewport,
		Statistics: p.state.Statistics,
		Version:    p.version,
	}, nil
}

// ExpansionZoom - зум, на котором кластер распадается, и центр для перелёта
func (v *MapView) ExpansionZoom(clusterID int) (*dto.ClusterExpansionResponse, error) {
	v.Touch()
	set := pointSet{v.current.Load()}

	zoom, err := v.clusterer.ExpansionZoom(set, clusterID)
	if err != nil {
		return nil, err
	}
	children, err := v.clusterer.Children(set, clusterID)
	if err != nil {
		return nil, err
	}

	// центр кластера - взвешенный центроид детей
	var lat, lon, total float64
	for _, c := range children {
		clat, clon := c.Position()
		w := float64(c.Count())
		lat += clat * w
		lon += clon * w
		total += w
	}
	center := domain.Point{}
	if total > 0 {
		center = domain.Point{Lat: lat / total, Lon: lon / total}
	}

	return &dto.ClusterExpansionResponse{ClusterID: clusterID, Zoom: zoom, Center: center}, nil
}

// ClusterLeaves - исходные точки кластера постранично
func (v *MapView) ClusterLeaves(clusterID, limit, offset int) (*dto.ClusterLeavesResponse, error) {
	v.Touch()
	leaves, err := v.clusterer.Leaves(pointSet{v.current.Load()}, clusterID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.ClusterLeavesResponse{ClusterID: clusterID, Leaves: leaves}, nil
}

// Statistics опубликованного состояния
func (v *MapView) Statistics() domain.Statistics {
	return v.current.Load().state.Statistics
}

// Version меняется при каждой публикации нового состояния
func (v *MapView) Version() uint64 {
	return v.current.Load().version
}

// Vehicle ищет транспорт в опубликованном состоянии
func (v *MapView) Vehicle(id string) (*domain.Vehicle, error) {
	vehicle, ok := v.current.Load().state.Vehicles.Get(id)
	if !ok {
		return nil, errors.ErrEntityNotFound.WithDetails(map[string]interface{}{"vehicle_id": id})
	}
	return &vehicle, nil
}

// Station ищет станцию в опубликованном состоянии
func (v *MapView) Station(id string) (*domain.Station, error) {
	station, ok := v.current.Load().state.Stations.Get(id)
	if !ok {
		return nil, errors.ErrEntityNotFound.WithDetails(map[string]interface{}{"station_id": id})
	}
	return &station, nil
}

// Info - описание сессии для API
func (v *MapView) Info() *dto.SessionResponse {
	q := v.Query()
	return &dto.SessionResponse{
		ID:         v.id,
		Query:      q,
		Mode:       q.Mode(),
		Feed:       v.feed.Name(),
		Statistics: v.Statistics(),
		CreatedAt:  v.createdAt,
	}
}

// runSink привязывает данные фида к поколению, которое его запустило
type runSink struct {
	view       *MapView
	generation uint64
}

func (s *runSink) Replace(snap *repository.Snapshot) {
	if snap == nil {
		return
	}
	s.view.apply(s.generation, func(st *reconcile.State) *reconcile.State {
		switch {
		case snap.Vehicles != nil && snap.Stations != nil:
			return st.ReplaceAll(snap.Vehicles, snap.Stations)
		case snap.Vehicles != nil:
			return st.ReplaceVehicles(snap.Vehicles)
		case snap.Stations != nil:
			return st.ReplaceStations(snap.Stations)
		default:
			return st
		}
	})
}

func (s *runSink) ApplyVehicles(events []domain.VehicleUpdate) {
	s.view.apply(s.generation, func(st *reconcile.State) *reconcile.State {
		countEvents(domain.KindVehicle, events)
		return st.ApplyVehicleUpdates(events)
	})
}

func (s *runSink) ApplyStations(events []domain.StationUpdate) {
	s.view.apply(s.generation, func(st *reconcile.State) *reconcile.State {
		countEvents(domain.KindStation, events)
		return st.ApplyStationUpdates(events)
	})
}

func countEvents[T any](kind domain.EntityKind, events []domain.UpdateEvent[T]) {
	for _, e := range events {
		metrics.UpdateEventsAppliedTotal.WithLabelValues(string(kind), string(e.Kind)).Inc()
	}
}

func queryEqual(a, b domain.Query) bool {
	return a.Viewport.Zoom == b.Viewport.Zoom && feedEqual(a, b)
}

// feedEqual - запросы дают один и тот же прогон фида
func feedEqual(a, b domain.Query) bool {
	return a.Viewport.BoundingBox == b.Viewport.BoundingBox && a.Options == b.Options && a.Filter.Equal(b.Filter)
}
