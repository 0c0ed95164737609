// Package reconcile merges snapshots and incremental update batches into
// immutable keyed collections of vehicles and stations.
package reconcile

import (
	"iter"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/mobility-map/internal/domain"
)

// Record - сущность с ключом и поверхностным мержем
type Record[T any] interface {
	EntityID() string
	Merge(patch T) T
}

var versionSeq atomic.Uint64

// Collection неизменяема после создания. Version уникальна в пределах процесса,
// по ней кластеризатор понимает, сменился ли набор точек.
type Collection[T Record[T]] struct {
	items   map[string]T
	version uint64
}

func newCollection[T Record[T]](items map[string]T) *Collection[T] {
	if items == nil {
		items = make(map[string]T)
	}
	return &Collection[T]{items: items, version: versionSeq.Add(1)}
}

// Clear возвращает пустую коллекцию
func Clear[T Record[T]]() *Collection[T] {
	return newCollection[T](nil)
}

// Replace - режим полной замены: снапшот целиком вытесняет прежнее состояние.
// При повторе id побеждает последняя запись.
func Replace[T Record[T]](records []T) *Collection[T] {
	items := make(map[string]T, len(records))
	for _, r := range records {
		items[r.EntityID()] = r
	}
	return newCollection(items)
}

// ApplyUpdates применяет батч по порядку. CREATE/UPDATE делают upsert с мержем,
// DELETE удаляет (повторный delete ничего не делает). Батч без изменений,
// в том числе пустой, возвращает current.
func ApplyUpdates[T Record[T]](current *Collection[T], events []domain.UpdateEvent[T]) *Collection[T] {
	if current == nil {
		current = Clear[T]()
	}
	if !changes(current, events) {
		return current
	}

	items := maps.Clone(current.items)
	if items == nil {
		items = make(map[string]T, len(events))
	}

	for _, e := range events {
		switch e.Kind {
		case domain.UpdateDelete:
			delete(items, e.EntityID)
		case domain.UpdateCreate, domain.UpdateUpdate:
			if e.Entity == nil {
				continue
			}
			if existing, ok := items[e.EntityID]; ok {
				items[e.EntityID] = existing.Merge(*e.Entity)
			} else {
				items[e.EntityID] = *e.Entity
			}
		}
	}

	return newCollection(items)
}

// changes - false, если в батче только удаления отсутствующих id
// и события без сущности
func changes[T Record[T]](c *Collection[T], events []domain.UpdateEvent[T]) bool {
	for _, e := range events {
		switch e.Kind {
		case domain.UpdateDelete:
			if c.Has(e.EntityID) {
				return true
			}
		case domain.UpdateCreate, domain.UpdateUpdate:
			if e.Entity != nil {
				return true
			}
		}
	}
	return false
}

func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

func (c *Collection[T]) Version() uint64 {
	if c == nil {
		return 0
	}
	return c.version
}

// Get безопасен для nil коллекции
func (c *Collection[T]) Get(id string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.items[id]
	return v, ok
}

func (c *Collection[T]) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// All - итерация без гарантии порядка
func (c *Collection[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		if c == nil {
			return
		}
		for id, v := range c.items {
			if !yield(id, v) {
				return
			}
		}
	}
}

// Values - записи, отсортированные по id
func (c *Collection[T]) Values() []T {
	if c == nil {
		return nil
	}
	ids := slices.Sorted(maps.Keys(c.items))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.items[id])
	}
	return out
}
