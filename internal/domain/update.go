package domain

import "fmt"

type UpdateKind string

const (
	UpdateCreate UpdateKind = "CREATE"
	UpdateUpdate UpdateKind = "UPDATE"
	UpdateDelete UpdateKind = "DELETE"
)

func (k UpdateKind) Valid() bool {
	switch k {
	case UpdateCreate, UpdateUpdate, UpdateDelete:
		return true
	}
	return false
}

// UpdateEvent - одно изменение сущности; Entity обязателен для CREATE/UPDATE
type UpdateEvent[T any] struct {
	EntityID string     `json:"entity_id"`
	Kind     UpdateKind `json:"update_type"`
	Entity   *T         `json:"entity,omitempty"`
}

type (
	VehicleUpdate = UpdateEvent[Vehicle]
	StationUpdate = UpdateEvent[Station]
)

// Validate проверяет id, тип и наличие сущности
func (e UpdateEvent[T]) Validate() error {
	if e.EntityID == "" {
		return fmt.Errorf("update event without entity id")
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("unknown update type %q for %s", e.Kind, e.EntityID)
	}
	if e.Kind != UpdateDelete && e.Entity == nil {
		return fmt.Errorf("%s event for %s has no entity", e.Kind, e.EntityID)
	}
	return nil
}

// NewUpdate собирает событие; для DELETE сущность отбрасывается
func NewUpdate[T any](kind UpdateKind, id string, entity *T) UpdateEvent[T] {
	if kind == UpdateDelete {
		entity = nil
	}
	return UpdateEvent[T]{EntityID: id, Kind: kind, Entity: entity}
}

// Upsert - UPDATE с сущностью
func Upsert[T any](id string, entity T) UpdateEvent[T] {
	return NewUpdate(UpdateUpdate, id, &entity)
}

// Delete - DELETE без сущности
func Delete[T any](id string) UpdateEvent[T] {
	return NewUpdate[T](UpdateDelete, id, nil)
}
