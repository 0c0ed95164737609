package domain

import "time"

// StreamMobilityUpdates - stream, в который relay воркер пишет батчи обновлений
const StreamMobilityUpdates = "stream:mobility:updates"

// RelayBatch - один батч из подписки, переданный через Redis Stream
type RelayBatch struct {
	Kind        EntityKind      `json:"kind"`
	BBox        BoundingBox     `json:"bbox"`
	Vehicles    []VehicleUpdate `json:"vehicles,omitempty"`
	Stations    []StationUpdate `json:"stations,omitempty"`
	PublishedAt time.Time       `json:"published_at"`
}

func (b RelayBatch) Len() int {
	return len(b.Vehicles) + len(b.Stations)
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
