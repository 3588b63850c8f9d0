package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the sync queue.
const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// PurchaseEvent is a lightweight mutation notification. It carries only the
// record id; the worker fetches the full record from the database, so a
// message can never go stale against a later update.
type PurchaseEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUpsertEvent(id string) *PurchaseEvent {
	return &PurchaseEvent{Kind: KindUpsert, ID: id, Timestamp: time.Now()}
}

func NewDeleteEvent(id string) *PurchaseEvent {
	return &PurchaseEvent{Kind: KindDelete, ID: id, Timestamp: time.Now()}
}

// ToJSON converts the event to JSON bytes.
func (e *PurchaseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PurchaseEventFromJSON creates an event from JSON bytes.
func PurchaseEventFromJSON(data []byte) (*PurchaseEvent, error) {
	var e PurchaseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
