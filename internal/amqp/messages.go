package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FallbackEvent announces that a view was served fallback data because an
// upstream endpoint failed.
type FallbackEvent struct {
	ID       string    `json:"id"`
	Endpoint string    `json:"endpoint"`
	Status   int       `json:"status,omitempty"`
	Error    string    `json:"error"`
	At       time.Time `json:"at"`
}

// NewFallbackEvent creates an event with a fresh id, timestamped now.
func NewFallbackEvent(endpoint string, status int, err error) *FallbackEvent {
	ev := &FallbackEvent{
		ID:       uuid.NewString(),
		Endpoint: endpoint,
		Status:   status,
		At:       time.Now().UTC(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

// ToJSON converts the message to JSON bytes
func (m *FallbackEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FallbackEventFromJSON decodes a message body.
func FallbackEventFromJSON(data []byte) (*FallbackEvent, error) {
	var msg FallbackEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
