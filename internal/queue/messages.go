package queue

import (
	"time"

	"github.com/google/uuid"
)

// Activity types published by the relay.
const (
	ActivityCallStarted  = "call.started"
	ActivityStreamOpened = "stream.opened"
	ActivityStreamClosed = "stream.closed"
)

// ActivityMessage records something the relay did on behalf of a client.
// It never carries credentials or access tokens.
type ActivityMessage struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	SessionID  *uuid.UUID     `json:"session_id,omitempty"`
	Campaign   string         `json:"campaign,omitempty"`
	Number     string         `json:"number,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewActivity stamps a new activity record.
func NewActivity(kind string) ActivityMessage {
	return ActivityMessage{ID: uuid.New(), Type: kind, OccurredAt: time.Now().UTC()}
}

// Key selects the partition key: session for stream events, campaign otherwise.
func (m ActivityMessage) Key() []byte {
	if m.SessionID != nil {
		return []byte(m.SessionID.String())
	}
	if m.Campaign != "" {
		return []byte(m.Campaign)
	}
	return m.ID[:]
}
