package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types published through the outbox.
const (
	EventDictUpdated    = "dict.updated.v1"
	EventDictReconciled = "dict.reconciled.v1"
)

// AggregateDictionary is the aggregate type recorded on dictionary events.
const AggregateDictionary = "dictionary"

// OutboxRow records one state change awaiting publication. It is inserted in
// the same transaction as the change it describes and transitions
// Unpublished → Published exactly once; the relay only ever writes
// PublishedAt, nothing else.
type OutboxRow struct {
	ID            uuid.UUID
	EventType     string
	AggregateType string
	AggregateID   string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// DictDelta is the payload of dict.updated.v1 and dict.reconciled.v1 events:
// the change as a delta, plus the resulting word count for the scope.
type DictDelta struct {
	ScopeKey  string   `json:"scopeKey"`
	Added     []string `json:"added,omitempty"`
	Removed   []string `json:"removed,omitempty"`
	WordCount int      `json:"wordCount"`
}

// EventEnvelope is the wire shape of every published event. The stream
// publisher flattens it into one field per entry key.
type EventEnvelope struct {
	EventID     string        `json:"eventId"`
	EventType   string        `json:"eventType"`
	AggregateID string        `json:"aggregateId"`
	Payload     []byte        `json:"payload"`
	Metadata    EventMetadata `json:"metadata"`
}

// Envelope builds the wire envelope for an outbox row.
func (r OutboxRow) Envelope(source string) EventEnvelope {
	return EventEnvelope{
		EventID:     r.ID.String(),
		EventType:   r.EventType,
		AggregateID: r.AggregateID,
		Payload:     r.Payload,
		Metadata: EventMetadata{
			Source:    source,
			Timestamp: r.CreatedAt.UTC(),
		},
	}
}

// EventMetadata carries provenance for an envelope.
type EventMetadata struct {
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}
