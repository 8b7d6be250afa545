package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// Publisher writes outbox rows to the dictionary event stream as flat
// stream entries. One stream per bounded context; consumers filter on the
// event_type field.
type Publisher struct {
	client *redis.Client
	stream string
	source string
}

// NewPublisher creates a publisher for the given stream.
func NewPublisher(client *redis.Client, stream, source string) *Publisher {
	return &Publisher{client: client, stream: stream, source: source}
}

// Publish emits one outbox row as its flattened envelope. Returns the
// stream entry id.
func (p *Publisher) Publish(ctx context.Context, row *domain.OutboxRow) (string, error) {
	env := row.Envelope(p.source)
	entryID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id":       env.EventID,
			"event_type":     env.EventType,
			"aggregate_type": row.AggregateType,
			"aggregate_id":   env.AggregateID,
			"payload":        string(env.Payload),
			"source":         env.Metadata.Source,
			"occurred_at":    env.Metadata.Timestamp.Format(time.RFC3339Nano),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return entryID, nil
}
