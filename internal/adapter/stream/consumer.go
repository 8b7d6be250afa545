package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillcheck/quillcheck-backend/internal/config"
	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// EventHandler processes one inbound identity event. A nil return
// acknowledges the entry; an error leaves it pending for redelivery.
type EventHandler func(ctx context.Context, event domain.IdentityEvent) error

// Consumer reads identity events from a stream through a consumer group.
// Malformed entries go to the dead letter stream and are acknowledged so
// they never block the group.
type Consumer struct {
	log     *slog.Logger
	client  *redis.Client
	cfg     config.ConsumerConfig
	handler EventHandler

	lastRead atomic.Int64 // unix nanos of the last completed stream read
}

// NewConsumer creates a consumer. The group is created on Run.
func NewConsumer(logger *slog.Logger, client *redis.Client, cfg config.ConsumerConfig, handler EventHandler) *Consumer {
	return &Consumer{
		log:     logger.With("component", "stream_consumer"),
		client:  client,
		cfg:     cfg,
		handler: handler,
	}
}

// Run consumes until ctx is cancelled. It first drains entries delivered to
// this consumer but never acknowledged (crash recovery), then blocks on new
// entries.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	if err := c.consumeLoop(ctx, "0"); err != nil {
		return err
	}
	return c.consumeLoop(ctx, ">")
}

// ensureGroup creates the consumer group, tolerating concurrent creation.
func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create group %s on %s: %w", c.cfg.Group, c.cfg.Stream, err)
	}
	return nil
}

// consumeLoop reads entries starting at cursor. With cursor "0" it drains
// this consumer's pending entries and returns when none remain; with ">" it
// blocks for new entries until ctx is cancelled. During the drain the
// cursor advances past every handled entry, so entries whose handler keeps
// failing stay pending without wedging the drain; they are retried on the
// next drain.
func (c *Consumer) consumeLoop(ctx context.Context, cursor string) error {
	pendingDrain := cursor != ">"

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.ConsumerName,
			Streams:  []string{c.cfg.Stream, cursor},
			Count:    16,
			Block:    c.cfg.BlockTimeout,
		}).Result()
		if err == nil || errors.Is(err, redis.Nil) {
			c.lastRead.Store(time.Now().UnixNano())
		}
		switch {
		case errors.Is(err, redis.Nil):
			if pendingDrain {
				return nil
			}
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case err != nil:
			c.log.Error("stream read failed", "stream", c.cfg.Stream, "error", err)
			continue
		}

		empty := true
		for _, s := range streams {
			for _, msg := range s.Messages {
				empty = false
				c.handleEntry(ctx, msg)
				if pendingDrain {
					cursor = msg.ID
				}
			}
		}
		if pendingDrain && empty {
			return nil
		}
	}
}

// LastRead reports when the consumer last completed a stream read, empty
// or not. The zero time means no read has completed yet.
func (c *Consumer) LastRead() time.Time {
	n := c.lastRead.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// handleEntry decodes and dispatches one entry. Decode failures are dead
// lettered and acknowledged; handler failures leave the entry pending.
func (c *Consumer) handleEntry(ctx context.Context, msg redis.XMessage) {
	event, err := decodeIdentityEvent(msg)
	if err != nil {
		c.log.Warn("malformed identity event",
			"entry", msg.ID,
			"error", err)
		c.deadLetter(ctx, msg, err)
		c.ack(ctx, msg.ID)
		return
	}

	if err := c.handler(ctx, event); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.deadLetter(ctx, msg, err)
			c.ack(ctx, msg.ID)
			return
		}
		c.log.Error("identity event handling failed",
			"entry", msg.ID,
			"account", event.AccountID,
			"error", err)
		return
	}
	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, entryID string) {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, entryID).Err(); err != nil {
		c.log.Error("ack failed", "entry", entryID, "error", err)
	}
}

// deadLetter copies the entry with failure context to the DLQ stream.
func (c *Consumer) deadLetter(ctx context.Context, msg redis.XMessage, cause error) {
	values := map[string]any{
		"original_entry": msg.ID,
		"error":          cause.Error(),
	}
	for k, v := range msg.Values {
		values[k] = v
	}
	if err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.cfg.DeadLetterStream,
		Values: values,
	}).Err(); err != nil {
		c.log.Error("dead letter write failed", "entry", msg.ID, "error", err)
	}
}

// decodeIdentityEvent maps a stream entry onto a domain event.
func decodeIdentityEvent(msg redis.XMessage) (domain.IdentityEvent, error) {
	event := domain.IdentityEvent{
		EventID:   stringField(msg, "event_id"),
		AccountID: stringField(msg, "account_id"),
		Status:    domain.AccountStatus(stringField(msg, "status")),
	}
	if event.EventID == "" {
		event.EventID = msg.ID
	}

	seqRaw := stringField(msg, "seq")
	if seqRaw == "" {
		return event, fmt.Errorf("entry %s: missing seq", msg.ID)
	}
	seq, err := strconv.ParseInt(seqRaw, 10, 64)
	if err != nil {
		return event, fmt.Errorf("entry %s: bad seq %q: %w", msg.ID, seqRaw, err)
	}
	event.Seq = seq

	if raw := stringField(msg, "profile"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &event.Profile); err != nil {
			return event, fmt.Errorf("entry %s: bad profile: %w", msg.ID, err)
		}
	}
	return event, nil
}

func stringField(msg redis.XMessage, key string) string {
	v, ok := msg.Values[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
