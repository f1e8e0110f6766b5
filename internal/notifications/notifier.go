// Package notifications publishes entity change events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"blogapi/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// EventsChannel carries every entity change event.
const EventsChannel = "blog:events"

const (
	EventUserCreated    = "user_created"
	EventUserUpdated    = "user_updated"
	EventUserDeleted    = "user_deleted"
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
	EventCommentUpdated = "comment_updated"
	EventCommentDeleted = "comment_deleted"
)

// Event is the JSON envelope published on EventsChannel.
type Event struct {
	Type       string      `json:"type"`
	EntityID   uint        `json:"entity_id"`
	UserID     uint        `json:"user_id,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Notifier provides helpers to publish notifications into Redis channels.
// A nil Notifier, or one without a client, drops every event.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

func (n *Notifier) enabled() bool {
	return n != nil && n.rdb != nil
}

// Publish sends ev to EventsChannel and, when it names an author, to that user's channel.
func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	if !n.enabled() {
		return nil
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.Type, err)
	}

	if err := n.rdb.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		return err
	}
	if ev.UserID != 0 {
		return n.rdb.Publish(ctx, UserChannel(ev.UserID), payload).Err()
	}
	return nil
}

// Emit publishes ev and logs failures instead of returning them.
func (n *Notifier) Emit(ctx context.Context, ev Event) {
	if err := n.Publish(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("type", ev.Type),
			slog.Uint64("entity_id", uint64(ev.EntityID)),
			slog.String("error", err.Error()))
	}
}

// StartSubscriber subscribes to EventsChannel and calls onEvent for each decoded event
// until ctx is cancelled. It returns once the subscription is confirmed.
func (n *Notifier) StartSubscriber(ctx context.Context, onEvent func(Event)) error {
	if !n.enabled() {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, EventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", EventsChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					middleware.Logger.Warn("dropping malformed event", slog.String("error", err.Error()))
					continue
				}
				onEvent(ev)
			}
		}
	}()

	return nil
}

// UserChannel is the per-author channel name.
func UserChannel(userID uint) string {
	return "blog:user:" + strconv.FormatUint(uint64(userID), 10)
}
