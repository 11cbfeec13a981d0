// Package redis delivers workflow notifications over Redis pub/sub and keeps
// generated EDI messages in a Redis outbox.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "freight:"

// Notifier publishes each notification as JSON on <prefix>notify:<role>:<recipient>.
type Notifier struct {
	client *redis.Client
	prefix string
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(client *redis.Client, prefix string) *Notifier {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Notifier{client: client, prefix: prefix}
}

// Channel is the pub/sub channel for one recipient.
func (n *Notifier) Channel(role ports.Role, recipientID string) string {
	return fmt.Sprintf("%snotify:%s:%s", n.prefix, role, recipientID)
}

func (n *Notifier) Notify(ctx context.Context, msg ports.Notification) error {
	if msg.RecipientID == "" {
		return errs.NewValueIsRequiredError("recipientId")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.Channel(msg.Role, msg.RecipientID), payload).Err()
}
