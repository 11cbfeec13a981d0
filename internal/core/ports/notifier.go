package ports

import (
	"context"
	"time"

	"freight/internal/core/domain/model/workflow"
)

// Role is the kind of internal actor a notification is addressed to.
type Role string

const (
	RoleDispatcher Role = "dispatcher"
	RoleBroker     Role = "broker"
)

// Notification is a message to one internal actor about one workflow event.
type Notification struct {
	Role        Role               `json:"role"`
	RecipientID string             `json:"recipientId"`
	Event       workflow.EventType `json:"event"`
	LoadID      string             `json:"loadId"`
	StepID      string             `json:"stepId,omitempty"`
	Status      workflow.Status    `json:"status"`
	Progress    int                `json:"progress"`
	Actor       string             `json:"actor"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

// Notifier delivers notifications to dispatchers and brokers.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
