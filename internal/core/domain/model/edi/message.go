package edi

import "time"

// Fields is the flat field envelope of one EDI message.
type Fields map[string]string

type MessageStatus string

const (
	MessageGenerated MessageStatus = "generated"
	MessageSent      MessageStatus = "sent"
)

// Message is a generated EDI message awaiting or past transmission.
type Message struct {
	ID          string          `json:"id"`
	PartnerID   string          `json:"partnerId"`
	Transaction TransactionCode `json:"transaction"`
	Fields      Fields          `json:"fields"`
	Status      MessageStatus   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	SentAt      *time.Time      `json:"sentAt,omitempty"`
}
