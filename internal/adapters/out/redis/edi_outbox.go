package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/edi"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	fieldMessage = "message"
	fieldStatus  = "status"
)

type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

// PartnerLookup resolves trading partners.
type PartnerLookup interface {
	GetTradingPartner(ctx context.Context, partnerID string) (edi.Partner, error)
}

// EDIOutbox implements ports.EDIService. A generated message is a hash at
// <prefix>edi:msg:<id>; Send marks it sent and appends its id to the
// partner's list at <prefix>edi:outbound:<partner>.
type EDIOutbox struct {
	client   *redis.Client
	partners PartnerLookup
	prefix   string
	now      func() time.Time
}

var _ ports.EDIService = (*EDIOutbox)(nil)

func NewEDIOutbox(client *redis.Client, partners PartnerLookup, prefix string) *EDIOutbox {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &EDIOutbox{
		client:   client,
		partners: partners,
		prefix:   prefix,
		now:      time.Now,
	}
}

func (o *EDIOutbox) GenerateEDI204(ctx context.Context, fields edi.Fields, partnerID string) (edi.Message, error) {
	return o.generate(ctx, edi.Tx204, fields, partnerID)
}

func (o *EDIOutbox) GenerateEDI214(ctx context.Context, fields edi.Fields, partnerID string) (edi.Message, error) {
	return o.generate(ctx, edi.Tx214, fields, partnerID)
}

func (o *EDIOutbox) GetTradingPartner(ctx context.Context, partnerID string) (edi.Partner, error) {
	return o.partners.GetTradingPartner(ctx, partnerID)
}

// Send marks the message sent and queues it for its partner. Sending a message
// twice queues it once.
func (o *EDIOutbox) Send(ctx context.Context, messageID string) error {
	key := o.messageKey(messageID)

	return o.client.Watch(ctx, func(tx *redis.Tx) error {
		msg, err := o.read(ctx, tx, messageID)
		if err != nil {
			return err
		}
		if msg.Status == edi.MessageSent {
			return nil
		}

		at := o.now().UTC()
		msg.Status = edi.MessageSent
		msg.SentAt = &at
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldMessage, payload, fieldStatus, string(msg.Status))
			pipe.RPush(ctx, o.outboundKey(msg.PartnerID), msg.ID)
			return nil
		})
		return err
	}, key)
}

// Message returns a stored message.
func (o *EDIOutbox) Message(ctx context.Context, messageID string) (edi.Message, error) {
	return o.read(ctx, o.client, messageID)
}

// Outbound returns the ids queued for a partner, oldest first.
func (o *EDIOutbox) Outbound(ctx context.Context, partnerID string) ([]string, error) {
	return o.client.LRange(ctx, o.outboundKey(partnerID), 0, -1).Result()
}

func (o *EDIOutbox) generate(ctx context.Context, code edi.TransactionCode, fields edi.Fields, partnerID string) (edi.Message, error) {
	partner, err := o.partners.GetTradingPartner(ctx, partnerID)
	if err != nil {
		return edi.Message{}, err
	}
	if !partner.Supports(code) {
		return edi.Message{}, errs.NewValueIsInvalidErrorWithCause(
			"partner",
			fmt.Errorf("%s does not accept %s", partnerID, code),
		)
	}

	msg := edi.Message{
		ID:          kernel.NewUUID().String(),
		PartnerID:   partnerID,
		Transaction: code,
		Fields:      make(edi.Fields, len(fields)),
		Status:      edi.MessageGenerated,
		CreatedAt:   o.now().UTC(),
	}
	for k, v := range fields {
		msg.Fields[k] = v
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return edi.Message{}, err
	}
	if err := o.client.HSet(ctx, o.messageKey(msg.ID), fieldMessage, payload, fieldStatus, string(msg.Status)).Err(); err != nil {
		return edi.Message{}, err
	}
	return msg, nil
}

func (o *EDIOutbox) read(ctx context.Context, c hashGetter, messageID string) (edi.Message, error) {
	raw, err := c.HGet(ctx, o.messageKey(messageID), fieldMessage).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return edi.Message{}, errs.NewObjectNotFoundError("edi message", messageID)
		}
		return edi.Message{}, err
	}
	var msg edi.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return edi.Message{}, err
	}
	return msg, nil
}

func (o *EDIOutbox) messageKey(id string) string {
	return o.prefix + "edi:msg:" + id
}

func (o *EDIOutbox) outboundKey(partnerID string) string {
	return o.prefix + "edi:outbound:" + partnerID
}
