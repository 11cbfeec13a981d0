package ports

import (
	"context"

	"freight/internal/core/domain/model/edi"
)

// EDIService is the EDI boundary. Message encoding and transport are opaque
// to the workflow core.
type EDIService interface {
	// GenerateEDI204 builds a load tender for partnerID.
	GenerateEDI204(ctx context.Context, fields edi.Fields, partnerID string) (edi.Message, error)

	// GenerateEDI214 builds a shipment status message for partnerID.
	GenerateEDI214(ctx context.Context, fields edi.Fields, partnerID string) (edi.Message, error)

	// Send transmits a generated message.
	Send(ctx context.Context, messageID string) error

	// GetTradingPartner returns the partner, or an error matching
	// errs.ErrObjectNotFound when none is registered.
	GetTradingPartner(ctx context.Context, partnerID string) (edi.Partner, error)
}
