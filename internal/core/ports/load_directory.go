package ports

import "context"

// LoadDetails is the load data the workflow needs for notifications and EDI.
type LoadDetails struct {
	LoadID      string
	BrokerID    string
	PartnerIDs  []string
	Shipper     string
	Consignee   string
	Origin      string
	Destination string
	BOLNumber   string
}

// LoadDirectory looks up loads owned by the wider freight system.
type LoadDirectory interface {
	// GetLoad returns an error matching errs.ErrObjectNotFound for unknown loads.
	GetLoad(ctx context.Context, loadID string) (LoadDetails, error)
}
