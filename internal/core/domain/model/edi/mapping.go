package edi

import "freight/internal/core/domain/model/workflow"

// Field names used in EDI envelopes.
const (
	FieldLoadID      = "loadId"
	FieldBOLNumber   = "bolNumber"
	FieldShipper     = "shipper"
	FieldConsignee   = "consignee"
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldStatusCode  = "statusCode"
	FieldStatusTime  = "statusTime"
	FieldLocation    = "location"
	FieldSealNumber  = "sealNumber"
	FieldReceiver    = "receiverName"
)

// Trigger describes the message an event produces.
type Trigger struct {
	Transaction TransactionCode
	Status      StatusCode
	// Location names the load field used as the status location.
	Location string
	Required []string
}

var base214 = []string{FieldLoadID, FieldBOLNumber, FieldStatusCode, FieldStatusTime, FieldLocation}

// TriggerFor returns the EDI trigger of event. Events without EDI return false.
func TriggerFor(event workflow.EventType) (Trigger, bool) {
	switch event {
	case workflow.EventRateConfirmed:
		return Trigger{
			Transaction: Tx204,
			Required:    []string{FieldLoadID, FieldShipper, FieldConsignee, FieldOrigin, FieldDestination},
		}, true
	case workflow.EventArrivedAtPickup:
		return Trigger{Transaction: Tx214, Status: StatusArrivedAtPickup, Location: FieldOrigin, Required: base214}, true
	case workflow.EventPickupCompleted:
		return Trigger{
			Transaction: Tx214,
			Status:      StatusDepartedPickup,
			Location:    FieldOrigin,
			Required:    append(append([]string(nil), base214...), FieldSealNumber),
		}, true
	case workflow.EventInTransit:
		return Trigger{Transaction: Tx214, Status: StatusEnRoute, Location: FieldOrigin, Required: base214}, true
	case workflow.EventArrivedAtDelivery:
		return Trigger{Transaction: Tx214, Status: StatusArrivedAtDelivery, Location: FieldDestination, Required: base214}, true
	case workflow.EventDelivered:
		return Trigger{Transaction: Tx214, Status: StatusDelivered, Location: FieldDestination, Required: base214}, true
	case workflow.EventLoadAccepted,
		workflow.EventRateReviewed,
		workflow.EventBOLReceived,
		workflow.EventBOLVerified,
		workflow.EventPickupAuthorized,
		workflow.EventTrackingEnabled,
		workflow.EventPODSubmitted,
		workflow.EventOverrideRequested,
		workflow.EventOverrideApproved,
		workflow.EventOverrideRejected:
		return Trigger{}, false
	}
	return Trigger{}, false
}

// Missing returns the required fields absent or blank in f.
func (t Trigger) Missing(f Fields) []string {
	var missing []string
	for _, name := range t.Required {
		if f[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
