package workflow

import "time"

// EventType names the logical event emitted after a successful transition.
type EventType string

const (
	EventLoadAccepted      EventType = "load_accepted"
	EventRateReviewed      EventType = "rate_reviewed"
	EventRateConfirmed     EventType = "rate_confirmed"
	EventBOLReceived       EventType = "bol_received"
	EventBOLVerified       EventType = "bol_verified"
	EventPickupAuthorized  EventType = "pickup_authorized"
	EventArrivedAtPickup   EventType = "arrived_at_pickup"
	EventPickupCompleted   EventType = "pickup_completed"
	EventInTransit         EventType = "in_transit"
	EventTrackingEnabled   EventType = "tracking_enabled"
	EventArrivedAtDelivery EventType = "arrived_at_delivery"
	EventDelivered         EventType = "delivered"
	EventPODSubmitted      EventType = "pod_submitted"

	EventOverrideRequested EventType = "override_requested"
	EventOverrideApproved  EventType = "override_approved"
	EventOverrideRejected  EventType = "override_rejected"
)

// EventForStep maps a completed step to its event.
func EventForStep(kind StepKind) EventType {
	switch kind {
	case LoadAssignmentConfirmation:
		return EventLoadAccepted
	case RateConfirmationReview:
		return EventRateReviewed
	case RateConfirmationVerification:
		return EventRateConfirmed
	case BOLReceiptConfirmation:
		return EventBOLReceived
	case BOLVerification:
		return EventBOLVerified
	case PickupAuthorization:
		return EventPickupAuthorized
	case PickupArrival:
		return EventArrivedAtPickup
	case PickupCompletion:
		return EventPickupCompleted
	case TransitStart:
		return EventInTransit
	case TransitTracking:
		return EventTrackingEnabled
	case DeliveryArrival:
		return EventArrivedAtDelivery
	case DeliveryCompletion:
		return EventDelivered
	case PODSubmission:
		return EventPODSubmitted
	case StepUnknown:
		return ""
	}
	return ""
}

// Event is one transition, carrying a snapshot taken right after it.
type Event struct {
	Type       EventType
	Step       StepKind
	Actor      string
	Data       StepData
	OccurredAt time.Time
	Workflow   Snapshot
}

func (e Event) LoadID() string {
	return e.Workflow.LoadID
}
