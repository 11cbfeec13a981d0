package workflow

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// StepKind identifies one milestone of the load workflow. The numeric order
// of the constants is the execution order of the template.
type StepKind int

const (
	// StepUnknown catches uninitialised values.
	StepUnknown StepKind = iota
	LoadAssignmentConfirmation
	RateConfirmationReview
	RateConfirmationVerification
	BOLReceiptConfirmation
	BOLVerification
	PickupAuthorization
	PickupArrival
	PickupCompletion
	TransitStart
	TransitTracking
	DeliveryArrival
	DeliveryCompletion
	PODSubmission
)

// StepKinds returns every valid kind in template order.
func StepKinds() []StepKind {
	return []StepKind{
		LoadAssignmentConfirmation,
		RateConfirmationReview,
		RateConfirmationVerification,
		BOLReceiptConfirmation,
		BOLVerification,
		PickupAuthorization,
		PickupArrival,
		PickupCompletion,
		TransitStart,
		TransitTracking,
		DeliveryArrival,
		DeliveryCompletion,
		PODSubmission,
	}
}

// StepCount is the length of the workflow template.
var StepCount = len(StepKinds())

// ParseStepKind maps a wire id such as "pickup_completion" to its kind.
func ParseStepKind(id string) (StepKind, error) {
	for _, k := range StepKinds() {
		if k.String() == id {
			return k, nil
		}
	}
	return StepUnknown, errs.NewValueIsInvalidErrorWithCause("stepId", fmt.Errorf("%q is not a workflow step", id))
}

// Index is the position of the kind in the template, -1 for invalid kinds.
func (k StepKind) Index() int {
	if err := k.Validate(); err != nil {
		return -1
	}
	return int(k) - 1
}

func (k StepKind) Validate() error {
	if k <= StepUnknown || k > PODSubmission {
		return errs.NewValueIsInvalidErrorWithCause("step", fmt.Errorf("%d is not a valid step kind", k))
	}
	return nil
}

// String returns the wire id of the step.
func (k StepKind) String() string {
	switch k {
	case LoadAssignmentConfirmation:
		return "load_assignment_confirmation"
	case RateConfirmationReview:
		return "rate_confirmation_review"
	case RateConfirmationVerification:
		return "rate_confirmation_verification"
	case BOLReceiptConfirmation:
		return "bol_receipt_confirmation"
	case BOLVerification:
		return "bol_verification"
	case PickupAuthorization:
		return "pickup_authorization"
	case PickupArrival:
		return "pickup_arrival"
	case PickupCompletion:
		return "pickup_completion"
	case TransitStart:
		return "transit_start"
	case TransitTracking:
		return "transit_tracking"
	case DeliveryArrival:
		return "delivery_arrival"
	case DeliveryCompletion:
		return "delivery_completion"
	case PODSubmission:
		return "pod_submission"
	case StepUnknown:
		return "unknown"
	}
	return "unknown"
}

func (k StepKind) MarshalText() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return []byte(k.String()), nil
}

func (k *StepKind) UnmarshalText(text []byte) error {
	parsed, err := ParseStepKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// stepTemplate is the display and policy metadata of one template entry.
type stepTemplate struct {
	name          string
	description   string
	required      bool
	allowOverride bool
}

func templateFor(k StepKind) stepTemplate {
	switch k {
	case LoadAssignmentConfirmation:
		return stepTemplate{"Load Assignment Confirmation", "Driver accepts the assigned load", true, false}
	case RateConfirmationReview:
		return stepTemplate{"Rate Confirmation Review", "Driver reviews the rate confirmation sheet", true, false}
	case RateConfirmationVerification:
		return stepTemplate{"Rate Confirmation Verification", "Driver verifies rate, lanes and accessorials", true, false}
	case BOLReceiptConfirmation:
		return stepTemplate{"BOL Receipt Confirmation", "Driver confirms the bill of lading was received", true, false}
	case BOLVerification:
		return stepTemplate{"BOL Verification", "Driver verifies the bill of lading against the load", true, false}
	case PickupAuthorization:
		return stepTemplate{"Pickup Authorization", "Dispatch authorizes the driver to proceed to pickup", true, false}
	case PickupArrival:
		return stepTemplate{"Pickup Arrival", "Driver checks in at the shipper", true, false}
	case PickupCompletion:
		return stepTemplate{"Pickup Completion", "Freight loaded, sealed and signed for", true, false}
	case TransitStart:
		return stepTemplate{"Transit Start", "Driver departs the shipper", true, false}
	case TransitTracking:
		return stepTemplate{"Transit Tracking", "Location and status updates enabled for the trip", false, false}
	case DeliveryArrival:
		return stepTemplate{"Delivery Arrival", "Driver checks in at the receiver", true, false}
	case DeliveryCompletion:
		return stepTemplate{"Delivery Completion", "Freight unloaded and signed for by the receiver", true, true}
	case PODSubmission:
		return stepTemplate{"POD Submission", "Proof of delivery submitted", true, false}
	case StepUnknown:
		return stepTemplate{}
	}
	return stepTemplate{}
}
