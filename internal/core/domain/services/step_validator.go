package services

import (
	"fmt"

	"freight/internal/core/domain/model/workflow"
)

// MinPhotos is the number of photos pickup and delivery completion require.
const MinPhotos = 2

// ValidationResult is the outcome of validating one step payload.
// Errors holds every failed rule, in field order.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Err converts a failed result into a *workflow.ValidationError.
// It returns nil for a valid result.
func (r ValidationResult) Err(kind workflow.StepKind) error {
	if r.Valid {
		return nil
	}
	return &workflow.ValidationError{Step: kind, Errors: append([]string(nil), r.Errors...)}
}

// StepValidator checks the structural completeness of step payloads.
//
// Business rules:
//   - Every acknowledgment step needs its boolean flag set to true plus a timestamp
//   - pickup_completion and delivery_completion need at least MinPhotos photos
//   - delivery_completion relaxes receiverSignature/receiverName only when
//     overrideApproved=true, and then requires a non-blank overrideReason
//   - All rules are evaluated; the result is never cut short at the first failure
//
// Example usage:
//
//	v := NewStepValidator()
//	res := v.Validate(workflow.PickupCompletion, data)
//	if !res.Valid {
//	    return res.Err(workflow.PickupCompletion)
//	}
type StepValidator struct{}

func NewStepValidator() StepValidator {
	return StepValidator{}
}

// Validate runs the rules of kind against data.
//
// Parameters:
//   - kind: the step being completed
//   - data: the submitted payload, never modified
//
// Returns:
//   - ValidationResult: Valid=true with no errors, or Valid=false with every failed rule
func (v StepValidator) Validate(kind workflow.StepKind, data workflow.StepData) ValidationResult {
	c := checker{data: data}

	switch kind {
	case workflow.LoadAssignmentConfirmation:
		c.flag("confirmed")
		c.text("driverSignature")
		c.text("confirmationTimestamp")
	case workflow.RateConfirmationReview:
		c.flag("rateReviewed")
		c.text("reviewTimestamp")
	case workflow.RateConfirmationVerification:
		c.flag("rateVerified")
		c.text("verificationTimestamp")
	case workflow.BOLReceiptConfirmation:
		c.flag("bolReceived")
		c.text("receiptTimestamp")
	case workflow.BOLVerification:
		c.flag("bolVerified")
		c.text("verificationTimestamp")
	case workflow.PickupAuthorization:
		c.flag("pickupAuthorized")
		c.text("authorizationTimestamp")
	case workflow.PickupArrival:
		c.flag("arrivedAtPickup")
		c.text("arrivalTimestamp")
	case workflow.PickupCompletion:
		c.text("pickupTimestamp")
		c.flag("loadingComplete")
		c.text("sealNumber")
		c.text("driverSignature")
		c.photos("pickupPhotos")
	case workflow.TransitStart:
		c.flag("transitStarted")
		c.text("departureTimestamp")
	case workflow.TransitTracking:
		c.flag("trackingEnabled")
		c.positive("locationUpdateInterval")
		c.flag("statusUpdateEnabled")
	case workflow.DeliveryArrival:
		c.flag("arrivedAtDelivery")
		c.text("arrivalTimestamp")
	case workflow.DeliveryCompletion:
		c.text("deliveryTimestamp")
		c.flag("unloadingComplete")
		c.photos("deliveryPhotos")
		if data.Bool(workflow.DataOverrideApproved) {
			c.text("overrideReason")
		} else {
			c.text("receiverSignature")
			c.text("receiverName")
		}
	case workflow.PODSubmission:
		c.flag("podSubmitted")
		c.text("submissionTimestamp")
	case workflow.StepUnknown:
		c.fail("unknown step %s", kind)
	default:
		c.fail("unknown step %s", kind)
	}

	return ValidationResult{Valid: len(c.errors) == 0, Errors: c.errors}
}

type checker struct {
	data   workflow.StepData
	errors []string
}

func (c *checker) fail(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *checker) flag(key string) {
	if !c.data.Bool(key) {
		c.fail("%s must be true", key)
	}
}

func (c *checker) text(key string) {
	if _, ok := c.data.Text(key); !ok {
		c.fail("%s is required", key)
	}
}

func (c *checker) photos(key string) {
	if n := c.data.Len(key); n < MinPhotos {
		c.fail("%s requires at least %d photos", key, MinPhotos)
	}
}

func (c *checker) positive(key string) {
	if n, ok := c.data.Number(key); !ok || n <= 0 {
		c.fail("%s must be a positive number", key)
	}
}
