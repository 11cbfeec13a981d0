package engine_test

import (
	"context"

	"freight/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/mock"
)

type MockWorkflowRepository struct{ mock.Mock }

func (m *MockWorkflowRepository) CreateWorkflow(ctx context.Context, s workflow.Snapshot) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func (m *MockWorkflowRepository) GetWorkflow(ctx context.Context, loadID string) (*workflow.LoadWorkflow, error) {
	args := m.Called(ctx, loadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.LoadWorkflow), args.Error(1)
}

func (m *MockWorkflowRepository) CompleteStep(ctx context.Context, loadID string, step workflow.Step) error {
	args := m.Called(ctx, loadID, step)
	return args.Error(0)
}

func (m *MockWorkflowRepository) RequestOverride(ctx context.Context, loadID string, req workflow.OverrideRequest) error {
	args := m.Called(ctx, loadID, req)
	return args.Error(0)
}

func (m *MockWorkflowRepository) ApproveOverride(ctx context.Context, loadID string, req workflow.OverrideRequest) error {
	args := m.Called(ctx, loadID, req)
	return args.Error(0)
}

func (m *MockWorkflowRepository) RejectOverride(ctx context.Context, loadID string, step workflow.StepKind, rejectedBy string) error {
	args := m.Called(ctx, loadID, step, rejectedBy)
	return args.Error(0)
}

func (m *MockWorkflowRepository) UploadStepDocument(ctx context.Context, doc workflow.StepDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockWorkflowRepository) GetWorkflowActions(ctx context.Context, loadID string) ([]workflow.Action, error) {
	args := m.Called(ctx, loadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Action), args.Error(1)
}

func (m *MockWorkflowRepository) GetDriverWorkflows(ctx context.Context, driverID string) ([]*workflow.LoadWorkflow, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workflow.LoadWorkflow), args.Error(1)
}

func (m *MockWorkflowRepository) SaveWorkflow(ctx context.Context, s workflow.Snapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type MockEventDispatcher struct{ mock.Mock }

func (m *MockEventDispatcher) Dispatch(ctx context.Context, event workflow.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// payloadFor returns a payload that passes the validator of kind.
func payloadFor(kind workflow.StepKind) workflow.StepData {
	const at = "2026-03-04T10:00:00Z"
	switch kind {
	case workflow.LoadAssignmentConfirmation:
		return workflow.StepData{"confirmed": true, "driverSignature": "sig", "confirmationTimestamp": "t"}
	case workflow.RateConfirmationReview:
		return workflow.StepData{"rateReviewed": true, "reviewTimestamp": at}
	case workflow.RateConfirmationVerification:
		return workflow.StepData{"rateVerified": true, "verificationTimestamp": at}
	case workflow.BOLReceiptConfirmation:
		return workflow.StepData{"bolReceived": true, "receiptTimestamp": at}
	case workflow.BOLVerification:
		return workflow.StepData{"bolVerified": true, "verificationTimestamp": at}
	case workflow.PickupAuthorization:
		return workflow.StepData{"pickupAuthorized": true, "authorizationTimestamp": at}
	case workflow.PickupArrival:
		return workflow.StepData{"arrivedAtPickup": true, "arrivalTimestamp": at}
	case workflow.PickupCompletion:
		return workflow.StepData{
			"pickupTimestamp": at, "loadingComplete": true, "sealNumber": "S-1",
			"driverSignature": "sig", "pickupPhotos": []any{"p1", "p2"},
		}
	case workflow.TransitStart:
		return workflow.StepData{"transitStarted": true, "departureTimestamp": at}
	case workflow.TransitTracking:
		return workflow.StepData{"trackingEnabled": true, "locationUpdateInterval": float64(60), "statusUpdateEnabled": true}
	case workflow.DeliveryArrival:
		return workflow.StepData{"arrivedAtDelivery": true, "arrivalTimestamp": at}
	case workflow.DeliveryCompletion:
		return workflow.StepData{
			"deliveryTimestamp": at, "unloadingComplete": true, "deliveryPhotos": []any{"d1", "d2"},
			"receiverSignature": "sig", "receiverName": "Jane",
		}
	case workflow.PODSubmission:
		return workflow.StepData{"podSubmitted": true, "submissionTimestamp": at}
	case workflow.StepUnknown:
		return workflow.StepData{}
	}
	return workflow.StepData{}
}
