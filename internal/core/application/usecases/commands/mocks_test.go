package commands_test

import (
	"context"

	"freight/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/mock"
)

type MockWorkflowEngine struct{ mock.Mock }

func (m *MockWorkflowEngine) InitializeWorkflow(ctx context.Context, loadID, driverID, dispatcherID string) (workflow.Snapshot, error) {
	args := m.Called(ctx, loadID, driverID, dispatcherID)
	return args.Get(0).(workflow.Snapshot), args.Error(1)
}

func (m *MockWorkflowEngine) CompleteStep(
	ctx context.Context,
	loadID, stepID string,
	data workflow.StepData,
	completedBy string,
) (workflow.Snapshot, error) {
	args := m.Called(ctx, loadID, stepID, data, completedBy)
	return args.Get(0).(workflow.Snapshot), args.Error(1)
}

func (m *MockWorkflowEngine) RequestOverride(ctx context.Context, loadID, stepID, reason, requestedBy string) (workflow.Snapshot, error) {
	args := m.Called(ctx, loadID, stepID, reason, requestedBy)
	return args.Get(0).(workflow.Snapshot), args.Error(1)
}

func (m *MockWorkflowEngine) ApproveOverride(ctx context.Context, loadID, stepID, approver string) (workflow.Snapshot, error) {
	args := m.Called(ctx, loadID, stepID, approver)
	return args.Get(0).(workflow.Snapshot), args.Error(1)
}

func (m *MockWorkflowEngine) RejectOverride(ctx context.Context, loadID, stepID, rejectedBy string) (workflow.Snapshot, error) {
	args := m.Called(ctx, loadID, stepID, rejectedBy)
	return args.Get(0).(workflow.Snapshot), args.Error(1)
}

func (m *MockWorkflowEngine) UploadStepDocument(
	ctx context.Context,
	loadID, stepID, fileURL, fileType, uploadedBy string,
	metadata workflow.StepData,
) (workflow.StepDocument, error) {
	args := m.Called(ctx, loadID, stepID, fileURL, fileType, uploadedBy, metadata)
	return args.Get(0).(workflow.StepDocument), args.Error(1)
}

func (m *MockWorkflowEngine) Reconcile(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
