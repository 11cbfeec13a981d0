// Package commands contains the write operations of the workflow service.
// Each command is built by a validating constructor and executed by its
// handler against the workflow engine.
package commands

import (
	"context"
	"strings"

	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/errs"
)

// WorkflowEngine is the slice of the engine the command handlers drive.
type WorkflowEngine interface {
	InitializeWorkflow(ctx context.Context, loadID, driverID, dispatcherID string) (workflow.Snapshot, error)
	CompleteStep(ctx context.Context, loadID, stepID string, data workflow.StepData, completedBy string) (workflow.Snapshot, error)
	RequestOverride(ctx context.Context, loadID, stepID, reason, requestedBy string) (workflow.Snapshot, error)
	ApproveOverride(ctx context.Context, loadID, stepID, approver string) (workflow.Snapshot, error)
	RejectOverride(ctx context.Context, loadID, stepID, rejectedBy string) (workflow.Snapshot, error)
	UploadStepDocument(
		ctx context.Context,
		loadID, stepID, fileURL, fileType, uploadedBy string,
		metadata workflow.StepData,
	) (workflow.StepDocument, error)
	Reconcile(ctx context.Context) (int, error)
}

func requireText(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
