// Package ports defines the contracts between the load workflow core and its
// collaborators: durable storage, the EDI service boundary, internal
// notifications and the load directory.
package ports

import (
	"context"

	"freight/internal/core/domain/model/workflow"
)

// WorkflowRepository is the durable copy of load workflows. The engine's cache
// is authoritative for the running process; the repository is its durability
// and multi-process sync mechanism.
//
// Every mutating call appends an entry to the workflow's audit trail.
type WorkflowRepository interface {
	// CreateWorkflow stores a freshly initialized workflow and returns its id.
	CreateWorkflow(ctx context.Context, snapshot workflow.Snapshot) (string, error)

	// GetWorkflow returns the workflow of loadID.
	// Returns an error matching errs.ErrObjectNotFound when none exists.
	GetWorkflow(ctx context.Context, loadID string) (*workflow.LoadWorkflow, error)

	// CompleteStep records a completed step, including any override stamp.
	CompleteStep(ctx context.Context, loadID string, step workflow.Step) error

	// RequestOverride records a new, unapproved override request.
	RequestOverride(ctx context.Context, loadID string, req workflow.OverrideRequest) error

	// ApproveOverride records the approval of the pending request.
	ApproveOverride(ctx context.Context, loadID string, req workflow.OverrideRequest) error

	// RejectOverride drops the pending request on step.
	RejectOverride(ctx context.Context, loadID string, step workflow.StepKind, rejectedBy string) error

	UploadStepDocument(ctx context.Context, doc workflow.StepDocument) error

	// GetWorkflowActions returns the audit trail of loadID, oldest first.
	GetWorkflowActions(ctx context.Context, loadID string) ([]workflow.Action, error)

	GetDriverWorkflows(ctx context.Context, driverID string) ([]*workflow.LoadWorkflow, error)

	// SaveWorkflow upserts the full state of a workflow. It is used to
	// reconcile the store after earlier writes failed.
	SaveWorkflow(ctx context.Context, snapshot workflow.Snapshot) error
}
