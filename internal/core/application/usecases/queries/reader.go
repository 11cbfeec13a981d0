// Package queries contains read operations over load workflows. Reads go
// through the engine so they see the cached state, which may be ahead of
// storage.
package queries

import (
	"context"
	"strings"

	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/errs"
)

// WorkflowReader is the read side of the workflow engine.
type WorkflowReader interface {
	GetWorkflow(ctx context.Context, loadID string) (workflow.Snapshot, error)
	GetWorkflowActions(ctx context.Context, loadID string) ([]workflow.Action, error)
	GetDriverWorkflows(ctx context.Context, driverID string) ([]workflow.Snapshot, error)
}

func requireText(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
