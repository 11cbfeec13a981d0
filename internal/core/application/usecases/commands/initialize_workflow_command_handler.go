package commands

import (
	"context"

	"freight/internal/core/domain/model/workflow"
)

// InitializeWorkflowCommandHandler creates the workflow of a load, or returns
// the existing one unchanged.
type InitializeWorkflowCommandHandler struct {
	engine WorkflowEngine
}

func NewInitializeWorkflowCommandHandler(engine WorkflowEngine) InitializeWorkflowCommandHandler {
	return InitializeWorkflowCommandHandler{
		engine: engine,
	}
}

func (h *InitializeWorkflowCommandHandler) Handle(ctx context.Context, cmd InitializeWorkflowCommand) (workflow.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return workflow.Snapshot{}, err
	}
	return h.engine.InitializeWorkflow(ctx, cmd.LoadID(), cmd.DriverID(), cmd.DispatcherID())
}
