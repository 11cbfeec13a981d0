package commands

import (
	"context"

	"freight/internal/core/domain/model/workflow"
)

// RequestOverrideCommandHandler opens an override request; the workflow then
// reports override_required until a second actor approves or rejects it.
type RequestOverrideCommandHandler struct {
	engine WorkflowEngine
}

func NewRequestOverrideCommandHandler(engine WorkflowEngine) RequestOverrideCommandHandler {
	return RequestOverrideCommandHandler{
		engine: engine,
	}
}

func (h *RequestOverrideCommandHandler) Handle(ctx context.Context, cmd RequestOverrideCommand) (workflow.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return workflow.Snapshot{}, err
	}
	return h.engine.RequestOverride(ctx, cmd.LoadID(), cmd.StepID(), cmd.Reason(), cmd.RequestedBy())
}
