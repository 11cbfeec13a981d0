package commands

import (
	"context"

	"freight/internal/core/domain/model/workflow"
)

type ResolveOverrideCommandHandler struct {
	engine WorkflowEngine
}

func NewResolveOverrideCommandHandler(engine WorkflowEngine) ResolveOverrideCommandHandler {
	return ResolveOverrideCommandHandler{
		engine: engine,
	}
}

// Handle applies the decision. An approval lets the step be completed with
// overrideApproved set; a rejection drops the request.
func (h *ResolveOverrideCommandHandler) Handle(ctx context.Context, cmd ResolveOverrideCommand) (workflow.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return workflow.Snapshot{}, err
	}
	if cmd.Decision() == DecisionApprove {
		return h.engine.ApproveOverride(ctx, cmd.LoadID(), cmd.StepID(), cmd.Actor())
	}
	return h.engine.RejectOverride(ctx, cmd.LoadID(), cmd.StepID(), cmd.Actor())
}
