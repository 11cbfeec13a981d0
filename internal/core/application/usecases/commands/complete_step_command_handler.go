package commands

import (
	"context"

	"freight/internal/core/domain/model/workflow"
)

// CompleteStepCommandHandler records a step completion. The returned snapshot
// reflects the completion; persistence and notifications follow in the
// background and never fail the call.
//
// Example:
//
//	cmd, _ := NewCompleteStepCommand("LD-1001", "pickup_arrival",
//	    workflow.StepData{"arrivedAtPickup": true, "arrivalTimestamp": "2025-03-04T10:00:00Z"}, "driver-7")
//	snapshot, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, workflow.ErrOutOfOrder) {
//	    // an earlier required step is still open
//	}
type CompleteStepCommandHandler struct {
	engine WorkflowEngine
}

func NewCompleteStepCommandHandler(engine WorkflowEngine) CompleteStepCommandHandler {
	return CompleteStepCommandHandler{
		engine: engine,
	}
}

func (h *CompleteStepCommandHandler) Handle(ctx context.Context, cmd CompleteStepCommand) (workflow.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return workflow.Snapshot{}, err
	}
	return h.engine.CompleteStep(ctx, cmd.LoadID(), cmd.StepID(), cmd.Data(), cmd.CompletedBy())
}
