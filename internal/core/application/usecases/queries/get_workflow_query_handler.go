package queries

import (
	"context"
)

type GetWorkflowQueryHandler struct {
	reader WorkflowReader
}

func NewGetWorkflowQueryHandler(reader WorkflowReader) GetWorkflowQueryHandler {
	return GetWorkflowQueryHandler{reader: reader}
}

// Handle reads one snapshot and derives the current step, available steps
// and progress from it, so they always agree.
func (h GetWorkflowQueryHandler) Handle(ctx context.Context, query GetWorkflowQuery) (WorkflowView, error) {
	if err := query.Validate(); err != nil {
		return WorkflowView{}, err
	}

	snapshot, err := h.reader.GetWorkflow(ctx, query.LoadID())
	if err != nil {
		return WorkflowView{}, err
	}
	view := WorkflowView{
		Workflow:       snapshot,
		AvailableSteps: snapshot.AvailableSteps(),
		Progress:       snapshot.Progress,
	}
	if snapshot.CurrentStep < len(snapshot.Steps) {
		current := snapshot.Steps[snapshot.CurrentStep]
		view.CurrentStep = &current
	}
	return view, nil
}
