package queries

import (
	"errors"

	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/guard"
)

var ErrGetWorkflowQueryIsNotConstructed = errors.New(
	"GetWorkflowQuery must be created via NewGetWorkflowQuery constructor",
)

// GetWorkflowQuery reads one load's workflow together with what the driver
// can do next.
//
// Example:
//
//	query, _ := NewGetWorkflowQuery("LD-1001")
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %d%% done\n", view.Workflow.LoadID, view.Progress)
type GetWorkflowQuery struct {
	loadID string

	guard guard.ConstructorGuard
}

func NewGetWorkflowQuery(loadID string) (GetWorkflowQuery, error) {
	if err := requireText("loadId", loadID); err != nil {
		return GetWorkflowQuery{}, err
	}
	return GetWorkflowQuery{loadID: loadID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWorkflowQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkflowQueryIsNotConstructed)
}

func (q GetWorkflowQuery) LoadID() string { return q.loadID }

// WorkflowView is the read model of one workflow. CurrentStep is nil once
// every step is complete.
type WorkflowView struct {
	Workflow       workflow.Snapshot
	CurrentStep    *workflow.Step
	AvailableSteps []workflow.Step
	Progress       int
}
