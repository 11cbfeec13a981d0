package queries

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/guard"
)

var ErrGetWorkflowActionsQueryIsNotConstructed = errors.New(
	"GetWorkflowActionsQuery must be created via NewGetWorkflowActionsQuery constructor",
)

// GetWorkflowActionsQuery reads the audit trail of a load, oldest first.
type GetWorkflowActionsQuery struct {
	loadID string

	guard guard.ConstructorGuard
}

func NewGetWorkflowActionsQuery(loadID string) (GetWorkflowActionsQuery, error) {
	if err := requireText("loadId", loadID); err != nil {
		return GetWorkflowActionsQuery{}, err
	}
	return GetWorkflowActionsQuery{loadID: loadID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWorkflowActionsQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkflowActionsQueryIsNotConstructed)
}

func (q GetWorkflowActionsQuery) LoadID() string { return q.loadID }

type GetWorkflowActionsQueryHandler struct {
	reader WorkflowReader
}

func NewGetWorkflowActionsQueryHandler(reader WorkflowReader) GetWorkflowActionsQueryHandler {
	return GetWorkflowActionsQueryHandler{reader: reader}
}

func (h GetWorkflowActionsQueryHandler) Handle(ctx context.Context, query GetWorkflowActionsQuery) ([]workflow.Action, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	actions, err := h.reader.GetWorkflowActions(ctx, query.LoadID())
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []workflow.Action{}
	}
	return actions, nil
}
