package queries

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/guard"
)

var ErrGetDriverWorkflowsQueryIsNotConstructed = errors.New(
	"GetDriverWorkflowsQuery must be created via NewGetDriverWorkflowsQuery constructor",
)

// GetDriverWorkflowsQuery lists a driver's workflows. With activeOnly set,
// completed workflows are left out.
type GetDriverWorkflowsQuery struct {
	driverID   string
	activeOnly bool

	guard guard.ConstructorGuard
}

func NewGetDriverWorkflowsQuery(driverID string, activeOnly bool) (GetDriverWorkflowsQuery, error) {
	if err := requireText("driverId", driverID); err != nil {
		return GetDriverWorkflowsQuery{}, err
	}
	return GetDriverWorkflowsQuery{
		driverID:   driverID,
		activeOnly: activeOnly,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetDriverWorkflowsQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverWorkflowsQueryIsNotConstructed)
}

func (q GetDriverWorkflowsQuery) DriverID() string { return q.driverID }
func (q GetDriverWorkflowsQuery) ActiveOnly() bool { return q.activeOnly }

type GetDriverWorkflowsQueryHandler struct {
	reader WorkflowReader
}

func NewGetDriverWorkflowsQueryHandler(reader WorkflowReader) GetDriverWorkflowsQueryHandler {
	return GetDriverWorkflowsQueryHandler{reader: reader}
}

func (h GetDriverWorkflowsQueryHandler) Handle(ctx context.Context, query GetDriverWorkflowsQuery) ([]workflow.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	all, err := h.reader.GetDriverWorkflows(ctx, query.DriverID())
	if err != nil {
		return nil, err
	}

	out := make([]workflow.Snapshot, 0, len(all))
	for _, s := range all {
		if query.ActiveOnly() && s.Status == workflow.StatusCompleted {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
