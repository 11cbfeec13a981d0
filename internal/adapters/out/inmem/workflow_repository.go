// Package inmem provides goroutine-safe, process-local implementations of
// the workflow ports. They back the service when no database or Redis is
// configured.
package inmem

import (
	"context"
	"slices"
	"sync"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/workflow"
)

// WorkflowRepository keeps workflows as snapshots keyed by load id.
type WorkflowRepository struct {
	mu        sync.RWMutex
	workflows map[string]workflow.Snapshot
	actions   map[string][]workflow.Action
	documents map[string][]workflow.StepDocument
	now       func() time.Time
}

func NewWorkflowRepository() *WorkflowRepository {
	return &WorkflowRepository{
		workflows: make(map[string]workflow.Snapshot),
		actions:   make(map[string][]workflow.Action),
		documents: make(map[string][]workflow.StepDocument),
		now:       time.Now,
	}
}

func (r *WorkflowRepository) CreateWorkflow(_ context.Context, s workflow.Snapshot) (string, error) {
	if _, err := workflow.RestoreFromSnapshot(s); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.workflows[s.LoadID]; ok {
		return existing.ID, nil
	}
	r.workflows[s.LoadID] = s
	r.record(s.LoadID, workflow.ActionWorkflowCreated, workflow.StepUnknown, s.DriverID, workflow.StepData{
		"driverId":     s.DriverID,
		"dispatcherId": s.DispatcherID,
	})
	return s.ID, nil
}

func (r *WorkflowRepository) GetWorkflow(_ context.Context, loadID string) (*workflow.LoadWorkflow, error) {
	r.mu.RLock()
	s, ok := r.workflows[loadID]
	r.mu.RUnlock()
	if !ok {
		return nil, workflow.NewWorkflowNotFoundError(loadID)
	}
	return workflow.RestoreFromSnapshot(s)
}

func (r *WorkflowRepository) CompleteStep(_ context.Context, loadID string, step workflow.Step) error {
	return r.update(loadID, func(s *workflow.Snapshot) (workflow.ActionType, workflow.StepKind, string, workflow.StepData, error) {
		idx := step.Kind.Index()
		if idx < 0 {
			return "", 0, "", nil, &workflow.StepNotFoundError{StepID: step.Kind.String()}
		}
		s.Steps[idx] = step
		if s.PendingOverride != nil && s.PendingOverride.Step == step.Kind {
			s.PendingOverride = nil
		}
		return workflow.ActionStepCompleted, step.Kind, step.CompletedBy, step.Data, nil
	})
}

func (r *WorkflowRepository) RequestOverride(_ context.Context, loadID string, req workflow.OverrideRequest) error {
	return r.update(loadID, func(s *workflow.Snapshot) (workflow.ActionType, workflow.StepKind, string, workflow.StepData, error) {
		s.PendingOverride = &req
		return workflow.ActionOverrideRequested, req.Step, req.RequestedBy, workflow.StepData{"reason": req.Reason}, nil
	})
}

func (r *WorkflowRepository) ApproveOverride(_ context.Context, loadID string, req workflow.OverrideRequest) error {
	return r.update(loadID, func(s *workflow.Snapshot) (workflow.ActionType, workflow.StepKind, string, workflow.StepData, error) {
		s.PendingOverride = &req
		return workflow.ActionOverrideApproved, req.Step, req.ApprovedBy, nil, nil
	})
}

func (r *WorkflowRepository) RejectOverride(_ context.Context, loadID string, step workflow.StepKind, rejectedBy string) error {
	return r.update(loadID, func(s *workflow.Snapshot) (workflow.ActionType, workflow.StepKind, string, workflow.StepData, error) {
		if s.PendingOverride != nil && s.PendingOverride.Step == step {
			s.PendingOverride = nil
		}
		return workflow.ActionOverrideRejected, step, rejectedBy, nil, nil
	})
}

func (r *WorkflowRepository) UploadStepDocument(_ context.Context, doc workflow.StepDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workflows[doc.LoadID]; !ok {
		return workflow.NewWorkflowNotFoundError(doc.LoadID)
	}
	r.documents[doc.LoadID] = append(r.documents[doc.LoadID], doc)
	r.record(doc.LoadID, workflow.ActionDocumentUploaded, doc.Step, doc.UploadedBy, workflow.StepData{
		"documentId": doc.ID.String(),
		"fileUrl":    doc.FileURL,
		"fileType":   doc.FileType,
	})
	return nil
}

func (r *WorkflowRepository) GetWorkflowActions(_ context.Context, loadID string) ([]workflow.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.actions[loadID]), nil
}

// Documents returns the documents attached to loadID.
func (r *WorkflowRepository) Documents(loadID string) []workflow.StepDocument {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.documents[loadID])
}

func (r *WorkflowRepository) GetDriverWorkflows(_ context.Context, driverID string) ([]*workflow.LoadWorkflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*workflow.LoadWorkflow
	for _, s := range r.workflows {
		if s.DriverID != driverID {
			continue
		}
		wf, err := workflow.RestoreFromSnapshot(s)
		if err != nil {
			return nil, err
		}
		out = append(out, wf)
	}
	slices.SortFunc(out, func(a, b *workflow.LoadWorkflow) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return out, nil
}

func (r *WorkflowRepository) SaveWorkflow(_ context.Context, s workflow.Snapshot) error {
	wf, err := workflow.RestoreFromSnapshot(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[s.LoadID] = wf.Snapshot()
	r.record(s.LoadID, workflow.ActionWorkflowSynced, workflow.StepUnknown, "system", nil)
	return nil
}

type change func(s *workflow.Snapshot) (workflow.ActionType, workflow.StepKind, string, workflow.StepData, error)

func (r *WorkflowRepository) update(loadID string, apply change) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.workflows[loadID]
	if !ok {
		return workflow.NewWorkflowNotFoundError(loadID)
	}
	s.Steps = slices.Clone(s.Steps)

	action, step, actor, payload, err := apply(&s)
	if err != nil {
		return err
	}
	s.UpdatedAt = r.now()
	r.workflows[loadID] = s
	r.record(loadID, action, step, actor, payload)
	return nil
}

// record appends an audit entry. r.mu must be held.
func (r *WorkflowRepository) record(loadID string, t workflow.ActionType, step workflow.StepKind, actor string, payload workflow.StepData) {
	r.actions[loadID] = append(r.actions[loadID], workflow.Action{
		ID:        kernel.NewUUID().String(),
		LoadID:    loadID,
		Type:      t,
		Step:      step,
		Actor:     actor,
		Payload:   payload.Clone(),
		CreatedAt: r.now(),
	})
}
