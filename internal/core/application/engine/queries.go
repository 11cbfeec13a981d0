package engine

import (
	"context"

	"freight/internal/core/domain/model/workflow"
)

func (e *Engine) GetWorkflow(ctx context.Context, loadID string) (workflow.Snapshot, error) {
	en, err := e.lookup(ctx, loadID)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	return en.snapshot(), nil
}

// GetCurrentStep returns the step at the current index, nil once the
// workflow is complete.
func (e *Engine) GetCurrentStep(ctx context.Context, loadID string) (*workflow.Step, error) {
	s, err := e.GetWorkflow(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if s.CurrentStep >= len(s.Steps) {
		return nil, nil
	}
	step := s.Steps[s.CurrentStep]
	return &step, nil
}

// GetNextStep returns the first incomplete step, nil once the workflow is
// complete.
func (e *Engine) GetNextStep(ctx context.Context, loadID string) (*workflow.Step, error) {
	en, err := e.lookup(ctx, loadID)
	if err != nil {
		return nil, err
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	step, ok := en.workflow.NextStep()
	if !ok {
		return nil, nil
	}
	return &step, nil
}

// GetAvailableSteps returns at most one step: the next one the guard allows.
func (e *Engine) GetAvailableSteps(ctx context.Context, loadID string) ([]workflow.Step, error) {
	en, err := e.lookup(ctx, loadID)
	if err != nil {
		return nil, err
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.workflow.AvailableSteps(), nil
}

func (e *Engine) GetWorkflowProgress(ctx context.Context, loadID string) (int, error) {
	en, err := e.lookup(ctx, loadID)
	if err != nil {
		return 0, err
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.workflow.Progress(), nil
}
