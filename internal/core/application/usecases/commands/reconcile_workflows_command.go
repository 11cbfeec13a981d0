package commands

import (
	"context"
	"log/slog"
)

// ReconcileWorkflowsCommand has no parameters; it re-pushes every workflow
// whose last write to storage failed.
type ReconcileWorkflowsCommand struct{}

func NewReconcileWorkflowsCommand() ReconcileWorkflowsCommand {
	return ReconcileWorkflowsCommand{}
}

type ReconcileWorkflowsCommandHandler struct {
	engine WorkflowEngine
	logger *slog.Logger
}

func NewReconcileWorkflowsCommandHandler(engine WorkflowEngine, logger *slog.Logger) ReconcileWorkflowsCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ReconcileWorkflowsCommandHandler{
		engine: engine,
		logger: logger.With("component", "reconcile_workflows"),
	}
}

// Handle returns the number of workflows written back.
func (h *ReconcileWorkflowsCommandHandler) Handle(ctx context.Context, _ ReconcileWorkflowsCommand) (int, error) {
	synced, err := h.engine.Reconcile(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "reconciliation incomplete", "synced", synced, "error", err)
		return synced, err
	}
	if synced > 0 {
		h.logger.InfoContext(ctx, "workflows reconciled", "synced", synced)
	}
	return synced, nil
}
