package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInitializeWorkflowCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	engine := new(MockWorkflowEngine)
	want := workflow.Snapshot{LoadID: "L1", DriverID: "D1", DispatcherID: "DP1"}
	engine.On("InitializeWorkflow", ctx, "L1", "D1", "DP1").Return(want, nil).Once()

	cmd, err := commands.NewInitializeWorkflowCommand("L1", "D1", "DP1")
	require.NoError(t, err)

	h := commands.NewInitializeWorkflowCommandHandler(engine)
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	engine.AssertExpectations(t)
}

func TestInitializeWorkflowCommandHandler_Handle_NotConstructed(t *testing.T) {
	engine := new(MockWorkflowEngine)
	h := commands.NewInitializeWorkflowCommandHandler(engine)

	_, err := h.Handle(t.Context(), commands.InitializeWorkflowCommand{})
	require.ErrorIs(t, err, commands.ErrInitializeWorkflowCommandIsNotConstructed)
	engine.AssertNotCalled(t, "InitializeWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteStepCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	data := workflow.StepData{"accepted": true}

	t.Run("success", func(t *testing.T) {
		engine := new(MockWorkflowEngine)
		want := workflow.Snapshot{LoadID: "L1", Progress: 8}
		engine.On("CompleteStep", ctx, "L1", "load_assignment_confirmation", data, "D1").Return(want, nil).Once()

		cmd, err := commands.NewCompleteStepCommand("L1", "load_assignment_confirmation", data, "D1")
		require.NoError(t, err)

		h := commands.NewCompleteStepCommandHandler(engine)
		got, err := h.Handle(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, 8, got.Progress)
		engine.AssertExpectations(t)
	})

	t.Run("guard error is returned unchanged", func(t *testing.T) {
		engine := new(MockWorkflowEngine)
		guardErr := &workflow.OutOfOrderError{Step: workflow.BOLVerification, Blocking: workflow.LoadAssignmentConfirmation}
		engine.On("CompleteStep", ctx, "L1", "bol_verification", mock.Anything, "D1").
			Return(workflow.Snapshot{}, guardErr).Once()

		cmd, err := commands.NewCompleteStepCommand("L1", "bol_verification", nil, "D1")
		require.NoError(t, err)

		h := commands.NewCompleteStepCommandHandler(engine)
		_, err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, workflow.ErrOutOfOrder)
		assert.Equal(t, "Previous step Load Assignment Confirmation must be completed first", err.Error())
		engine.AssertExpectations(t)
	})
}

func TestRequestOverrideCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	engine := new(MockWorkflowEngine)
	want := workflow.Snapshot{LoadID: "L1", Status: workflow.StatusOverrideRequired}
	engine.On("RequestOverride", ctx, "L1", "delivery_completion", "no receiver", "D1").Return(want, nil).Once()

	cmd, err := commands.NewRequestOverrideCommand("L1", "delivery_completion", "no receiver", "D1")
	require.NoError(t, err)

	h := commands.NewRequestOverrideCommandHandler(engine)
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusOverrideRequired, got.Status)
	engine.AssertExpectations(t)
}

func TestResolveOverrideCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("approve", func(t *testing.T) {
		engine := new(MockWorkflowEngine)
		engine.On("ApproveOverride", ctx, "L1", "delivery_completion", "DP1").Return(workflow.Snapshot{}, nil).Once()

		cmd, err := commands.NewResolveOverrideCommand("L1", "delivery_completion", "DP1", commands.DecisionApprove)
		require.NoError(t, err)
		h := commands.NewResolveOverrideCommandHandler(engine)
		_, err = h.Handle(ctx, cmd)
		require.NoError(t, err)
		engine.AssertExpectations(t)
		engine.AssertNotCalled(t, "RejectOverride", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reject", func(t *testing.T) {
		engine := new(MockWorkflowEngine)
		engine.On("RejectOverride", ctx, "L1", "delivery_completion", "DP1").
			Return(workflow.Snapshot{}, workflow.ErrNoOverridePending).Once()

		cmd, err := commands.NewResolveOverrideCommand("L1", "delivery_completion", "DP1", commands.DecisionReject)
		require.NoError(t, err)
		h := commands.NewResolveOverrideCommandHandler(engine)
		_, err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, workflow.ErrNoOverridePending)
		engine.AssertExpectations(t)
	})
}

func TestUploadStepDocumentCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	engine := new(MockWorkflowEngine)
	meta := workflow.StepData{"pages": 2.0}
	want := workflow.StepDocument{LoadID: "L1", Step: workflow.BOLReceiptConfirmation, FileURL: "https://files/bol.pdf"}
	engine.On("UploadStepDocument", ctx, "L1", "bol_receipt_confirmation", "https://files/bol.pdf", "application/pdf", "D1", meta).
		Return(want, nil).Once()

	cmd, err := commands.NewUploadStepDocumentCommand("L1", "bol_receipt_confirmation", "https://files/bol.pdf", "application/pdf", "D1", meta)
	require.NoError(t, err)

	h := commands.NewUploadStepDocumentCommandHandler(engine)
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	engine.AssertExpectations(t)
}

func TestReconcileWorkflowsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := new(MockWorkflowEngine)
	engine.On("Reconcile", ctx).Return(2, nil).Once()
	engine.On("Reconcile", ctx).Return(1, errors.New("db down")).Once()

	h := commands.NewReconcileWorkflowsCommandHandler(engine, logger)

	synced, err := h.Handle(ctx, commands.NewReconcileWorkflowsCommand())
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	synced, err = h.Handle(ctx, commands.NewReconcileWorkflowsCommand())
	require.EqualError(t, err, "db down")
	assert.Equal(t, 1, synced)
	engine.AssertExpectations(t)
}
