package commands

import (
	"context"

	"freight/internal/core/domain/model/workflow"
)

// UploadStepDocumentCommandHandler stores the document record synchronously,
// so storage errors reach the caller.
type UploadStepDocumentCommandHandler struct {
	engine WorkflowEngine
}

func NewUploadStepDocumentCommandHandler(engine WorkflowEngine) UploadStepDocumentCommandHandler {
	return UploadStepDocumentCommandHandler{
		engine: engine,
	}
}

func (h *UploadStepDocumentCommandHandler) Handle(
	ctx context.Context,
	cmd UploadStepDocumentCommand,
) (workflow.StepDocument, error) {
	if err := cmd.Validate(); err != nil {
		return workflow.StepDocument{}, err
	}
	return h.engine.UploadStepDocument(
		ctx, cmd.LoadID(), cmd.StepID(), cmd.FileURL(), cmd.FileType(), cmd.UploadedBy(), cmd.Metadata(),
	)
}
