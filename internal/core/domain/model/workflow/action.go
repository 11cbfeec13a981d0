package workflow

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// ActionType labels an entry of the workflow audit trail.
type ActionType string

const (
	ActionWorkflowCreated   ActionType = "workflow_created"
	ActionStepCompleted     ActionType = "step_completed"
	ActionOverrideRequested ActionType = "override_requested"
	ActionOverrideApproved  ActionType = "override_approved"
	ActionOverrideRejected  ActionType = "override_rejected"
	ActionDocumentUploaded  ActionType = "document_uploaded"
	ActionWorkflowSynced    ActionType = "workflow_synced"
)

// Action is one audit trail entry. Step is StepUnknown for workflow level actions.
type Action struct {
	ID        string     `json:"id"`
	LoadID    string     `json:"loadId"`
	Type      ActionType `json:"type"`
	Step      StepKind   `json:"-"`
	Actor     string     `json:"actor"`
	Payload   StepData   `json:"payload,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// StepID returns the wire id of the action's step, empty for workflow actions.
func (a Action) StepID() string {
	if a.Step == StepUnknown {
		return ""
	}
	return a.Step.String()
}

// StepDocument is a file (photo, signed BOL, POD scan) attached to a step.
// Upload mechanics live elsewhere; only the reference is kept here.
type StepDocument struct {
	ID         kernel.UUID
	LoadID     string
	Step       StepKind
	FileURL    string
	FileType   string
	UploadedBy string
	Metadata   StepData
	UploadedAt time.Time
}

// NewStepDocument validates and builds a document reference.
func NewStepDocument(
	loadID string,
	step StepKind,
	fileURL, fileType, uploadedBy string,
	metadata StepData,
	now time.Time,
) (StepDocument, error) {
	if err := errors.Join(
		requireText("loadID", loadID),
		step.Validate(),
		requireText("fileUrl", fileURL),
		requireText("fileType", fileType),
		requireText("uploadedBy", uploadedBy),
	); err != nil {
		return StepDocument{}, err
	}
	if !strings.Contains(fileURL, "://") {
		return StepDocument{}, errs.NewValueIsInvalidError("fileUrl")
	}
	return StepDocument{
		ID:         kernel.NewUUID(),
		LoadID:     loadID,
		Step:       step,
		FileURL:    fileURL,
		FileType:   fileType,
		UploadedBy: uploadedBy,
		Metadata:   metadata.Clone(),
		UploadedAt: now,
	}, nil
}
