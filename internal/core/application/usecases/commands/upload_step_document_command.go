package commands

import (
	"errors"
	"net/url"

	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrUploadStepDocumentCommandIsNotConstructed = errors.New(
	"UploadStepDocumentCommand must be created via NewUploadStepDocumentCommand constructor",
)

// UploadStepDocumentCommand attaches an already stored file to a step.
type UploadStepDocumentCommand struct { //nolint:recvcheck //using for validation
	loadID     string
	stepID     string
	fileURL    string
	fileType   string
	uploadedBy string
	metadata   workflow.StepData

	guard guard.ConstructorGuard
}

func NewUploadStepDocumentCommand(
	loadID, stepID, fileURL, fileType, uploadedBy string,
	metadata workflow.StepData,
) (UploadStepDocumentCommand, error) {
	cmd := UploadStepDocumentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireText("loadId", loadID),
		requireText("stepId", stepID),
		validateFileURL(fileURL),
		requireText("fileType", fileType),
		requireText("uploadedBy", uploadedBy),
	); err != nil {
		return UploadStepDocumentCommand{}, err
	}

	cmd.loadID = loadID
	cmd.stepID = stepID
	cmd.fileURL = fileURL
	cmd.fileType = fileType
	cmd.uploadedBy = uploadedBy
	cmd.metadata = metadata.Clone()
	return cmd, nil
}

func (c UploadStepDocumentCommand) Validate() error {
	return c.guard.Validate(ErrUploadStepDocumentCommandIsNotConstructed)
}

func (c UploadStepDocumentCommand) LoadID() string              { return c.loadID }
func (c UploadStepDocumentCommand) StepID() string              { return c.stepID }
func (c UploadStepDocumentCommand) FileURL() string             { return c.fileURL }
func (c UploadStepDocumentCommand) FileType() string            { return c.fileType }
func (c UploadStepDocumentCommand) UploadedBy() string          { return c.uploadedBy }
func (c UploadStepDocumentCommand) Metadata() workflow.StepData { return c.metadata.Clone() }

func validateFileURL(raw string) error {
	if err := requireText("fileUrl", raw); err != nil {
		return err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("fileUrl", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errs.NewValueIsInvalidError("fileUrl")
	}
	return nil
}
