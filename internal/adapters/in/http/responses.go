package http

import (
	"errors"
	"net/http"
	"time"

	"freight/internal/core/application/engine"
	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every refused request.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
}

type WorkflowResponse struct {
	Success  bool              `json:"success"`
	Workflow workflow.Snapshot `json:"workflow"`
}

type WorkflowViewResponse struct {
	Success        bool              `json:"success"`
	Workflow       workflow.Snapshot `json:"workflow"`
	CurrentStep    *workflow.Step    `json:"currentStep"`
	AvailableSteps []workflow.Step   `json:"availableSteps"`
	Progress       int               `json:"progress"`
}

type ActionResponse struct {
	ID        string            `json:"id"`
	LoadID    string            `json:"loadId"`
	Type      string            `json:"type"`
	StepID    string            `json:"stepId,omitempty"`
	Actor     string            `json:"actor"`
	Payload   workflow.StepData `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type ActionsResponse struct {
	Success bool             `json:"success"`
	Actions []ActionResponse `json:"actions"`
}

type DocumentResponse struct {
	ID         string            `json:"id"`
	LoadID     string            `json:"loadId"`
	StepID     string            `json:"stepId"`
	FileURL    string            `json:"fileUrl"`
	FileType   string            `json:"fileType"`
	UploadedBy string            `json:"uploadedBy"`
	Metadata   workflow.StepData `json:"metadata,omitempty"`
	UploadedAt time.Time         `json:"uploadedAt"`
}

type DocumentUploadResponse struct {
	Success  bool             `json:"success"`
	Document DocumentResponse `json:"document"`
}

type DriverWorkflowsResponse struct {
	Success   bool                `json:"success"`
	Workflows []workflow.Snapshot `json:"workflows"`
}

func toActionResponses(actions []workflow.Action) []ActionResponse {
	out := make([]ActionResponse, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionResponse{
			ID:        a.ID,
			LoadID:    a.LoadID,
			Type:      string(a.Type),
			StepID:    a.StepID(),
			Actor:     a.Actor,
			Payload:   a.Payload,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}

func toDocumentResponse(d workflow.StepDocument) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID.String(),
		LoadID:     d.LoadID,
		StepID:     d.Step.String(),
		FileURL:    d.FileURL,
		FileType:   d.FileType,
		UploadedBy: d.UploadedBy,
		Metadata:   d.Metadata,
		UploadedAt: d.UploadedAt,
	}
}

// statusFor maps the workflow error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, workflow.ErrValidationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrWorkflowNotFound),
		errors.Is(err, workflow.ErrStepNotFound),
		errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrAlreadyCompleted),
		errors.Is(err, workflow.ErrOutOfOrder),
		errors.Is(err, workflow.ErrOverrideNotAllowed),
		errors.Is(err, workflow.ErrOverridePending),
		errors.Is(err, workflow.ErrNoOverridePending),
		errors.Is(err, workflow.ErrOverrideNotApproved):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrEngineClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	body := ErrorResponse{Error: err.Error()}

	var verr *workflow.ValidationError
	if errors.As(err, &verr) {
		body.Error = "Validation failed"
		body.Errors = verr.Errors
	}
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		body.Error = "Internal server error"
	}
	return c.JSON(code, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
