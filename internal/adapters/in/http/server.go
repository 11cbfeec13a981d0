// Package http exposes the workflow commands and queries over a JSON API.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	InitializeWorkflow commands.InitializeWorkflowCommandHandler
	CompleteStep       commands.CompleteStepCommandHandler
	RequestOverride    commands.RequestOverrideCommandHandler
	ResolveOverride    commands.ResolveOverrideCommandHandler
	UploadStepDocument commands.UploadStepDocumentCommandHandler

	GetWorkflow        queries.GetWorkflowQueryHandler
	GetWorkflowActions queries.GetWorkflowActionsQueryHandler
	GetDriverWorkflows queries.GetDriverWorkflowsQueryHandler
}

type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: h, logger: logger.With("component", "http_server")}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo, middleware ...echo.MiddlewareFunc) {
	g := e.Group("/api/v1", middleware...)

	g.POST("/loads/:loadId/workflow", s.InitializeWorkflow)
	g.GET("/loads/:loadId/workflow", s.GetWorkflow)
	g.GET("/loads/:loadId/workflow/actions", s.GetWorkflowActions)
	g.POST("/loads/:loadId/workflow/steps/:stepId/complete", s.CompleteStep)
	g.POST("/loads/:loadId/workflow/steps/:stepId/override", s.RequestOverride)
	g.POST("/loads/:loadId/workflow/steps/:stepId/override/approve", s.ApproveOverride)
	g.POST("/loads/:loadId/workflow/steps/:stepId/override/reject", s.RejectOverride)
	g.POST("/loads/:loadId/workflow/steps/:stepId/documents", s.UploadStepDocument)
	g.GET("/drivers/:driverId/workflows", s.GetDriverWorkflows)
}

type initializeRequest struct {
	DriverID     string `json:"driverId"`
	DispatcherID string `json:"dispatcherId"`
}

// InitializeWorkflow handles POST /api/v1/loads/:loadId/workflow.
func (s *Server) InitializeWorkflow(c echo.Context) error {
	var req initializeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewInitializeWorkflowCommand(c.Param("loadId"), req.DriverID, req.DispatcherID)
	if err != nil {
		return s.fail(c, err)
	}
	snapshot, err := s.h.InitializeWorkflow.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, WorkflowResponse{Success: true, Workflow: snapshot})
}

// GetWorkflow handles GET /api/v1/loads/:loadId/workflow.
func (s *Server) GetWorkflow(c echo.Context) error {
	query, err := queries.NewGetWorkflowQuery(c.Param("loadId"))
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.h.GetWorkflow.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, WorkflowViewResponse{
		Success:        true,
		Workflow:       view.Workflow,
		CurrentStep:    view.CurrentStep,
		AvailableSteps: view.AvailableSteps,
		Progress:       view.Progress,
	})
}

func (s *Server) GetWorkflowActions(c echo.Context) error {
	query, err := queries.NewGetWorkflowActionsQuery(c.Param("loadId"))
	if err != nil {
		return s.fail(c, err)
	}
	actions, err := s.h.GetWorkflowActions.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ActionsResponse{Success: true, Actions: toActionResponses(actions)})
}

type completeRequest struct {
	CompletedBy string         `json:"completedBy"`
	Data        map[string]any `json:"data"`
}

// CompleteStep handles POST /api/v1/loads/:loadId/workflow/steps/:stepId/complete.
// Validation failures answer 422 with every field error listed.
func (s *Server) CompleteStep(c echo.Context) error {
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCompleteStepCommand(c.Param("loadId"), c.Param("stepId"), req.Data, req.CompletedBy)
	if err != nil {
		return s.fail(c, err)
	}
	snapshot, err := s.h.CompleteStep.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, WorkflowResponse{Success: true, Workflow: snapshot})
}

type overrideRequest struct {
	Reason      string `json:"reason"`
	RequestedBy string `json:"requestedBy"`
}

func (s *Server) RequestOverride(c echo.Context) error {
	var req overrideRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewRequestOverrideCommand(c.Param("loadId"), c.Param("stepId"), req.Reason, req.RequestedBy)
	if err != nil {
		return s.fail(c, err)
	}
	snapshot, err := s.h.RequestOverride.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, WorkflowResponse{Success: true, Workflow: snapshot})
}

type approveRequest struct {
	ApprovedBy string `json:"approvedBy"`
}

type rejectRequest struct {
	RejectedBy string `json:"rejectedBy"`
}

func (s *Server) ApproveOverride(c echo.Context) error {
	var req approveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return s.resolveOverride(c, req.ApprovedBy, commands.DecisionApprove)
}

func (s *Server) RejectOverride(c echo.Context) error {
	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return s.resolveOverride(c, req.RejectedBy, commands.DecisionReject)
}

func (s *Server) resolveOverride(c echo.Context, actor string, decision commands.Decision) error {
	cmd, err := commands.NewResolveOverrideCommand(c.Param("loadId"), c.Param("stepId"), actor, decision)
	if err != nil {
		return s.fail(c, err)
	}
	snapshot, err := s.h.ResolveOverride.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, WorkflowResponse{Success: true, Workflow: snapshot})
}

type documentRequest struct {
	FileURL    string         `json:"fileUrl"`
	FileType   string         `json:"fileType"`
	UploadedBy string         `json:"uploadedBy"`
	Metadata   map[string]any `json:"metadata"`
}

func (s *Server) UploadStepDocument(c echo.Context) error {
	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewUploadStepDocumentCommand(
		c.Param("loadId"), c.Param("stepId"), req.FileURL, req.FileType, req.UploadedBy, req.Metadata,
	)
	if err != nil {
		return s.fail(c, err)
	}
	doc, err := s.h.UploadStepDocument.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, DocumentUploadResponse{Success: true, Document: toDocumentResponse(doc)})
}

// GetDriverWorkflows handles GET /api/v1/drivers/:driverId/workflows?active=true.
func (s *Server) GetDriverWorkflows(c echo.Context) error {
	activeOnly := false
	if raw := c.QueryParam("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "active must be a boolean")
		}
		activeOnly = v
	}

	query, err := queries.NewGetDriverWorkflowsQuery(c.Param("driverId"), activeOnly)
	if err != nil {
		return s.fail(c, err)
	}
	list, err := s.h.GetDriverWorkflows.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, DriverWorkflowsResponse{Success: true, Workflows: list})
}
