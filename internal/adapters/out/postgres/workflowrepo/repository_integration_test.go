package workflowrepo_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/workflowrepo"
	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type WorkflowRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *tcpostgres.PostgresContainer
	db         *gorm.DB
	repository *workflowrepo.GormWorkflowRepository
	now        time.Time
}

func TestWorkflowRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(WorkflowRepositoryIntegrationTestSuite))
}

func (s *WorkflowRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := postgres.Open(connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *WorkflowRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(
		"TRUNCATE TABLE workflow_steps, load_workflows, workflow_actions, workflow_documents",
	).Error)
	s.repository = workflowrepo.NewGormWorkflowRepository(s.db)
	s.now = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
}

func (s *WorkflowRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *WorkflowRepositoryIntegrationTestSuite) newWorkflow(loadID, driverID string, at time.Time) *workflow.LoadWorkflow {
	wf, err := workflow.NewLoadWorkflow(loadID, driverID, "DP1", at)
	s.Require().NoError(err)
	return wf
}

func (s *WorkflowRepositoryIntegrationTestSuite) create(wf *workflow.LoadWorkflow) {
	_, err := s.repository.CreateWorkflow(s.T().Context(), wf.Snapshot())
	s.Require().NoError(err)
}

func (s *WorkflowRepositoryIntegrationTestSuite) actionTypes(loadID string) []workflow.ActionType {
	actions, err := s.repository.GetWorkflowActions(s.T().Context(), loadID)
	s.Require().NoError(err)
	types := make([]workflow.ActionType, 0, len(actions))
	for _, a := range actions {
		types = append(types, a.Type)
	}
	return types
}

func (s *WorkflowRepositoryIntegrationTestSuite) TestCreateWorkflow_RoundTrip() {
	ctx := s.T().Context()
	wf := s.newWorkflow("L1", "D1", s.now)

	id, err := s.repository.CreateWorkflow(ctx, wf.Snapshot())
	s.Require().NoError(err)
	s.Equal(wf.ID().String(), id)

	got, err := s.repository.GetWorkflow(ctx, "L1")
	s.Require().NoError(err)
	s.Equal(wf.ID(), got.ID())
	s.Equal("D1", got.DriverID())
	s.Equal("DP1", got.DispatcherID())
	s.True(s.now.Equal(got.CreatedAt()))
	s.Equal(wf.Steps(), got.Steps())
	s.Equal(workflow.StatusPending, got.Status())
	s.Equal(0, got.Progress())
}

func (s *WorkflowRepositoryIntegrationTestSuite) TestCreateWorkflow_Idempotent() {
	ctx := s.T().Context()
	first := s.newWorkflow("L1", "D1", s.now)
	s.create(first)

	id, err := s.repository.CreateWorkflow(ctx, s.newWorkflow("L1", "D1", s.now).Snapshot())
	s.Require().NoError(err)
	s.Equal(first.ID().String(), id)
	s.Equal([]workflow.ActionType{workflow.ActionWorkflowCreated}, s.actionTypes("L1"))
}

func (s *WorkflowRepositoryIntegrationTestSuite) TestGetWorkflow_NotFound() {
	_, err := s.repository.GetWorkflow(s.T().Context(), "missing")
	s.ErrorIs(err, errs.ErrObjectNotFound)
	s.ErrorIs(err, workflow.ErrWorkflowNotFound)
}

func (s *WorkflowRepositoryIntegrationTestSuite) TestCompleteStep_PersistsStepAndAudit() {
	ctx := s.T().Context()
	wf := s.newWorkflow("L1", "D1", s.now)
	s.create(wf)

	at := s.now.Add(time.Minute)
	s.Require().NoError(wf.CompleteStep(workflow.LoadAssignmentConfirmation, workflow.StepData{"accepted": true}, "D1", at))
	step, _ := wf.Step(workflow.LoadAssignmentConfirmation)
	s.Require().NoError(s.repository.CompleteStep(ctx, "L1", step))

	got, err := s.repository.GetWorkflow(ctx, "L1")
	s.Require().NoError(err)
	stored, ok := got.Step(workflow.LoadAssignmentConfirmation)
	s.Require().True(ok)
	s.True(stored.Completed)
	s.Equal("D1", stored.CompletedBy)
	s.Equal(true, stored.Data["accepted"])
	s.Require().NotNil(stored.CompletedAt)
	s.True(at.Equal(*stored.CompletedAt))
	s.True(at.Equal(got.UpdatedAt()))
	s.Equal(8, got.Progress())

	actions, err := s.repository.GetWorkflowActions(ctx, "L1")
	s.Require().NoError(err)
	s.Require().Len(actions, 2)
	s.Equal(workflow.ActionStepCompleted, actions[1].Type)
	s.Equal("load_assignment_confirmation", actions[1].StepID())
	s.Equal("D1", actions[1].Actor)

	err = s.repository.CompleteStep(ctx, "missing", step)
	s.ErrorIs(err, workflow.ErrWorkflowNotFound)
}

func (s *WorkflowRepositoryIntegrationTestSuite) TestOverrideLifecycle() {
	ctx := s.T().Context()
	wf := s.newWorkflow("L1", "D1", s.now)
	s.create(wf)

	req := workflow.OverrideRequest{
		Step:        workflow.DeliveryCompletion,
		Reason:      "receiver unavailable",
		RequestedBy: "D1",
		RequestedAt: s.now,
	}
	s.Require().NoError(s.repository.RequestOverride(ctx, "L1", req))

	got, err := s.repository.GetWorkflow(ctx, "L1")
	s.Require().NoError(err)
	s.Equal(workflow.StatusOverrideRequired, got.Status())
	s.Require().NotNil(got.PendingOverride())
	s.Equal("receiver unavailable", got.PendingOverride().Reason)

	approvedAt := s.now.Add(time.Minute)
	req.Approved, req.ApprovedBy, req.ApprovedAt = true, "DP1", &approvedAt
	s.Require().NoError(s.repository.ApproveOverride(ctx, "L1", req))

	got, err = s.repository.GetWorkflow(ctx, "L1")
	s.Require().NoError(err)
	s.Require().NotNil(got.PendingOverride())
	s.True(got.PendingOverride().Approved)
	s.Equal("DP1", got.PendingOverride().ApprovedBy)

	s.Require().NoError(s.repository.RejectOverride(ctx, "L1", workflow.DeliveryCompletion, "DP1"))
	got, err = s.repository.GetWorkflow(ctx, "L1")
	s.Require().NoError(err)
	s.Nil(got.PendingOverride())

	s.Equal([]workflow.ActionType{
		workflow.ActionWorkflowCreated,
		workflow.ActionOverrideRequested,
		workflow.ActionOverrideApproved,
		workflow.ActionOverrideRejected,
	}, s.actionTypes("L1"))
}

func (s *WorkflowRepositoryIntegrationTestSuite) TestUploadStepDocument() {
	ctx := s.T().Context()
	s.create(s.newWorkflow("L1", "D1", s.now))

	doc, err := workflow.NewStepDocument("L1", workflow.PickupArrival, "https://files/photo.jpg", "image/jpeg", "D1",
		workflow.StepData{"width": 1024.0}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.repository.UploadStepDocument(ctx, doc))

	var stored workflowrepo.DocumentDTO
	s.Require().NoError(s.db.First(&stored, "id = ?", doc.ID.Bytes()).Error)
	s.Equal("pickup_arrival", stored.StepID)
	s.Equal(1024.0, stored.Metadata["width"])

	actions, err := s.repository.GetWorkflowActions(ctx, "L1")
	s.Require().NoError(err)
	s.Require().Len(actions, 2)
	s.Equal(workflow.ActionDocumentUploaded, actions[1].Type)
	s.Equal(doc.ID.String(), actions[1].Payload["documentId"])

	orphan, err := workflow.NewStepDocument("L2", workflow.PickupArrival, "https://files/photo.jpg", "image/jpeg", "D1", nil, s.now)
	s.Require().NoError(err)
	s.ErrorIs(s.repository.UploadStepDocument(ctx, orphan), errs.ErrObjectNotFound)
}

func (s *WorkflowRepositoryIntegrationTestSuite) TestGetDriverWorkflows_OrderedByCreation() {
	ctx := s.T().Context()
	s.create(s.newWorkflow("L2", "D1", s.now.Add(time.Hour)))
	s.create(s.newWorkflow("L1", "D1", s.now))
	s.create(s.newWorkflow("L3", "D2", s.now))

	list, err := s.repository.GetDriverWorkflows(ctx, "D1")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("L1", list[0].LoadID())
	s.Equal("L2", list[1].LoadID())

	none, err := s.repository.GetDriverWorkflows(ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *WorkflowRepositoryIntegrationTestSuite) TestSaveWorkflow_UpsertsSnapshot() {
	ctx := s.T().Context()
	wf := s.newWorkflow("L1", "D1", s.now)

	s.Require().NoError(s.repository.SaveWorkflow(ctx, wf.Snapshot()), "insert when absent")

	s.Require().NoError(wf.CompleteStep(workflow.LoadAssignmentConfirmation, workflow.StepData{"accepted": true}, "D1", s.now))
	s.Require().NoError(wf.CompleteStep(workflow.RateConfirmationReview, workflow.StepData{"reviewed": true}, "D1", s.now))
	s.Require().NoError(s.repository.SaveWorkflow(ctx, wf.Snapshot()))

	got, err := s.repository.GetWorkflow(ctx, "L1")
	s.Require().NoError(err)
	s.Equal(wf.ID(), got.ID())
	s.Equal(2, got.CompletedCount())
	s.Equal(15, got.Progress())
	s.Equal([]workflow.ActionType{workflow.ActionWorkflowSynced, workflow.ActionWorkflowSynced}, s.actionTypes("L1"))
}
