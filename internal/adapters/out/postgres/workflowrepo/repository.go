package workflowrepo

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const systemActor = "system"

// GormWorkflowRepository implements ports.WorkflowRepository. Every mutation
// and its audit row are written in one transaction.
type GormWorkflowRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{
		db:  db,
		now: time.Now,
	}
}

// CreateWorkflow inserts the workflow and its steps. A workflow already stored
// for the load wins and its id is returned.
func (r *GormWorkflowRepository) CreateWorkflow(ctx context.Context, s workflow.Snapshot) (string, error) {
	if _, err := workflow.RestoreFromSnapshot(s); err != nil {
		return "", err
	}
	dto, err := fromSnapshot(s)
	if err != nil {
		return "", err
	}

	var id string
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing WorkflowDTO
		err := tx.Select("id").Where("load_id = ?", s.LoadID).Take(&existing).Error
		switch {
		case err == nil:
			id = existing.ID.String()
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Create(&dto).Error; err != nil {
			return err
		}
		id = dto.ID.String()
		return r.record(tx, s.LoadID, workflow.ActionWorkflowCreated, workflow.StepUnknown, s.DriverID, workflow.StepData{
			"driverId":     s.DriverID,
			"dispatcherId": s.DispatcherID,
		})
	})
	return id, err
}

func (r *GormWorkflowRepository) GetWorkflow(ctx context.Context, loadID string) (*workflow.LoadWorkflow, error) {
	var dto WorkflowDTO
	err := r.withSteps(r.db.WithContext(ctx)).Where("load_id = ?", loadID).Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NewWorkflowNotFoundError(loadID)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormWorkflowRepository) CompleteStep(ctx context.Context, loadID string, step workflow.Step) error {
	if err := step.Kind.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wf, err := r.header(tx, loadID)
		if err != nil {
			return err
		}

		row := stepFromDomain(wf.ID, step.Kind.Index(), step)
		res := tx.Model(&StepDTO{}).
			Where("workflow_id = ? AND step_id = ?", wf.ID, row.StepID).
			Select("completed", "completed_at", "completed_by", "data", "override_reason", "override_by").
			Updates(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &workflow.StepNotFoundError{StepID: row.StepID}
		}

		at := r.now()
		if step.CompletedAt != nil {
			at = *step.CompletedAt
		}
		override := wf.PendingOverride
		if override != nil && override.Step == step.Kind {
			override = nil
		}
		if err := r.touch(tx, wf.ID, override, at); err != nil {
			return err
		}
		return r.record(tx, loadID, workflow.ActionStepCompleted, step.Kind, step.CompletedBy, step.Data)
	})
}

func (r *GormWorkflowRepository) RequestOverride(ctx context.Context, loadID string, req workflow.OverrideRequest) error {
	return r.setOverride(ctx, loadID, &req, workflow.ActionOverrideRequested, req.RequestedBy, workflow.StepData{"reason": req.Reason})
}

func (r *GormWorkflowRepository) ApproveOverride(ctx context.Context, loadID string, req workflow.OverrideRequest) error {
	return r.setOverride(ctx, loadID, &req, workflow.ActionOverrideApproved, req.ApprovedBy, nil)
}

func (r *GormWorkflowRepository) RejectOverride(ctx context.Context, loadID string, step workflow.StepKind, rejectedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wf, err := r.header(tx, loadID)
		if err != nil {
			return err
		}
		override := wf.PendingOverride
		if override != nil && override.Step == step {
			override = nil
		}
		if err := r.touch(tx, wf.ID, override, r.now()); err != nil {
			return err
		}
		return r.record(tx, loadID, workflow.ActionOverrideRejected, step, rejectedBy, nil)
	})
}

func (r *GormWorkflowRepository) UploadStepDocument(ctx context.Context, doc workflow.StepDocument) error {
	if err := doc.ID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.header(tx, doc.LoadID); err != nil {
			return err
		}
		dto := DocumentDTO{
			ID:         doc.ID.Bytes(),
			LoadID:     doc.LoadID,
			StepID:     doc.Step.String(),
			FileURL:    doc.FileURL,
			FileType:   doc.FileType,
			UploadedBy: doc.UploadedBy,
			Metadata:   doc.Metadata,
			UploadedAt: doc.UploadedAt,
		}
		if err := tx.Create(&dto).Error; err != nil {
			return err
		}
		return r.record(tx, doc.LoadID, workflow.ActionDocumentUploaded, doc.Step, doc.UploadedBy, workflow.StepData{
			"documentId": doc.ID.String(),
			"fileUrl":    doc.FileURL,
			"fileType":   doc.FileType,
		})
	})
}

// GetWorkflowActions returns the audit trail of a load, oldest first.
func (r *GormWorkflowRepository) GetWorkflowActions(ctx context.Context, loadID string) ([]workflow.Action, error) {
	var dtos []ActionDTO
	if err := r.db.WithContext(ctx).Where("load_id = ?", loadID).Order("seq").Find(&dtos).Error; err != nil {
		return nil, err
	}
	actions := make([]workflow.Action, 0, len(dtos))
	for _, dto := range dtos {
		actions = append(actions, actionToDomain(dto))
	}
	return actions, nil
}

func (r *GormWorkflowRepository) GetDriverWorkflows(ctx context.Context, driverID string) ([]*workflow.LoadWorkflow, error) {
	var dtos []WorkflowDTO
	err := r.withSteps(r.db.WithContext(ctx)).
		Where("driver_id = ?", driverID).
		Order("created_at, load_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	workflows := make([]*workflow.LoadWorkflow, 0, len(dtos))
	for _, dto := range dtos {
		wf, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return workflows, nil
}

// SaveWorkflow upserts the full snapshot. The stored workflow id is kept when
// the load already has a row.
func (r *GormWorkflowRepository) SaveWorkflow(ctx context.Context, s workflow.Snapshot) error {
	if _, err := workflow.RestoreFromSnapshot(s); err != nil {
		return err
	}
	dto, err := fromSnapshot(s)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing WorkflowDTO
		err := tx.Select("id").Where("load_id = ?", s.LoadID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&dto).Error; err != nil {
				return err
			}
			return r.record(tx, s.LoadID, workflow.ActionWorkflowSynced, workflow.StepUnknown, systemActor, nil)
		case err != nil:
			return err
		}

		steps := dto.Steps
		for i := range steps {
			steps[i].WorkflowID = existing.ID
		}
		err = tx.Model(&WorkflowDTO{}).
			Where("id = ?", existing.ID).
			Select("driver_id", "dispatcher_id", "pending_override", "updated_at").
			Updates(&WorkflowDTO{
				DriverID:        dto.DriverID,
				DispatcherID:    dto.DispatcherID,
				PendingOverride: dto.PendingOverride,
				UpdatedAt:       dto.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&steps).Error; err != nil {
			return err
		}
		return r.record(tx, s.LoadID, workflow.ActionWorkflowSynced, workflow.StepUnknown, systemActor, nil)
	})
}

func (r *GormWorkflowRepository) setOverride(
	ctx context.Context,
	loadID string,
	req *workflow.OverrideRequest,
	action workflow.ActionType,
	actor string,
	payload workflow.StepData,
) error {
	if err := req.Step.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wf, err := r.header(tx, loadID)
		if err != nil {
			return err
		}
		at := req.RequestedAt
		if req.ApprovedAt != nil {
			at = *req.ApprovedAt
		}
		if err := r.touch(tx, wf.ID, req, at); err != nil {
			return err
		}
		return r.record(tx, loadID, action, req.Step, actor, payload)
	})
}

// header reads the workflow row without its steps, locking it for the transaction.
func (r *GormWorkflowRepository) header(tx *gorm.DB, loadID string) (WorkflowDTO, error) {
	var dto WorkflowDTO
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("load_id = ?", loadID).Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return WorkflowDTO{}, workflow.NewWorkflowNotFoundError(loadID)
	}
	return dto, err
}

func (r *GormWorkflowRepository) touch(tx *gorm.DB, id any, override *workflow.OverrideRequest, at time.Time) error {
	return tx.Model(&WorkflowDTO{}).
		Where("id = ?", id).
		Select("pending_override", "updated_at").
		Updates(&WorkflowDTO{PendingOverride: override, UpdatedAt: at}).Error
}

func (r *GormWorkflowRepository) record(
	tx *gorm.DB,
	loadID string,
	action workflow.ActionType,
	step workflow.StepKind,
	actor string,
	payload workflow.StepData,
) error {
	var stepID string
	if step != workflow.StepUnknown {
		stepID = step.String()
	}
	return tx.Create(&ActionDTO{
		ID:        kernel.NewUUID().Bytes(),
		LoadID:    loadID,
		Type:      string(action),
		StepID:    stepID,
		Actor:     actor,
		Payload:   payload,
		CreatedAt: r.now(),
	}).Error
}

func (r *GormWorkflowRepository) withSteps(db *gorm.DB) *gorm.DB {
	return db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}
