// Package workflowrepo persists load workflows, their steps, audit actions and
// step documents with GORM.
package workflowrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/workflow"

	"github.com/google/uuid"
)

// WorkflowDTO is one row of load_workflows. CurrentStep, status and progress
// are derived from the steps and never stored.
type WorkflowDTO struct {
	ID              uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	LoadID          string                    `gorm:"type:varchar(128);not null;uniqueIndex"`
	DriverID        string                    `gorm:"type:varchar(128);not null;index"`
	DispatcherID    string                    `gorm:"type:varchar(128);not null"`
	PendingOverride *workflow.OverrideRequest `gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time                 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time                 `gorm:"not null;autoUpdateTime:false"`
	Steps           []StepDTO                 `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE"`
}

func (WorkflowDTO) TableName() string {
	return "load_workflows"
}

// StepDTO is one row of workflow_steps, keyed by workflow and step id.
type StepDTO struct {
	WorkflowID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	StepID         string    `gorm:"type:varchar(64);primaryKey"`
	Position       int       `gorm:"type:smallint;not null"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Description    string    `gorm:"type:text"`
	Required       bool      `gorm:"not null"`
	Completed      bool      `gorm:"not null"`
	CompletedAt    *time.Time
	CompletedBy    string            `gorm:"type:varchar(128)"`
	Data           workflow.StepData `gorm:"type:jsonb;serializer:json"`
	AllowOverride  bool              `gorm:"not null"`
	OverrideReason string            `gorm:"type:text"`
	OverrideBy     string            `gorm:"type:varchar(128)"`
}

func (StepDTO) TableName() string {
	return "workflow_steps"
}

// ActionDTO is one audit row. Seq keeps insertion order for actions sharing a timestamp.
type ActionDTO struct {
	Seq       int64             `gorm:"primaryKey;autoIncrement"`
	ID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	LoadID    string            `gorm:"type:varchar(128);not null;index"`
	Type      string            `gorm:"type:varchar(64);not null"`
	StepID    string            `gorm:"type:varchar(64)"`
	Actor     string            `gorm:"type:varchar(128)"`
	Payload   workflow.StepData `gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime:false"`
}

func (ActionDTO) TableName() string {
	return "workflow_actions"
}

type DocumentDTO struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	LoadID     string            `gorm:"type:varchar(128);not null;index"`
	StepID     string            `gorm:"type:varchar(64);not null"`
	FileURL    string            `gorm:"type:text;not null"`
	FileType   string            `gorm:"type:varchar(128);not null"`
	UploadedBy string            `gorm:"type:varchar(128);not null"`
	Metadata   workflow.StepData `gorm:"type:jsonb;serializer:json"`
	UploadedAt time.Time         `gorm:"not null"`
}

func (DocumentDTO) TableName() string {
	return "workflow_documents"
}

// Models lists every table owned by this package, for migrations.
func Models() []any {
	return []any{&WorkflowDTO{}, &StepDTO{}, &ActionDTO{}, &DocumentDTO{}}
}

func fromSnapshot(s workflow.Snapshot) (WorkflowDTO, error) {
	id, err := kernel.UUIDFromString(s.ID)
	if err != nil {
		return WorkflowDTO{}, err
	}
	dto := WorkflowDTO{
		ID:              id.Bytes(),
		LoadID:          s.LoadID,
		DriverID:        s.DriverID,
		DispatcherID:    s.DispatcherID,
		PendingOverride: s.PendingOverride,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Steps:           make([]StepDTO, 0, len(s.Steps)),
	}
	for i, step := range s.Steps {
		dto.Steps = append(dto.Steps, stepFromDomain(dto.ID, i, step))
	}
	return dto, nil
}

func stepFromDomain(workflowID uuid.UUID, position int, s workflow.Step) StepDTO {
	return StepDTO{
		WorkflowID:     workflowID,
		StepID:         s.Kind.String(),
		Position:       position,
		Name:           s.Name,
		Description:    s.Description,
		Required:       s.Required,
		Completed:      s.Completed,
		CompletedAt:    s.CompletedAt,
		CompletedBy:    s.CompletedBy,
		Data:           s.Data,
		AllowOverride:  s.AllowOverride,
		OverrideReason: s.OverrideReason,
		OverrideBy:     s.OverrideBy,
	}
}

func toDomain(dto WorkflowDTO) (*workflow.LoadWorkflow, error) {
	id, err := kernel.UUIDFromString(dto.ID.String())
	if err != nil {
		return nil, err
	}

	steps := make([]workflow.Step, 0, len(dto.Steps))
	for _, s := range dto.Steps {
		kind, err := workflow.ParseStepKind(s.StepID)
		if err != nil {
			return nil, err
		}
		steps = append(steps, workflow.Step{
			Kind:           kind,
			Name:           s.Name,
			Description:    s.Description,
			Required:       s.Required,
			Completed:      s.Completed,
			CompletedAt:    s.CompletedAt,
			CompletedBy:    s.CompletedBy,
			Data:           s.Data,
			AllowOverride:  s.AllowOverride,
			OverrideReason: s.OverrideReason,
			OverrideBy:     s.OverrideBy,
		})
	}

	return workflow.RestoreLoadWorkflow(
		id, dto.LoadID, dto.DriverID, dto.DispatcherID,
		steps, dto.PendingOverride, dto.CreatedAt, dto.UpdatedAt,
	)
}

func actionToDomain(dto ActionDTO) workflow.Action {
	var step workflow.StepKind
	if dto.StepID != "" {
		step, _ = workflow.ParseStepKind(dto.StepID)
	}
	return workflow.Action{
		ID:        dto.ID.String(),
		LoadID:    dto.LoadID,
		Type:      workflow.ActionType(dto.Type),
		Step:      step,
		Actor:     dto.Actor,
		Payload:   dto.Payload,
		CreatedAt: dto.CreatedAt,
	}
}
