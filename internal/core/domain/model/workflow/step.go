package workflow

import "time"

// Step is one milestone of a workflow together with its completion record.
// Completed, CompletedAt, CompletedBy and Data are always set together.
type Step struct {
	Kind           StepKind   `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Required       bool       `json:"required"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CompletedBy    string     `json:"completedBy,omitempty"`
	Data           StepData   `json:"data,omitempty"`
	AllowOverride  bool       `json:"allowOverride"`
	OverrideReason string     `json:"overrideReason,omitempty"`
	OverrideBy     string     `json:"overrideBy,omitempty"`
}

// NewTemplateStep returns the pristine template entry for kind.
func NewTemplateStep(kind StepKind) Step {
	t := templateFor(kind)
	return Step{
		Kind:          kind,
		Name:          t.name,
		Description:   t.description,
		Required:      t.required,
		AllowOverride: t.allowOverride,
	}
}

func (s Step) clone() Step {
	out := s
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		out.CompletedAt = &at
	}
	out.Data = s.Data.Clone()
	return out
}

// OverrideRequest records an override asked for on a step. Approved flips
// once a second actor signs it off.
type OverrideRequest struct {
	Step        StepKind   `json:"stepId"`
	Reason      string     `json:"reason"`
	RequestedBy string     `json:"requestedBy"`
	RequestedAt time.Time  `json:"requestedAt"`
	Approved    bool       `json:"approved"`
	ApprovedBy  string     `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
}

func (o *OverrideRequest) clone() *OverrideRequest {
	if o == nil {
		return nil
	}
	out := *o
	if o.ApprovedAt != nil {
		at := *o.ApprovedAt
		out.ApprovedAt = &at
	}
	return &out
}
