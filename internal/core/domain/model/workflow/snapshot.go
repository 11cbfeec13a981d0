package workflow

import "time"

// Snapshot is a deep-copied, read-only view of a LoadWorkflow. It is what the
// engine hands to persistence, notification and presentation code.
type Snapshot struct {
	ID              string           `json:"id"`
	LoadID          string           `json:"loadId"`
	DriverID        string           `json:"driverId"`
	DispatcherID    string           `json:"dispatcherId"`
	CurrentStep     int              `json:"currentStep"`
	Status          Status           `json:"status"`
	Progress        int              `json:"progress"`
	Steps           []Step           `json:"steps"`
	PendingOverride *OverrideRequest `json:"pendingOverride,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (w *LoadWorkflow) Snapshot() Snapshot {
	return Snapshot{
		ID:              w.id.String(),
		LoadID:          w.loadID,
		DriverID:        w.driverID,
		DispatcherID:    w.dispatcherID,
		CurrentStep:     w.CurrentStep(),
		Status:          w.Status(),
		Progress:        w.Progress(),
		Steps:           w.Steps(),
		PendingOverride: w.override.clone(),
		CreatedAt:       w.createdAt,
		UpdatedAt:       w.updatedAt,
	}
}

// AvailableSteps returns the step at CurrentStep, the only one the ordering
// guard allows, or nothing once every step is completed.
func (s Snapshot) AvailableSteps() []Step {
	if s.CurrentStep < 0 || s.CurrentStep >= len(s.Steps) {
		return []Step{}
	}
	return []Step{s.Steps[s.CurrentStep]}
}

// Step returns the snapshot's step of the given kind.
func (s Snapshot) Step(kind StepKind) (Step, bool) {
	idx := kind.Index()
	if idx < 0 || idx >= len(s.Steps) {
		return Step{}, false
	}
	return s.Steps[idx], true
}
