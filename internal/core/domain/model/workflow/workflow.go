package workflow

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// DataOverrideApproved is the step data flag that asks to complete a step
// under an approved override.
const DataOverrideApproved = "overrideApproved"

// LoadWorkflow is the aggregate root of one load's workflow.
//
// Invariants:
//   - loadID, driverID and dispatcherID are set once at construction
//   - steps always hold the full template, in template order
//   - CurrentStep and Status are derived, never stored
//   - at most one override request exists at a time
//
// LoadWorkflow is not safe for concurrent use; the engine serialises access
// per load.
type LoadWorkflow struct {
	id           kernel.UUID
	loadID       string
	driverID     string
	dispatcherID string
	steps        []Step
	override     *OverrideRequest
	createdAt    time.Time
	updatedAt    time.Time

	guard guard.ConstructorGuard
}

// NewLoadWorkflow builds a fresh workflow from the step template.
func NewLoadWorkflow(loadID, driverID, dispatcherID string, now time.Time) (*LoadWorkflow, error) {
	steps := make([]Step, 0, StepCount)
	for _, k := range StepKinds() {
		steps = append(steps, NewTemplateStep(k))
	}
	return RestoreLoadWorkflow(kernel.NewUUID(), loadID, driverID, dispatcherID, steps, nil, now, now)
}

// RestoreLoadWorkflow rebuilds a workflow read back from storage.
func RestoreLoadWorkflow(
	id kernel.UUID,
	loadID, driverID, dispatcherID string,
	steps []Step,
	override *OverrideRequest,
	createdAt, updatedAt time.Time,
) (*LoadWorkflow, error) {
	w := &LoadWorkflow{
		id:        id,
		override:  override.clone(),
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		w.setLoadID(loadID),
		w.setDriverID(driverID),
		w.setDispatcherID(dispatcherID),
		w.setSteps(steps),
	); err != nil {
		return nil, err
	}

	if w.override != nil {
		if err := w.override.Step.Validate(); err != nil {
			return nil, err
		}
		if w.steps[w.override.Step.Index()].Completed {
			w.override = nil
		}
	}

	return w, nil
}

// RestoreFromSnapshot rebuilds a workflow from its snapshot.
func RestoreFromSnapshot(s Snapshot) (*LoadWorkflow, error) {
	id, err := kernel.UUIDFromString(s.ID)
	if err != nil {
		return nil, err
	}
	return RestoreLoadWorkflow(id, s.LoadID, s.DriverID, s.DispatcherID, s.Steps, s.PendingOverride, s.CreatedAt, s.UpdatedAt)
}

func (w *LoadWorkflow) Validate() error {
	if w == nil {
		return ErrLoadWorkflowIsNotConstructed
	}
	return w.guard.Validate(ErrLoadWorkflowIsNotConstructed)
}

func (w *LoadWorkflow) ID() kernel.UUID      { return w.id }
func (w *LoadWorkflow) LoadID() string       { return w.loadID }
func (w *LoadWorkflow) DriverID() string     { return w.driverID }
func (w *LoadWorkflow) DispatcherID() string { return w.dispatcherID }
func (w *LoadWorkflow) CreatedAt() time.Time { return w.createdAt }
func (w *LoadWorkflow) UpdatedAt() time.Time { return w.updatedAt }

// Steps returns a deep copy of the step sequence.
func (w *LoadWorkflow) Steps() []Step {
	out := make([]Step, len(w.steps))
	for i := range w.steps {
		out[i] = w.steps[i].clone()
	}
	return out
}

// Step returns a copy of the step of the given kind.
func (w *LoadWorkflow) Step(kind StepKind) (Step, bool) {
	idx := kind.Index()
	if idx < 0 {
		return Step{}, false
	}
	return w.steps[idx].clone(), true
}

// PendingOverride returns a copy of the open override request, if any.
func (w *LoadWorkflow) PendingOverride() *OverrideRequest {
	return w.override.clone()
}

// CurrentStep is the index of the first incomplete step, len(steps) once all are done.
func (w *LoadWorkflow) CurrentStep() int {
	for i := range w.steps {
		if !w.steps[i].Completed {
			return i
		}
	}
	return len(w.steps)
}

// CompletedCount returns the number of completed steps.
func (w *LoadWorkflow) CompletedCount() int {
	n := 0
	for i := range w.steps {
		if w.steps[i].Completed {
			n++
		}
	}
	return n
}

func (w *LoadWorkflow) Status() Status {
	switch completed := w.CompletedCount(); {
	case w.override != nil && !w.override.Approved:
		return StatusOverrideRequired
	case completed == len(w.steps):
		return StatusCompleted
	case completed > 0 || w.override != nil:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// Progress is the completed share of the template as a rounded percentage.
func (w *LoadWorkflow) Progress() int {
	if len(w.steps) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(w.CompletedCount()) / float64(len(w.steps))))
}

// NextStep returns the first incomplete step.
func (w *LoadWorkflow) NextStep() (Step, bool) {
	idx := w.CurrentStep()
	if idx >= len(w.steps) {
		return Step{}, false
	}
	return w.steps[idx].clone(), true
}

// AvailableSteps returns the single next actionable step, or nothing when the
// workflow is complete. Steps are never offered in parallel.
func (w *LoadWorkflow) AvailableSteps() []Step {
	next, ok := w.NextStep()
	if !ok || w.CanCompleteStep(next.Kind) != nil {
		return []Step{}
	}
	return []Step{next}
}

// CanCompleteStep checks the ordering guard for kind without mutating anything.
func (w *LoadWorkflow) CanCompleteStep(kind StepKind) error {
	idx := kind.Index()
	if idx < 0 {
		return &StepNotFoundError{StepID: kind.String()}
	}
	if w.steps[idx].Completed {
		return &AlreadyCompletedError{Step: kind}
	}
	for i := range idx {
		if w.steps[i].Required && !w.steps[i].Completed {
			return &OutOfOrderError{Step: kind, Blocking: w.steps[i].Kind}
		}
	}
	return nil
}

// CompleteStep records the completion of kind. The payload must already have
// passed the step validator. A payload flagged overrideApproved is accepted
// only under an approved override for the same step; the override's reason
// and approver are then stamped on the step.
func (w *LoadWorkflow) CompleteStep(kind StepKind, data StepData, completedBy string, now time.Time) error {
	if err := w.CanCompleteStep(kind); err != nil {
		return err
	}
	if strings.TrimSpace(completedBy) == "" {
		return errs.NewValueIsRequiredError("completedBy")
	}

	step := &w.steps[kind.Index()]
	pending := w.override != nil && w.override.Step == kind

	if data.Bool(DataOverrideApproved) {
		if !step.AllowOverride {
			return fmt.Errorf("%w: %s", ErrOverrideNotAllowed, kind)
		}
		if !pending || !w.override.Approved {
			return fmt.Errorf("%w: %s", ErrOverrideNotApproved, kind)
		}
		step.OverrideReason = w.override.Reason
		if reason, ok := data.Text("overrideReason"); ok {
			step.OverrideReason = reason
		}
		step.OverrideBy = w.override.ApprovedBy
	}

	at := now
	step.Completed = true
	step.CompletedAt = &at
	step.CompletedBy = completedBy
	step.Data = data.Clone()

	if pending {
		w.override = nil
	}
	w.updatedAt = now
	return nil
}

// RequestOverride opens an override request on a step that allows one.
func (w *LoadWorkflow) RequestOverride(kind StepKind, reason, requestedBy string, now time.Time) error {
	idx := kind.Index()
	if idx < 0 {
		return &StepNotFoundError{StepID: kind.String()}
	}
	step := w.steps[idx]
	if !step.AllowOverride {
		return fmt.Errorf("%w: %s", ErrOverrideNotAllowed, kind)
	}
	if step.Completed {
		return &AlreadyCompletedError{Step: kind}
	}
	if w.override != nil {
		return fmt.Errorf("%w: %s", ErrOverridePending, w.override.Step)
	}
	if err := errors.Join(
		requireText("reason", reason),
		requireText("requestedBy", requestedBy),
	); err != nil {
		return err
	}

	w.override = &OverrideRequest{
		Step:        kind,
		Reason:      strings.TrimSpace(reason),
		RequestedBy: requestedBy,
		RequestedAt: now,
	}
	w.updatedAt = now
	return nil
}

// ApproveOverride signs off the pending override request for kind.
func (w *LoadWorkflow) ApproveOverride(kind StepKind, approver string, now time.Time) error {
	if err := w.pendingFor(kind); err != nil {
		return err
	}
	if err := requireText("approver", approver); err != nil {
		return err
	}
	at := now
	w.override.Approved = true
	w.override.ApprovedBy = approver
	w.override.ApprovedAt = &at
	w.updatedAt = now
	return nil
}

// RejectOverride drops the pending override request for kind.
func (w *LoadWorkflow) RejectOverride(kind StepKind, rejectedBy string, now time.Time) error {
	if err := w.pendingFor(kind); err != nil {
		return err
	}
	if err := requireText("rejectedBy", rejectedBy); err != nil {
		return err
	}
	w.override = nil
	w.updatedAt = now
	return nil
}

func (w *LoadWorkflow) pendingFor(kind StepKind) error {
	if kind.Index() < 0 {
		return &StepNotFoundError{StepID: kind.String()}
	}
	if w.override == nil || w.override.Step != kind || w.override.Approved {
		return fmt.Errorf("%w: %s", ErrNoOverridePending, kind)
	}
	return nil
}

func (w *LoadWorkflow) setLoadID(loadID string) error {
	if err := requireText("loadID", loadID); err != nil {
		return err
	}
	w.loadID = loadID
	return nil
}

func (w *LoadWorkflow) setDriverID(driverID string) error {
	if err := requireText("driverID", driverID); err != nil {
		return err
	}
	w.driverID = driverID
	return nil
}

func (w *LoadWorkflow) setDispatcherID(dispatcherID string) error {
	if err := requireText("dispatcherID", dispatcherID); err != nil {
		return err
	}
	w.dispatcherID = dispatcherID
	return nil
}

func (w *LoadWorkflow) setSteps(steps []Step) error {
	kinds := StepKinds()
	if len(steps) != len(kinds) {
		return errs.NewValueIsOutOfRangeError("steps", len(steps), len(kinds), len(kinds))
	}
	out := make([]Step, len(steps))
	for i := range steps {
		if steps[i].Kind != kinds[i] {
			return errs.NewValueIsInvalidErrorWithCause(
				"steps",
				fmt.Errorf("position %d holds %s, expected %s", i, steps[i].Kind, kinds[i]),
			)
		}
		out[i] = steps[i].clone()
	}
	w.steps = out
	return nil
}

func requireText(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
