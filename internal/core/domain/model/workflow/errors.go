package workflow

import (
	"errors"
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

var (
	ErrWorkflowNotFound    = errors.New("workflow not found")
	ErrStepNotFound        = errors.New("step not found")
	ErrAlreadyCompleted    = errors.New("step already completed")
	ErrOutOfOrder          = errors.New("step completed out of order")
	ErrValidationFailed    = errors.New("step validation failed")
	ErrOverrideNotAllowed  = errors.New("override not allowed for step")
	ErrOverridePending     = errors.New("an override request is already pending")
	ErrNoOverridePending   = errors.New("no override pending for step")
	ErrOverrideNotApproved = errors.New("override has not been approved")

	ErrLoadWorkflowIsNotConstructed = errors.New("LoadWorkflow must be created via NewLoadWorkflow or RestoreLoadWorkflow")
)

// WorkflowNotFoundError matches both ErrWorkflowNotFound and errs.ErrObjectNotFound.
type WorkflowNotFoundError struct {
	LoadID string
}

func NewWorkflowNotFoundError(loadID string) *WorkflowNotFoundError {
	return &WorkflowNotFoundError{LoadID: loadID}
}

func (e *WorkflowNotFoundError) Error() string {
	return fmt.Sprintf("workflow not found for load %s", e.LoadID)
}

func (e *WorkflowNotFoundError) Unwrap() []error {
	return []error{ErrWorkflowNotFound, errs.ErrObjectNotFound}
}

type StepNotFoundError struct {
	StepID string
}

func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("step %s not found", e.StepID)
}

func (e *StepNotFoundError) Unwrap() error {
	return ErrStepNotFound
}

type AlreadyCompletedError struct {
	Step StepKind
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("Step %s is already completed", templateFor(e.Step).name)
}

func (e *AlreadyCompletedError) Unwrap() error {
	return ErrAlreadyCompleted
}

// OutOfOrderError names the first incomplete required predecessor.
type OutOfOrderError struct {
	Step     StepKind
	Blocking StepKind
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("Previous step %s must be completed first", templateFor(e.Blocking).name)
}

func (e *OutOfOrderError) Unwrap() error {
	return ErrOutOfOrder
}

// ValidationError carries every field error reported by a step validator.
type ValidationError struct {
	Step   StepKind
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Step, strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
