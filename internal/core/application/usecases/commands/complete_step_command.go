package commands

import (
	"errors"

	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/guard"
)

var ErrCompleteStepCommandIsNotConstructed = errors.New(
	"CompleteStepCommand must be created via NewCompleteStepCommand constructor",
)

// CompleteStepCommand carries a step completion with its evidence payload.
// The step id is not parsed here so that an unknown workflow is reported
// before an unknown step.
type CompleteStepCommand struct { //nolint:recvcheck //using for validation
	loadID      string
	stepID      string
	data        workflow.StepData
	completedBy string

	guard guard.ConstructorGuard
}

func NewCompleteStepCommand(loadID, stepID string, data workflow.StepData, completedBy string) (CompleteStepCommand, error) {
	cmd := CompleteStepCommand{
		data:  data.Clone(),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setLoadID(loadID),
		cmd.setStepID(stepID),
		cmd.setCompletedBy(completedBy),
	); err != nil {
		return CompleteStepCommand{}, err
	}

	if cmd.data == nil {
		cmd.data = workflow.StepData{}
	}
	return cmd, nil
}

func (c CompleteStepCommand) Validate() error {
	return c.guard.Validate(ErrCompleteStepCommandIsNotConstructed)
}

func (c CompleteStepCommand) LoadID() string      { return c.loadID }
func (c CompleteStepCommand) StepID() string      { return c.stepID }
func (c CompleteStepCommand) CompletedBy() string { return c.completedBy }

// Data returns a copy of the step payload.
func (c CompleteStepCommand) Data() workflow.StepData { return c.data.Clone() }

func (c *CompleteStepCommand) setLoadID(loadID string) error {
	if err := requireText("loadId", loadID); err != nil {
		return err
	}
	c.loadID = loadID
	return nil
}

func (c *CompleteStepCommand) setStepID(stepID string) error {
	if err := requireText("stepId", stepID); err != nil {
		return err
	}
	c.stepID = stepID
	return nil
}

func (c *CompleteStepCommand) setCompletedBy(completedBy string) error {
	if err := requireText("completedBy", completedBy); err != nil {
		return err
	}
	c.completedBy = completedBy
	return nil
}
