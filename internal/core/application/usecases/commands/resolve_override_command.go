package commands

import (
	"errors"
	"fmt"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrResolveOverrideCommandIsNotConstructed = errors.New(
	"ResolveOverrideCommand must be created via NewResolveOverrideCommand constructor",
)

// Decision is the outcome of a pending override request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ResolveOverrideCommand approves or rejects the pending override of a step.
type ResolveOverrideCommand struct { //nolint:recvcheck //using for validation
	loadID   string
	stepID   string
	actor    string
	decision Decision

	guard guard.ConstructorGuard
}

func NewResolveOverrideCommand(loadID, stepID, actor string, decision Decision) (ResolveOverrideCommand, error) {
	cmd := ResolveOverrideCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireText("loadId", loadID),
		requireText("stepId", stepID),
		requireText("actor", actor),
		validateDecision(decision),
	); err != nil {
		return ResolveOverrideCommand{}, err
	}

	cmd.loadID = loadID
	cmd.stepID = stepID
	cmd.actor = actor
	cmd.decision = decision
	return cmd, nil
}

func (c ResolveOverrideCommand) Validate() error {
	return c.guard.Validate(ErrResolveOverrideCommandIsNotConstructed)
}

func (c ResolveOverrideCommand) LoadID() string     { return c.loadID }
func (c ResolveOverrideCommand) StepID() string     { return c.stepID }
func (c ResolveOverrideCommand) Actor() string      { return c.actor }
func (c ResolveOverrideCommand) Decision() Decision { return c.decision }

func validateDecision(d Decision) error {
	switch d {
	case DecisionApprove, DecisionReject:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is neither approve nor reject", d))
}
