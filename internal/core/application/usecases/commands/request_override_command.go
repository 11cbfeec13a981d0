package commands

import (
	"errors"
	"strings"

	"freight/internal/pkg/guard"
)

var ErrRequestOverrideCommandIsNotConstructed = errors.New(
	"RequestOverrideCommand must be created via NewRequestOverrideCommand constructor",
)

type RequestOverrideCommand struct { //nolint:recvcheck //using for validation
	loadID      string
	stepID      string
	reason      string
	requestedBy string

	guard guard.ConstructorGuard
}

func NewRequestOverrideCommand(loadID, stepID, reason, requestedBy string) (RequestOverrideCommand, error) {
	cmd := RequestOverrideCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireText("loadId", loadID),
		requireText("stepId", stepID),
		requireText("reason", reason),
		requireText("requestedBy", requestedBy),
	); err != nil {
		return RequestOverrideCommand{}, err
	}

	cmd.loadID = loadID
	cmd.stepID = stepID
	cmd.reason = strings.TrimSpace(reason)
	cmd.requestedBy = requestedBy
	return cmd, nil
}

func (c RequestOverrideCommand) Validate() error {
	return c.guard.Validate(ErrRequestOverrideCommandIsNotConstructed)
}

func (c RequestOverrideCommand) LoadID() string      { return c.loadID }
func (c RequestOverrideCommand) StepID() string      { return c.stepID }
func (c RequestOverrideCommand) Reason() string      { return c.reason }
func (c RequestOverrideCommand) RequestedBy() string { return c.requestedBy }
