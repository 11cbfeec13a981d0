package commands

import (
	"errors"

	"freight/internal/pkg/guard"
)

var ErrInitializeWorkflowCommandIsNotConstructed = errors.New(
	"InitializeWorkflowCommand must be created via NewInitializeWorkflowCommand constructor",
)

// InitializeWorkflowCommand asks for the workflow of a load to exist.
//
// Example:
//
//	cmd, err := NewInitializeWorkflowCommand("LD-1001", "driver-7", "dispatch-2")
//	if err != nil {
//	    return err
//	}
//	snapshot, err := handler.Handle(ctx, cmd)
type InitializeWorkflowCommand struct { //nolint:recvcheck //using for validation
	loadID       string
	driverID     string
	dispatcherID string

	guard guard.ConstructorGuard
}

func NewInitializeWorkflowCommand(loadID, driverID, dispatcherID string) (InitializeWorkflowCommand, error) {
	cmd := InitializeWorkflowCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setLoadID(loadID),
		cmd.setDriverID(driverID),
		cmd.setDispatcherID(dispatcherID),
	); err != nil {
		return InitializeWorkflowCommand{}, err
	}

	return cmd, nil
}

func (c InitializeWorkflowCommand) Validate() error {
	return c.guard.Validate(ErrInitializeWorkflowCommandIsNotConstructed)
}

func (c InitializeWorkflowCommand) LoadID() string       { return c.loadID }
func (c InitializeWorkflowCommand) DriverID() string     { return c.driverID }
func (c InitializeWorkflowCommand) DispatcherID() string { return c.dispatcherID }

func (c *InitializeWorkflowCommand) setLoadID(loadID string) error {
	if err := requireText("loadId", loadID); err != nil {
		return err
	}
	c.loadID = loadID
	return nil
}

func (c *InitializeWorkflowCommand) setDriverID(driverID string) error {
	if err := requireText("driverId", driverID); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *InitializeWorkflowCommand) setDispatcherID(dispatcherID string) error {
	if err := requireText("dispatcherId", dispatcherID); err != nil {
		return err
	}
	c.dispatcherID = dispatcherID
	return nil
}
