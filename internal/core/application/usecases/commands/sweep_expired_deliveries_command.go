package commands

import (
	"errors"

	"opencourier/internal/pkg/guard"
)

var ErrSweepExpiredDeliveriesCommandIsNotConstructed = errors.New(
	"SweepExpiredDeliveriesCommand must be created via NewSweepExpiredDeliveriesCommand constructor",
)

// SweepExpiredDeliveriesCommand triggers expiry of all Open deliveries whose
// expiry time has passed. This batch operation is run periodically by the
// jobs layer.
type SweepExpiredDeliveriesCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepExpiredDeliveriesCommand creates a parameterless command that
// processes all overdue Open deliveries.
func NewSweepExpiredDeliveriesCommand() SweepExpiredDeliveriesCommand {
	return SweepExpiredDeliveriesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *SweepExpiredDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrSweepExpiredDeliveriesCommandIsNotConstructed)
}
