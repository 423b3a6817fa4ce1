package commands

import (
	"errors"
	"fmt"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/errs"
	"opencourier/internal/pkg/guard"
)

var ErrSetStatusCommandIsNotConstructed = errors.New(
	"SetStatusCommand must be created via NewSetStatusCommand constructor",
)

// SetStatusCommand represents a forced status override. Only the working
// statuses may be forced; terminal statuses are reached through their
// dedicated commands.
type SetStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID string
	status     delivery.Status

	guard guard.ConstructorGuard
}

// NewSetStatusCommand creates a command to force a delivery's status to one
// of Accepted, InTransit, Completed or Confirmed.
func NewSetStatusCommand(deliveryID string, status delivery.Status) (SetStatusCommand, error) {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return SetStatusCommand{}, err
	}

	switch status {
	case delivery.Accepted, delivery.InTransit, delivery.Completed, delivery.Confirmed:
	default:
		return SetStatusCommand{}, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s cannot be forced", status))
	}

	return SetStatusCommand{
		deliveryID: deliveryID,
		status:     status,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetStatusCommandIsNotConstructed)
}

func (c SetStatusCommand) DeliveryID() string      { return c.deliveryID }
func (c SetStatusCommand) Status() delivery.Status { return c.status }
