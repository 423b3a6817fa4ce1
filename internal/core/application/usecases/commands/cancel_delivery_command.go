package commands

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var ErrCancelDeliveryCommandIsNotConstructed = errors.New(
	"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
)

// CancelDeliveryCommand represents the sender cancelling a delivery that a
// courier has already committed to.
type CancelDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID string

	guard guard.ConstructorGuard
}

// NewCancelDeliveryCommand creates a command to cancel a delivery.
func NewCancelDeliveryCommand(deliveryID string) (CancelDeliveryCommand, error) {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return CancelDeliveryCommand{}, err
	}

	return CancelDeliveryCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

func (c CancelDeliveryCommand) DeliveryID() string { return c.deliveryID }
