package commands

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var ErrExpireDeliveryCommandIsNotConstructed = errors.New(
	"ExpireDeliveryCommand must be created via NewExpireDeliveryCommand constructor",
)

// ExpireDeliveryCommand represents withdrawing an Open delivery from the
// marketplace. No courier is committed yet, so nothing is paid out.
type ExpireDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID string

	guard guard.ConstructorGuard
}

// NewExpireDeliveryCommand creates a command to expire an Open delivery.
func NewExpireDeliveryCommand(deliveryID string) (ExpireDeliveryCommand, error) {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return ExpireDeliveryCommand{}, err
	}

	return ExpireDeliveryCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrExpireDeliveryCommandIsNotConstructed)
}

func (c ExpireDeliveryCommand) DeliveryID() string { return c.deliveryID }
