package commands

import (
	"errors"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var ErrUpdateDeliveryCommandIsNotConstructed = errors.New(
	"UpdateDeliveryCommand must be created via NewUpdateDeliveryCommand constructor",
)

// UpdateDeliveryCommand represents a request to edit the mutable fields of
// an Open delivery. Absent fields are left unchanged.
type UpdateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID string
	fields     delivery.UpdateFields

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryCommand creates a command to edit a delivery. Field-level
// validation happens in the aggregate; only the id is checked here.
func NewUpdateDeliveryCommand(deliveryID string, fields delivery.UpdateFields) (UpdateDeliveryCommand, error) {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return UpdateDeliveryCommand{}, err
	}

	return UpdateDeliveryCommand{
		deliveryID: deliveryID,
		fields:     fields,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryCommandIsNotConstructed)
}

func (c UpdateDeliveryCommand) DeliveryID() string            { return c.deliveryID }
func (c UpdateDeliveryCommand) Fields() delivery.UpdateFields { return c.fields }
