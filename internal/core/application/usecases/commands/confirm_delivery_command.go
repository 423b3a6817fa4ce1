package commands

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/errs"
	"opencourier/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand represents the sender acknowledging a delivery,
// optionally rating the courier.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID string
	rating     *float64
	feedback   *string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a command to confirm a delivery. The
// rating, when given, must be within [0, 5].
func NewConfirmDeliveryCommand(deliveryID string, rating *float64, feedback *string) (ConfirmDeliveryCommand, error) {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	if rating != nil && (*rating < 0 || *rating > 5) {
		return ConfirmDeliveryCommand{}, errs.NewValueIsOutOfRangeError("rating", *rating, 0.0, 5.0)
	}

	return ConfirmDeliveryCommand{
		deliveryID: deliveryID,
		rating:     rating,
		feedback:   feedback,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) DeliveryID() string { return c.deliveryID }
func (c ConfirmDeliveryCommand) Rating() *float64   { return c.rating }
func (c ConfirmDeliveryCommand) Feedback() *string  { return c.feedback }
