package commands

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand represents a courier finishing a delivery with
// proof. The signature requirement is enforced by the aggregate against its
// package list.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID    string
	images        []string
	signatureName *string
	comments      *string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command to complete a delivery.
func NewCompleteDeliveryCommand(deliveryID string, images []string,
	signatureName, comments *string) (CompleteDeliveryCommand, error) {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return CompleteDeliveryCommand{
		deliveryID:    deliveryID,
		images:        images,
		signatureName: signatureName,
		comments:      comments,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) DeliveryID() string     { return c.deliveryID }
func (c CompleteDeliveryCommand) Images() []string       { return c.images }
func (c CompleteDeliveryCommand) SignatureName() *string { return c.signatureName }
func (c CompleteDeliveryCommand) Comments() *string      { return c.comments }
