package commands

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var (
	ErrPlaceBidCommandIsNotConstructed = errors.New(
		"PlaceBidCommand must be created via NewPlaceBidCommand constructor",
	)
	ErrBidAmountIsInvalid = errors.New("bid amount must be greater than 0")
)

// PlaceBidCommand represents a courier's offer to carry a delivery. The
// courier's reputation and completion count are snapshotted into the bid by
// the handler at submission time.
type PlaceBidCommand struct { //nolint:recvcheck //using for validation
	deliveryID    string
	courier       string
	amount        uint64
	estimatedTime string
	message       *string

	guard guard.ConstructorGuard
}

// NewPlaceBidCommand creates a command to place a bid on a delivery.
func NewPlaceBidCommand(deliveryID, courier string, amount uint64,
	estimatedTime string, message *string) (PlaceBidCommand, error) {
	cmd := PlaceBidCommand{
		estimatedTime: estimatedTime,
		message:       message,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourier(courier),
		cmd.setAmount(amount),
	); err != nil {
		return PlaceBidCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceBidCommand) Validate() error {
	return c.guard.Validate(ErrPlaceBidCommandIsNotConstructed)
}

func (c PlaceBidCommand) DeliveryID() string    { return c.deliveryID }
func (c PlaceBidCommand) Courier() string       { return c.courier }
func (c PlaceBidCommand) Amount() uint64        { return c.amount }
func (c PlaceBidCommand) EstimatedTime() string { return c.estimatedTime }
func (c PlaceBidCommand) Message() *string      { return c.message }

func (c *PlaceBidCommand) setDeliveryID(deliveryID string) error {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *PlaceBidCommand) setCourier(courier string) error {
	if err := kernel.ValidateNpub(courier); err != nil {
		return err
	}
	c.courier = courier
	return nil
}

func (c *PlaceBidCommand) setAmount(amount uint64) error {
	if amount == 0 {
		return ErrBidAmountIsInvalid
	}
	c.amount = amount
	return nil
}
