package commands

import (
	"errors"
	"fmt"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var ErrAcceptBidCommandIsNotConstructed = errors.New(
	"AcceptBidCommand must be created via NewAcceptBidCommand constructor",
)

// AcceptBidCommand represents a sender accepting a bid by its position in
// the delivery's bid list.
type AcceptBidCommand struct { //nolint:recvcheck //using for validation
	deliveryID string
	bidIndex   int

	guard guard.ConstructorGuard
}

// NewAcceptBidCommand creates a command to accept a bid. The index is only
// range-checked against the bid list inside the aggregate.
func NewAcceptBidCommand(deliveryID string, bidIndex int) (AcceptBidCommand, error) {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return AcceptBidCommand{}, err
	}
	if bidIndex < 0 {
		return AcceptBidCommand{}, fmt.Errorf("bid index %d is negative", bidIndex)
	}

	return AcceptBidCommand{
		deliveryID: deliveryID,
		bidIndex:   bidIndex,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptBidCommand) Validate() error {
	return c.guard.Validate(ErrAcceptBidCommandIsNotConstructed)
}

func (c AcceptBidCommand) DeliveryID() string { return c.deliveryID }
func (c AcceptBidCommand) BidIndex() int      { return c.bidIndex }
