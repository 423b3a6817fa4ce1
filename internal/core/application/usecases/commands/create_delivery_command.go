package commands

import (
	"errors"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

// DefaultExpirySeconds is applied when a create request carries no explicit
// expiry: deliveries stay open for seven days.
const DefaultExpirySeconds = 7 * 24 * 60 * 60

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand represents a request to publish a new delivery with
// its endpoints, packages and payment offer.
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	sender          string
	pickup          delivery.Location
	dropoff         delivery.Location
	packages        []delivery.Package
	offerAmount     uint64
	insuranceAmount *uint64
	timeWindow      string
	expiresAt       *int64

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to publish a new delivery.
// Validates the sender, both endpoints, the package list and the offer
// amount. Returns an error if any validation fails.
func NewCreateDeliveryCommand(sender string, pickup, dropoff delivery.Location,
	packages []delivery.Package, offerAmount uint64, insuranceAmount *uint64,
	timeWindow string, expiresAt *int64) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		insuranceAmount: insuranceAmount,
		timeWindow:      timeWindow,
		expiresAt:       expiresAt,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSender(sender),
		cmd.setPickup(pickup),
		cmd.setDropoff(dropoff),
		cmd.setPackages(packages),
		cmd.setOfferAmount(offerAmount),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

func (c CreateDeliveryCommand) Sender() string               { return c.sender }
func (c CreateDeliveryCommand) Pickup() delivery.Location    { return c.pickup }
func (c CreateDeliveryCommand) Dropoff() delivery.Location   { return c.dropoff }
func (c CreateDeliveryCommand) Packages() []delivery.Package { return c.packages }
func (c CreateDeliveryCommand) OfferAmount() uint64          { return c.offerAmount }
func (c CreateDeliveryCommand) InsuranceAmount() *uint64     { return c.insuranceAmount }
func (c CreateDeliveryCommand) TimeWindow() string           { return c.timeWindow }
func (c CreateDeliveryCommand) ExpiresAt() *int64            { return c.expiresAt }

func (c *CreateDeliveryCommand) setSender(sender string) error {
	if err := kernel.ValidateNpub(sender); err != nil {
		return err
	}
	c.sender = sender
	return nil
}

func (c *CreateDeliveryCommand) setPickup(pickup delivery.Location) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	c.pickup = pickup
	return nil
}

func (c *CreateDeliveryCommand) setDropoff(dropoff delivery.Location) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	c.dropoff = dropoff
	return nil
}

func (c *CreateDeliveryCommand) setPackages(packages []delivery.Package) error {
	if len(packages) == 0 {
		return errors.New("packages are required")
	}
	for _, p := range packages {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	c.packages = packages
	return nil
}

func (c *CreateDeliveryCommand) setOfferAmount(amount uint64) error {
	if amount == 0 {
		return errors.New("offer amount must be greater than 0")
	}
	c.offerAmount = amount
	return nil
}
