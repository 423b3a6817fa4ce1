package commands

import (
	"context"
	"time"

	"opencourier/internal/core/domain/model/delivery"
)

// CreateDeliveryCommandHandler handles the business logic for delivery
// creation. New deliveries start Open; when no expiry is supplied, a default
// of seven days from creation is applied.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewCreateDeliveryCommandHandler creates a handler for delivery creation.
func NewCreateDeliveryCommandHandler(uowFactory DeliveryUoWFactory) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle processes the creation command and returns the new aggregate.
func (h *CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	expiresAt := cmd.ExpiresAt()
	if expiresAt == nil {
		defaultExpiry := now + DefaultExpirySeconds
		expiresAt = &defaultExpiry
	}

	aggregate, err := delivery.NewDelivery(cmd.Sender(), cmd.Pickup(), cmd.Dropoff(),
		cmd.Packages(), cmd.OfferAmount(), cmd.InsuranceAmount(), cmd.TimeWindow(),
		expiresAt, now)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
