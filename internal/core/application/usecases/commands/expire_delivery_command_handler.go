package commands

import (
	"context"

	"opencourier/internal/core/domain/model/delivery"
)

// ExpireDeliveryCommandHandler handles expiry of an Open delivery, either on
// explicit deletion by the sender or by the expiry sweeper.
type ExpireDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewExpireDeliveryCommandHandler creates a handler for expiry.
func NewExpireDeliveryCommandHandler(uowFactory DeliveryUoWFactory) ExpireDeliveryCommandHandler {
	return ExpireDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle processes the expiry command and returns the updated aggregate.
func (h *ExpireDeliveryCommandHandler) Handle(ctx context.Context, cmd ExpireDeliveryCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DeliveryRepository()
	aggregate, err := repo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.Expire(); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, aggregate, nil); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
