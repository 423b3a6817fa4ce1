package commands

import (
	"context"

	"opencourier/internal/core/domain/model/delivery"
)

// UpdateDeliveryCommandHandler handles edits to a delivery's mutable fields.
// The aggregate rejects edits once the delivery has left the Open status.
type UpdateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewUpdateDeliveryCommandHandler creates a handler for delivery edits.
func NewUpdateDeliveryCommandHandler(uowFactory DeliveryUoWFactory) UpdateDeliveryCommandHandler {
	return UpdateDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle processes the edit command and returns the updated aggregate.
func (h *UpdateDeliveryCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryCommand) (*delivery.Delivery, error) {
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

	if err = aggregate.Update(cmd.Fields()); err != nil {
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
