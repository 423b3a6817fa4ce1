package commands

import (
	"context"
	"time"

	"opencourier/internal/core/domain/model/delivery"
)

// CompleteDeliveryCommandHandler handles delivery completion with proof.
type CompleteDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewCompleteDeliveryCommandHandler creates a handler for completion.
func NewCompleteDeliveryCommandHandler(uowFactory DeliveryUoWFactory) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle processes the completion command and returns the updated aggregate.
func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) (*delivery.Delivery, error) {
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

	now := time.Now().Unix()
	if err = aggregate.Complete(cmd.Images(), cmd.SignatureName(), cmd.Comments(), now); err != nil {
		return nil, err
	}

	transition := &delivery.StatusUpdate{
		DeliveryID:   aggregate.ID(),
		Status:       delivery.Completed,
		Timestamp:    now,
		ProofOfDeliv: aggregate.ProofOfDelivery(),
		CompletedAt:  aggregate.CompletedAt(),
	}
	if err = repo.Update(ctx, aggregate, transition); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
