package commands

import (
	"context"
	"time"

	"opencourier/internal/core/domain/model/delivery"
)

// AcceptBidCommandHandler handles bid acceptance. The transition record
// carries the accepted bid id so replicated backends publish it alongside
// the new root snapshot.
type AcceptBidCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewAcceptBidCommandHandler creates a handler for bid acceptance.
func NewAcceptBidCommandHandler(uowFactory DeliveryUoWFactory) AcceptBidCommandHandler {
	return AcceptBidCommandHandler{uowFactory: uowFactory}
}

// Handle processes the acceptance command and returns the updated aggregate.
func (h *AcceptBidCommandHandler) Handle(ctx context.Context, cmd AcceptBidCommand) (*delivery.Delivery, error) {
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

	if err = aggregate.AcceptBid(cmd.BidIndex()); err != nil {
		return nil, err
	}

	transition := &delivery.StatusUpdate{
		DeliveryID:  aggregate.ID(),
		Status:      delivery.Accepted,
		Timestamp:   time.Now().Unix(),
		AcceptedBid: aggregate.AcceptedBid(),
	}
	if err = repo.Update(ctx, aggregate, transition); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
