package commands

import (
	"context"
	"time"

	"opencourier/internal/core/domain/model/delivery"
)

// PlaceBidCommandHandler handles bid submission. The courier's current
// profile is read inside the same unit of work so the bid carries a
// consistent reputation snapshot.
type PlaceBidCommandHandler struct {
	uowFactory UoWFactory
}

// NewPlaceBidCommandHandler creates a handler for bid submission.
func NewPlaceBidCommandHandler(uowFactory UoWFactory) PlaceBidCommandHandler {
	return PlaceBidCommandHandler{uowFactory: uowFactory}
}

// Handle processes the bid command and returns the updated aggregate.
func (h *PlaceBidCommandHandler) Handle(ctx context.Context, cmd PlaceBidCommand) (*delivery.Delivery, error) {
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

	deliveryRepo := uow.DeliveryRepository()
	aggregate, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}

	profile, err := uow.UserRepository().Get(ctx, cmd.Courier())
	if err != nil {
		return nil, err
	}

	bid, err := delivery.NewBid(cmd.Courier(), cmd.Amount(), cmd.EstimatedTime(),
		profile.Reputation(), profile.CompletedDeliveries(), cmd.Message(), time.Now().Unix())
	if err != nil {
		return nil, err
	}

	if err = aggregate.PlaceBid(bid); err != nil {
		return nil, err
	}

	if err = deliveryRepo.Update(ctx, aggregate, nil); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
