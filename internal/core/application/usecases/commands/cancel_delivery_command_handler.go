package commands

import (
	"context"

	"opencourier/internal/core/domain/model/delivery"
)

// CancelDeliveryCommandHandler handles cancellation of a committed delivery.
// The accepted courier is paid the full offer amount as compensation, with
// no effect on their completion count or reputation.
type CancelDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

// NewCancelDeliveryCommandHandler creates a handler for cancellation.
func NewCancelDeliveryCommandHandler(uowFactory UoWFactory) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle processes the cancellation command and returns the updated
// aggregate.
func (h *CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) (*delivery.Delivery, error) {
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

	accepted := aggregate.AcceptedBidRecord()

	if err = aggregate.Cancel(); err != nil {
		return nil, err
	}

	if accepted != nil {
		userRepo := uow.UserRepository()
		profile, err := userRepo.Get(ctx, accepted.Courier)
		if err != nil {
			return nil, err
		}
		profile.CreditCancellation(aggregate.OfferAmount())
		if err = userRepo.Save(ctx, profile); err != nil {
			return nil, err
		}
	}

	// Expired has no dedicated transition record; the republished root
	// snapshot carries the terminal status.
	if err = deliveryRepo.Update(ctx, aggregate, nil); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
