package commands

import (
	"context"
	"time"

	"opencourier/internal/core/domain/model/delivery"
)

// ConfirmDeliveryCommandHandler handles delivery confirmation. Confirming
// credits the accepted courier: one completed delivery, the offer amount in
// earnings and, when a rating was left, a reputation update. Both aggregates
// change inside one unit of work.
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

// NewConfirmDeliveryCommandHandler creates a handler for confirmation.
func NewConfirmDeliveryCommandHandler(uowFactory UoWFactory) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle processes the confirmation command and returns the updated
// aggregate.
func (h *ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (*delivery.Delivery, error) {
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

	if err = aggregate.Confirm(cmd.Rating(), cmd.Feedback()); err != nil {
		return nil, err
	}

	// Foreign log history may confirm a delivery that never recorded an
	// accepted bid locally; in that case there is no courier to credit.
	if accepted := aggregate.AcceptedBidRecord(); accepted != nil {
		userRepo := uow.UserRepository()
		profile, err := userRepo.Get(ctx, accepted.Courier)
		if err != nil {
			return nil, err
		}
		if err = profile.RecordCompletion(cmd.Rating(), aggregate.OfferAmount()); err != nil {
			return nil, err
		}
		if err = userRepo.Save(ctx, profile); err != nil {
			return nil, err
		}
	}

	transition := &delivery.StatusUpdate{
		DeliveryID:     aggregate.ID(),
		Status:         delivery.Confirmed,
		Timestamp:      time.Now().Unix(),
		SenderRating:   aggregate.SenderRating(),
		SenderFeedback: aggregate.SenderFeedback(),
	}
	if err = deliveryRepo.Update(ctx, aggregate, transition); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
