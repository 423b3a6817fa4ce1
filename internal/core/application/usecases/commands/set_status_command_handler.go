package commands

import (
	"context"
	"time"

	"opencourier/internal/core/domain/model/delivery"
)

// SetStatusCommandHandler handles forced status overrides. The override
// bypasses the transition table: the caller is authoritative, matching the
// semantics of a status record arriving through the log.
type SetStatusCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewSetStatusCommandHandler creates a handler for status overrides.
func NewSetStatusCommandHandler(uowFactory DeliveryUoWFactory) SetStatusCommandHandler {
	return SetStatusCommandHandler{uowFactory: uowFactory}
}

// Handle processes the override command and returns the updated aggregate.
func (h *SetStatusCommandHandler) Handle(ctx context.Context, cmd SetStatusCommand) (*delivery.Delivery, error) {
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

	transition := delivery.StatusUpdate{
		DeliveryID: aggregate.ID(),
		Status:     cmd.Status(),
		Timestamp:  time.Now().Unix(),
	}
	aggregate.ApplyUpdate(transition)

	if err = repo.Update(ctx, aggregate, &transition); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
