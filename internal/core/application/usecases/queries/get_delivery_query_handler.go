package queries

import (
	"context"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/ports"
)

// GetDeliveryQueryHandler serves single-delivery reads from the repository.
type GetDeliveryQueryHandler struct {
	repo ports.DeliveryRepository
}

// NewGetDeliveryQueryHandler creates a handler for single-delivery reads.
func NewGetDeliveryQueryHandler(repo ports.DeliveryRepository) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{repo: repo}
}

// Handle returns the snapshot of the requested delivery. A missing delivery
// surfaces as an errs.ObjectNotFoundError from the repository.
func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (delivery.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return delivery.Snapshot{}, err
	}

	aggregate, err := h.repo.Get(ctx, query.DeliveryID())
	if err != nil {
		return delivery.Snapshot{}, err
	}

	return aggregate.Snapshot(), nil
}
