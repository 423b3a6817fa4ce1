package queries

import (
	"context"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/ports"
)

// ListDeliveriesQueryHandler serves delivery listings from the repository.
type ListDeliveriesQueryHandler struct {
	repo ports.DeliveryRepository
}

// NewListDeliveriesQueryHandler creates a handler for delivery listings.
func NewListDeliveriesQueryHandler(repo ports.DeliveryRepository) ListDeliveriesQueryHandler {
	return ListDeliveriesQueryHandler{repo: repo}
}

// Handle returns the snapshots of all deliveries matching the query, newest
// first.
func (h ListDeliveriesQueryHandler) Handle(ctx context.Context, query ListDeliveriesQuery) ([]delivery.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	aggregates, err := h.repo.List(ctx, ports.DeliveryFilter{Status: query.Status()})
	if err != nil {
		return nil, err
	}

	snapshots := make([]delivery.Snapshot, 0, len(aggregates))
	for _, aggregate := range aggregates {
		snapshots = append(snapshots, aggregate.Snapshot())
	}
	return snapshots, nil
}
