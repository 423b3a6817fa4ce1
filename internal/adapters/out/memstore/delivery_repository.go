package memstore

import (
	"context"
	"fmt"
	"sort"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/ports"
	"opencourier/internal/pkg/errs"
)

var _ ports.DeliveryRepository = &DeliveryRepository{}

// DeliveryRepository serves delivery aggregates from the store. When guarded
// is set, the enclosing unit of work already holds the deliveries lock and
// the repository must not lock again.
type DeliveryRepository struct {
	store   *Store
	guarded bool
}

// NewDeliveryRepository creates a self-locking repository for use outside a
// unit of work (the query side).
func NewDeliveryRepository(store *Store) *DeliveryRepository {
	return &DeliveryRepository{store: store}
}

func (r *DeliveryRepository) lock() func() {
	if r.guarded {
		return func() {}
	}
	r.store.deliveriesMu.Lock()
	return r.store.deliveriesMu.Unlock
}

// Add stores a new delivery snapshot.
func (r *DeliveryRepository) Add(_ context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	defer r.lock()()

	if _, exists := r.store.deliveries[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("deliveryId",
			fmt.Errorf("%s already exists", aggregate.ID()))
	}
	r.store.deliveries[aggregate.ID()] = cloneDelivery(aggregate.Snapshot())
	return nil
}

// Update replaces the stored snapshot. The store is authoritative, so the
// transition record is not needed here.
func (r *DeliveryRepository) Update(_ context.Context, aggregate *delivery.Delivery, _ *delivery.StatusUpdate) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	defer r.lock()()

	if _, exists := r.store.deliveries[aggregate.ID()]; !exists {
		return errs.NewObjectNotFoundError("deliveryId", aggregate.ID())
	}
	r.store.deliveries[aggregate.ID()] = cloneDelivery(aggregate.Snapshot())
	return nil
}

// Get restores an independent aggregate copy from the stored snapshot.
func (r *DeliveryRepository) Get(_ context.Context, id string) (*delivery.Delivery, error) {
	defer r.lock()()

	snapshot, exists := r.store.deliveries[id]
	if !exists {
		return nil, errs.NewObjectNotFoundError("deliveryId", id)
	}
	return delivery.RestoreDelivery(cloneDelivery(snapshot)), nil
}

// List returns all deliveries matching the filter, newest first.
func (r *DeliveryRepository) List(_ context.Context, filter ports.DeliveryFilter) ([]*delivery.Delivery, error) {
	defer r.lock()()

	aggregates := make([]*delivery.Delivery, 0, len(r.store.deliveries))
	for _, snapshot := range r.store.deliveries {
		aggregate := delivery.RestoreDelivery(cloneDelivery(snapshot))
		if matchesFilter(aggregate, filter) {
			aggregates = append(aggregates, aggregate)
		}
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].CreatedAt() != aggregates[j].CreatedAt() {
			return aggregates[i].CreatedAt() > aggregates[j].CreatedAt()
		}
		return aggregates[i].ID() < aggregates[j].ID()
	})
	return aggregates, nil
}

// GetAllOpenExpiredBefore returns Open deliveries whose expiry has passed.
func (r *DeliveryRepository) GetAllOpenExpiredBefore(ctx context.Context, now int64) ([]*delivery.Delivery, error) {
	open := delivery.Open
	aggregates, err := r.List(ctx, ports.DeliveryFilter{Status: &open})
	if err != nil {
		return nil, err
	}

	overdue := make([]*delivery.Delivery, 0)
	for _, aggregate := range aggregates {
		if expiresAt := aggregate.ExpiresAt(); expiresAt != nil && *expiresAt < now {
			overdue = append(overdue, aggregate)
		}
	}
	return overdue, nil
}

func matchesFilter(aggregate *delivery.Delivery, filter ports.DeliveryFilter) bool {
	if filter.Status != nil && aggregate.Status() != *filter.Status {
		return false
	}
	if filter.Sender != "" && aggregate.Sender() != filter.Sender {
		return false
	}
	if filter.Courier != "" {
		accepted := aggregate.AcceptedBidRecord()
		if accepted == nil || accepted.Courier != filter.Courier {
			return false
		}
	}
	return true
}
