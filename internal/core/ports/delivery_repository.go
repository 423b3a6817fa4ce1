// Package ports defines repository interfaces for the marketplace domain.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"opencourier/internal/core/domain/model/delivery"
)

// DeliveryFilter narrows List results. Zero values mean no filtering.
type DeliveryFilter struct {
	// Status keeps only deliveries in the given status.
	Status *delivery.Status

	// Sender keeps only deliveries created by the given npub.
	Sender string

	// Courier keeps only deliveries whose accepted bid belongs to the given
	// npub.
	Courier string
}

// DeliveryRepository defines the persistence contract for delivery
// aggregates. Implementations may be backed by a replicated event log, in
// which case reads reconstruct the aggregate from whatever events are
// currently visible.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate. When the
	// change was a status transition, the caller passes the corresponding
	// log record so event-log backends can publish it alongside the new
	// root snapshot; backends with authoritative storage may ignore it.
	// A nil transition means only mutable fields or bids changed.
	Update(ctx context.Context, aggregate *delivery.Delivery, transition *delivery.StatusUpdate) error

	// Get retrieves a delivery aggregate by id. Returns an
	// errs.ObjectNotFoundError when no delivery with the id exists.
	Get(ctx context.Context, id string) (*delivery.Delivery, error)

	// List retrieves deliveries matching the filter, newest first.
	List(ctx context.Context, filter DeliveryFilter) ([]*delivery.Delivery, error)

	// GetAllOpenExpiredBefore retrieves Open deliveries whose expiry time is
	// set and earlier than the given epoch time. Used by the expiry sweeper.
	GetAllOpenExpiredBefore(ctx context.Context, now int64) ([]*delivery.Delivery, error)
}
