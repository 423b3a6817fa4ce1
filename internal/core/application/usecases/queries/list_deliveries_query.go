// Package queries contains read-only operations over the marketplace state.
// Implements the Query side of the CQRS architecture. Unlike commands,
// queries run outside a unit of work: they read through the repository ports
// directly, so every backend (event log, memory, database) serves them the
// same way.
package queries

import (
	"errors"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/pkg/guard"
)

var ErrListDeliveriesQueryIsNotConstructed = errors.New(
	"ListDeliveriesQuery must be created via NewListDeliveriesQuery constructor",
)

// ListDeliveriesQuery retrieves delivery aggregates, optionally narrowed to
// a single status.
type ListDeliveriesQuery struct {
	status *delivery.Status

	guard guard.ConstructorGuard
}

// NewListDeliveriesQuery creates a query to list deliveries. A nil status
// means no filtering.
func NewListDeliveriesQuery(status *delivery.Status) (ListDeliveriesQuery, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListDeliveriesQuery{}, err
		}
	}

	return ListDeliveriesQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveriesQueryIsNotConstructed)
}

// Status returns the optional status filter.
func (q ListDeliveriesQuery) Status() *delivery.Status {
	return q.status
}
