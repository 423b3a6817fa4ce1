package queries

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery retrieves a single delivery aggregate by id.
type GetDeliveryQuery struct {
	deliveryID string

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuery creates a query to fetch one delivery.
func NewGetDeliveryQuery(deliveryID string) (GetDeliveryQuery, error) {
	if err := kernel.ValidateDeliveryID(deliveryID); err != nil {
		return GetDeliveryQuery{}, err
	}

	return GetDeliveryQuery{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// DeliveryID returns the id of the requested delivery.
func (q GetDeliveryQuery) DeliveryID() string {
	return q.deliveryID
}
