package nostrlog

import (
	"context"

	"opencourier/internal/core/ports"
)

var (
	_ ports.UnitOfWork        = &UnitOfWork{}
	_ ports.UnitOfWorkFactory = &UnitOfWorkFactory{}
)

// UnitOfWork satisfies the transactional port over the event log. The log
// has no transactions: every publish is immediately visible and cannot be
// rolled back, so Begin, Commit and Rollback are no-ops and each repository
// write stands alone.
type UnitOfWork struct {
	deliveries *DeliveryRepository
	users      *UserRepository
}

// NewUnitOfWork creates a unit of work over the given relay client.
func NewUnitOfWork(client *Client) *UnitOfWork {
	return &UnitOfWork{
		deliveries: NewDeliveryRepository(client),
		users:      NewUserRepository(client),
	}
}

func (u *UnitOfWork) Begin(ctx context.Context) error    { return nil }
func (u *UnitOfWork) Commit(ctx context.Context) error   { return nil }
func (u *UnitOfWork) Rollback(ctx context.Context) error { return nil }

// DeliveryRepository returns the log-backed delivery repository.
func (u *UnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return u.deliveries
}

// UserRepository returns the log-backed user repository.
func (u *UnitOfWork) UserRepository() ports.UserRepository {
	return u.users
}

// UnitOfWorkFactory creates units of work sharing one relay client.
type UnitOfWorkFactory struct {
	client *Client
}

// NewUnitOfWorkFactory creates the factory.
func NewUnitOfWorkFactory(client *Client) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{client: client}
}

// Create returns a unit of work. Instances are stateless and cheap.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return NewUnitOfWork(f.client)
}
