package memstore

import (
	"context"
	"errors"
	"maps"

	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/ports"
)

var _ ports.UnitOfWork = &UnitOfWork{}
var _ ports.UnitOfWorkFactory = &UnitOfWorkFactory{}

// ErrNoActiveTransaction is returned when Commit is called without a
// preceding Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// UnitOfWork serializes writers by holding the store mutexes for the whole
// transaction. Begin takes map backups so Rollback can restore the
// pre-transaction state. Locks are always taken in the order deliveries then
// users.
type UnitOfWork struct {
	store *Store

	active           bool
	deliveriesBackup map[string]delivery.Snapshot
	usersBackup      map[string]account.Snapshot
}

// UnitOfWorkFactory creates memory-backed units of work over a shared store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.active {
		return errors.New("transaction already active")
	}

	u.store.deliveriesMu.Lock()
	u.store.usersMu.Lock()

	u.deliveriesBackup = maps.Clone(u.store.deliveries)
	u.usersBackup = maps.Clone(u.store.users)
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	u.finish()
	return nil
}

// Rollback restores the backups taken at Begin. Calling it after Commit is a
// no-op so handlers can defer it unconditionally.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return nil
	}
	u.store.deliveries = u.deliveriesBackup
	u.store.users = u.usersBackup
	u.finish()
	return nil
}

func (u *UnitOfWork) finish() {
	u.deliveriesBackup = nil
	u.usersBackup = nil
	u.active = false

	u.store.usersMu.Unlock()
	u.store.deliveriesMu.Unlock()
}

// DeliveryRepository returns a repository relying on the locks held by this
// transaction.
func (u *UnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return &DeliveryRepository{store: u.store, guarded: true}
}

// UserRepository returns a repository relying on the locks held by this
// transaction.
func (u *UnitOfWork) UserRepository() ports.UserRepository {
	return &UserRepository{store: u.store, guarded: true}
}
