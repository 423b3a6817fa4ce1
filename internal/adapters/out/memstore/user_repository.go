package memstore

import (
	"context"

	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/ports"
)

var _ ports.UserRepository = &UserRepository{}

// UserRepository serves courier and sender profiles from the store. The
// guarded flag mirrors DeliveryRepository.
type UserRepository struct {
	store   *Store
	guarded bool
}

// NewUserRepository creates a self-locking repository for use outside a unit
// of work.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) lock() func() {
	if r.guarded {
		return func() {}
	}
	r.store.usersMu.Lock()
	return r.store.usersMu.Unlock
}

// Get restores the profile for npub. An unseen npub yields a fresh default
// profile rather than an error.
func (r *UserRepository) Get(_ context.Context, npub string) (*account.Profile, error) {
	defer r.lock()()

	snapshot, exists := r.store.users[npub]
	if !exists {
		return account.NewProfile(npub)
	}
	return account.RestoreProfile(cloneProfile(snapshot)), nil
}

// Save upserts the profile snapshot.
func (r *UserRepository) Save(_ context.Context, profile *account.Profile) error {
	defer r.lock()()

	r.store.users[profile.Npub()] = cloneProfile(profile.Snapshot())
	return nil
}
