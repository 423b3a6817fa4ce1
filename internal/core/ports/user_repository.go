package ports

import (
	"context"

	"opencourier/internal/core/domain/model/account"
)

// UserRepository defines the persistence contract for user profiles.
type UserRepository interface {
	// Get retrieves the profile for an npub. Identities never seen before
	// yield a fresh default profile, not an error.
	Get(ctx context.Context, npub string) (*account.Profile, error)

	// Save persists a profile snapshot, creating or replacing it.
	Save(ctx context.Context, profile *account.Profile) error
}
