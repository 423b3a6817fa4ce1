package queries

import (
	"context"

	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/ports"
)

// GetUserQueryHandler serves profile reads from the repository. An identity
// never seen before yields the default profile rather than an error.
type GetUserQueryHandler struct {
	repo ports.UserRepository
}

// NewGetUserQueryHandler creates a handler for profile reads.
func NewGetUserQueryHandler(repo ports.UserRepository) GetUserQueryHandler {
	return GetUserQueryHandler{repo: repo}
}

// Handle returns the snapshot of the requested profile.
func (h GetUserQueryHandler) Handle(ctx context.Context, query GetUserQuery) (account.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return account.Snapshot{}, err
	}

	profile, err := h.repo.Get(ctx, query.Npub())
	if err != nil {
		return account.Snapshot{}, err
	}

	return profile.Snapshot(), nil
}
