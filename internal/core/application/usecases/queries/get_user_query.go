package queries

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var ErrGetUserQueryIsNotConstructed = errors.New(
	"GetUserQuery must be created via NewGetUserQuery constructor",
)

// GetUserQuery retrieves a user profile by npub.
type GetUserQuery struct {
	npub string

	guard guard.ConstructorGuard
}

// NewGetUserQuery creates a query to fetch a user profile.
func NewGetUserQuery(npub string) (GetUserQuery, error) {
	if err := kernel.ValidateNpub(npub); err != nil {
		return GetUserQuery{}, err
	}

	return GetUserQuery{
		npub:  npub,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUserQuery) Validate() error {
	return q.guard.Validate(ErrGetUserQueryIsNotConstructed)
}

// Npub returns the identity of the requested profile.
func (q GetUserQuery) Npub() string {
	return q.npub
}
