package commands

import (
	"context"

	"opencourier/internal/core/domain/model/account"
)

// UpdateProfileCommandHandler handles contact edits on a user profile. The
// repository hands back a default profile for an identity never seen before,
// so the edit is an upsert.
type UpdateProfileCommandHandler struct {
	uowFactory UserUoWFactory
}

// NewUpdateProfileCommandHandler creates a handler for profile edits.
func NewUpdateProfileCommandHandler(uowFactory UserUoWFactory) UpdateProfileCommandHandler {
	return UpdateProfileCommandHandler{uowFactory: uowFactory}
}

// Handle processes the edit command and returns the updated profile.
func (h *UpdateProfileCommandHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*account.Profile, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.UserRepository()
	profile, err := repo.Get(ctx, cmd.Npub())
	if err != nil {
		return nil, err
	}

	profile.UpdateContact(cmd.DisplayName(), cmd.LightningAddress())

	if err = repo.Save(ctx, profile); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return profile, nil
}
