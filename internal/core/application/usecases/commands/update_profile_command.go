package commands

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/guard"
)

var ErrUpdateProfileCommandIsNotConstructed = errors.New(
	"UpdateProfileCommand must be created via NewUpdateProfileCommand constructor",
)

// UpdateProfileCommand represents a user editing their contact details. Nil
// fields are left unchanged. A profile that does not exist yet is created
// with defaults first.
type UpdateProfileCommand struct { //nolint:recvcheck //using for validation
	npub             string
	displayName      *string
	lightningAddress *string

	guard guard.ConstructorGuard
}

// NewUpdateProfileCommand creates a command to update a user profile.
func NewUpdateProfileCommand(npub string, displayName, lightningAddress *string) (UpdateProfileCommand, error) {
	if err := kernel.ValidateNpub(npub); err != nil {
		return UpdateProfileCommand{}, err
	}

	return UpdateProfileCommand{
		npub:             npub,
		displayName:      displayName,
		lightningAddress: lightningAddress,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateProfileCommand) Validate() error {
	return c.guard.Validate(ErrUpdateProfileCommandIsNotConstructed)
}

func (c UpdateProfileCommand) Npub() string              { return c.npub }
func (c UpdateProfileCommand) DisplayName() *string      { return c.displayName }
func (c UpdateProfileCommand) LightningAddress() *string { return c.lightningAddress }
