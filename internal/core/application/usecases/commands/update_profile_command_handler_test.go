package commands_test

import (
	"testing"

	"opencourier/internal/core/application/usecases/commands"
	"opencourier/internal/core/domain/model/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileCommandHandler_Handle_UpsertsUnseenProfile(t *testing.T) {
	ctx := t.Context()
	profile, err := account.NewProfile("npub1newcomer")
	require.NoError(t, err)

	cmd, err := commands.NewUpdateProfileCommand("npub1newcomer",
		strPtr("Road Runner"), strPtr("runner@getalby.com"))
	require.NoError(t, err)

	repo := new(MockUserRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("UserRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, "npub1newcomer").Return(profile, nil).Once()
	repo.On("Save", mock.Anything, profile).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateProfileCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, updated.DisplayName())
	assert.Equal(t, "Road Runner", *updated.DisplayName())
	require.NotNil(t, updated.LightningAddress())
	assert.Equal(t, "runner@getalby.com", *updated.LightningAddress())
	repo.AssertExpectations(t)
}

func TestUpdateProfileCommandHandler_Handle_KeepsReputationUntouched(t *testing.T) {
	ctx := t.Context()
	profile, err := account.NewProfile("npub1courier")
	require.NoError(t, err)
	rating := 3.0
	require.NoError(t, profile.RecordCompletion(&rating, 5000))

	cmd, err := commands.NewUpdateProfileCommand("npub1courier", strPtr("Speedy"), nil)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("UserRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, "npub1courier").Return(profile, nil).Once()
	repo.On("Save", mock.Anything, profile).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateProfileCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.InDelta(t, 3.0, updated.Reputation(), 0.0001)
	assert.Equal(t, uint32(1), updated.CompletedDeliveries())
}
