package commands_test

import (
	"errors"
	"testing"

	"opencourier/internal/core/application/usecases/commands"
	"opencourier/internal/core/domain/model/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	sender, pickup, dropoff, packages, amount := validCreateArgs()
	cmd, err := commands.NewCreateDeliveryCommand(sender, pickup, dropoff, packages,
		amount, nil, "today", nil)
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateDeliveryCommandHandler(factory)
	aggregate, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, aggregate)
	assert.Equal(t, delivery.Open, aggregate.Status())
	assert.Equal(t, sender, aggregate.Sender())
	require.NotNil(t, aggregate.ExpiresAt(), "a default expiry must be applied")
	assert.Greater(t, *aggregate.ExpiresAt(), aggregate.CreatedAt())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_KeepsExplicitExpiry(t *testing.T) {
	ctx := t.Context()
	sender, pickup, dropoff, packages, amount := validCreateArgs()
	explicit := int64(1900000000)
	cmd, err := commands.NewCreateDeliveryCommand(sender, pickup, dropoff, packages,
		amount, nil, "today", &explicit)
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(repo).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateDeliveryCommandHandler(factory)
	aggregate, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, aggregate.ExpiresAt())
	assert.Equal(t, explicit, *aggregate.ExpiresAt())
}

func TestCreateDeliveryCommandHandler_Handle_InvalidCommand(t *testing.T) {
	factory := new(MockDeliveryUoWFactory)
	h := commands.NewCreateDeliveryCommandHandler(factory)

	_, err := h.Handle(t.Context(), commands.CreateDeliveryCommand{})

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateDeliveryCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	sender, pickup, dropoff, packages, amount := validCreateArgs()
	cmd, err := commands.NewCreateDeliveryCommand(sender, pickup, dropoff, packages,
		amount, nil, "", nil)
	require.NoError(t, err)

	repoErr := errors.New("relay unreachable")
	repo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(repo).Once()
	repo.On("Add", mock.Anything, mock.Anything).Return(repoErr).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateDeliveryCommandHandler(factory)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, repoErr)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
