package commands_test

import (
	"testing"

	"opencourier/internal/core/application/usecases/commands"
	"opencourier/internal/core/domain/model/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptBidCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := openDelivery(t)
	bid, err := delivery.NewBid("npub1courier", 4500, "2h", 4.5, 3, nil, 1700000100)
	require.NoError(t, err)
	require.NoError(t, aggregate.PlaceBid(bid))

	cmd, err := commands.NewAcceptBidCommand(aggregate.ID(), 0)
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate, mock.MatchedBy(func(tr *delivery.StatusUpdate) bool {
		return tr != nil && tr.Status == delivery.Accepted &&
			tr.AcceptedBid != nil && *tr.AcceptedBid == bid.ID
	})).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptBidCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.Accepted, updated.Status())
	require.NotNil(t, updated.AcceptedBid())
	assert.Equal(t, bid.ID, *updated.AcceptedBid())
	assert.Equal(t, uint64(4500), updated.OfferAmount(), "repriced to the accepted bid")
	repo.AssertExpectations(t)
}

func TestAcceptBidCommandHandler_Handle_BadIndex(t *testing.T) {
	ctx := t.Context()
	aggregate := openDelivery(t)
	cmd, err := commands.NewAcceptBidCommand(aggregate.ID(), 3)
	require.NoError(t, err)

	repo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptBidCommandHandler(factory)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, delivery.Open, aggregate.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestNewAcceptBidCommand_NegativeIndex(t *testing.T) {
	_, err := commands.NewAcceptBidCommand("delivery_abc", -1)
	require.Error(t, err)
}
