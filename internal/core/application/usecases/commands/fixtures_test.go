package commands_test

import (
	"testing"

	"opencourier/internal/core/domain/model/delivery"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func openDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()

	pickup, err := delivery.NewLocation("pickup address", nil, nil)
	require.NoError(t, err)
	dropoff, err := delivery.NewLocation("dropoff address", nil, nil)
	require.NoError(t, err)

	aggregate, err := delivery.NewDelivery("npub1sender", pickup, dropoff,
		[]delivery.Package{{Size: "small", Description: "keys"}},
		5000, nil, "anytime", nil, 1700000000)
	require.NoError(t, err)
	return aggregate
}

func acceptedDelivery(t *testing.T, courier string) *delivery.Delivery {
	t.Helper()

	aggregate := openDelivery(t)
	bid, err := delivery.NewBid(courier, 4500, "2h", 4.5, 3, nil, 1700000100)
	require.NoError(t, err)
	require.NoError(t, aggregate.PlaceBid(bid))
	require.NoError(t, aggregate.AcceptBid(0))
	return aggregate
}
