package services_test

import (
	"math/rand"
	"testing"

	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func i64Ptr(v int64) *int64     { return &v }
func f64Ptr(v float64) *float64 { return &v }

func rootRecord(eventID string, createdAt int64, timeWindow string) services.RootRecord {
	return services.RootRecord{
		EventID:   eventID,
		CreatedAt: createdAt,
		Snapshot: delivery.Snapshot{
			ID:          "delivery_1",
			Sender:      "npub1sender",
			Pickup:      delivery.Location{Address: "a"},
			Dropoff:     delivery.Location{Address: "b"},
			Packages:    []delivery.Package{{Size: "small", Description: "keys"}},
			OfferAmount: 5000,
			TimeWindow:  timeWindow,
			Status:      delivery.Open,
			CreatedAt:   createdAt,
		},
	}
}

func bidRecord(eventID string, createdAt int64, bid delivery.Bid) services.BidRecord {
	return services.BidRecord{EventID: eventID, CreatedAt: createdAt, Bid: bid}
}

func TestReconstructor_ReduceDelivery(t *testing.T) {
	reconstructor := services.NewReconstructor()

	t.Run("should fail without a root event", func(t *testing.T) {
		_, err := reconstructor.ReduceDelivery(nil, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrNoRootEvent)
	})

	t.Run("should pick the newest root snapshot", func(t *testing.T) {
		roots := []services.RootRecord{
			rootRecord("ev_b", 100, "stale"),
			rootRecord("ev_a", 200, "fresh"),
		}

		aggregate, err := reconstructor.ReduceDelivery(roots, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, "fresh", aggregate.TimeWindow())
	})

	t.Run("should break root ties by smallest event id", func(t *testing.T) {
		roots := []services.RootRecord{
			rootRecord("ev_z", 100, "loser"),
			rootRecord("ev_a", 100, "winner"),
			rootRecord("ev_m", 100, "loser too"),
		}

		aggregate, err := reconstructor.ReduceDelivery(roots, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, "winner", aggregate.TimeWindow())
	})

	t.Run("should overlay updates in timestamp order with field-level wins", func(t *testing.T) {
		roots := []services.RootRecord{rootRecord("ev_root", 100, "w")}
		updates := []services.UpdateRecord{
			{
				EventID: "ev_completed",
				Update: delivery.StatusUpdate{
					DeliveryID:  "delivery_1",
					Status:      delivery.Completed,
					Timestamp:   300,
					CompletedAt: i64Ptr(300),
				},
			},
			{
				EventID: "ev_accepted",
				Update: delivery.StatusUpdate{
					DeliveryID:  "delivery_1",
					Status:      delivery.Accepted,
					Timestamp:   200,
					AcceptedBid: strPtr("bid_1"),
				},
			},
		}

		aggregate, err := reconstructor.ReduceDelivery(roots, updates, nil)

		require.NoError(t, err)
		assert.Equal(t, delivery.Completed, aggregate.Status())
		require.NotNil(t, aggregate.AcceptedBid(), "a later update must not erase an earlier accepted bid")
		assert.Equal(t, "bid_1", *aggregate.AcceptedBid())
		require.NotNil(t, aggregate.CompletedAt())
		assert.Equal(t, int64(300), *aggregate.CompletedAt())
	})

	t.Run("should break update ties by event id", func(t *testing.T) {
		roots := []services.RootRecord{rootRecord("ev_root", 100, "w")}
		updates := []services.UpdateRecord{
			{EventID: "ev_b", Update: delivery.StatusUpdate{Status: delivery.InTransit, Timestamp: 200}},
			{EventID: "ev_a", Update: delivery.StatusUpdate{Status: delivery.Accepted, Timestamp: 200}},
		}

		aggregate, err := reconstructor.ReduceDelivery(roots, updates, nil)

		require.NoError(t, err)
		assert.Equal(t, delivery.InTransit, aggregate.Status())
	})

	t.Run("should deduplicate bids preferring the newer event", func(t *testing.T) {
		roots := []services.RootRecord{rootRecord("ev_root", 100, "w")}
		bids := []services.BidRecord{
			bidRecord("ev_1", 150, delivery.Bid{ID: "bid_1", Courier: "npub1a", Amount: 100, CreatedAt: 150}),
			bidRecord("ev_2", 250, delivery.Bid{ID: "bid_1", Courier: "npub1a", Amount: 90, CreatedAt: 150}),
			bidRecord("ev_3", 200, delivery.Bid{ID: "bid_2", Courier: "npub1b", Amount: 80, CreatedAt: 120}),
		}

		aggregate, err := reconstructor.ReduceDelivery(roots, nil, bids)

		require.NoError(t, err)
		require.Len(t, aggregate.Bids(), 2)
		assert.Equal(t, "bid_2", aggregate.Bids()[0].ID, "bids sorted by submission time")
		assert.Equal(t, "bid_1", aggregate.Bids()[1].ID)
		assert.Equal(t, uint64(90), aggregate.Bids()[1].Amount, "newer duplicate wins")
	})

	t.Run("should break bid duplicate ties by smaller event id", func(t *testing.T) {
		roots := []services.RootRecord{rootRecord("ev_root", 100, "w")}
		bids := []services.BidRecord{
			bidRecord("ev_z", 150, delivery.Bid{ID: "bid_1", Courier: "npub1a", Amount: 100, CreatedAt: 150}),
			bidRecord("ev_a", 150, delivery.Bid{ID: "bid_1", Courier: "npub1a", Amount: 90, CreatedAt: 150}),
		}

		aggregate, err := reconstructor.ReduceDelivery(roots, nil, bids)

		require.NoError(t, err)
		require.Len(t, aggregate.Bids(), 1)
		assert.Equal(t, uint64(90), aggregate.Bids()[0].Amount)
	})

	t.Run("should keep a stable bid order for equal submission times", func(t *testing.T) {
		roots := []services.RootRecord{rootRecord("ev_root", 100, "w")}
		bids := []services.BidRecord{
			bidRecord("ev_1", 150, delivery.Bid{ID: "bid_c", Courier: "npub1c", Amount: 100, CreatedAt: 150}),
			bidRecord("ev_2", 150, delivery.Bid{ID: "bid_a", Courier: "npub1a", Amount: 95, CreatedAt: 150}),
			bidRecord("ev_3", 150, delivery.Bid{ID: "bid_b", Courier: "npub1b", Amount: 90, CreatedAt: 150}),
		}

		for trial := 0; trial < 25; trial++ {
			aggregate, err := reconstructor.ReduceDelivery(roots, nil, bids)

			require.NoError(t, err)
			require.Len(t, aggregate.Bids(), 3)
			assert.Equal(t, "bid_a", aggregate.Bids()[0].ID)
			assert.Equal(t, "bid_b", aggregate.Bids()[1].ID)
			assert.Equal(t, "bid_c", aggregate.Bids()[2].ID)
		}
	})

	t.Run("should be order independent and idempotent", func(t *testing.T) {
		roots := []services.RootRecord{
			rootRecord("ev_old", 100, "stale"),
			rootRecord("ev_new", 200, "fresh"),
		}
		updates := []services.UpdateRecord{
			{EventID: "ev_u1", Update: delivery.StatusUpdate{Status: delivery.Accepted, Timestamp: 300, AcceptedBid: strPtr("bid_1")}},
			{EventID: "ev_u2", Update: delivery.StatusUpdate{Status: delivery.InTransit, Timestamp: 400}},
			{EventID: "ev_u3", Update: delivery.StatusUpdate{Status: delivery.Completed, Timestamp: 500, CompletedAt: i64Ptr(500)}},
		}
		bids := []services.BidRecord{
			bidRecord("ev_b1", 250, delivery.Bid{ID: "bid_1", Courier: "npub1a", Amount: 100, CreatedAt: 250}),
			bidRecord("ev_b2", 260, delivery.Bid{ID: "bid_2", Courier: "npub1b", Amount: 95, CreatedAt: 260}),
		}

		reference, err := services.NewReconstructor().ReduceDelivery(roots, updates, bids)
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(42))
		for trial := 0; trial < 25; trial++ {
			shuffledRoots := append([]services.RootRecord(nil), roots...)
			shuffledUpdates := append([]services.UpdateRecord(nil), updates...)
			shuffledBids := append([]services.BidRecord(nil), bids...)

			// duplicate a random record from each set
			shuffledRoots = append(shuffledRoots, shuffledRoots[rng.Intn(len(shuffledRoots))])
			shuffledUpdates = append(shuffledUpdates, shuffledUpdates[rng.Intn(len(shuffledUpdates))])
			shuffledBids = append(shuffledBids, shuffledBids[rng.Intn(len(shuffledBids))])

			rng.Shuffle(len(shuffledRoots), func(i, j int) {
				shuffledRoots[i], shuffledRoots[j] = shuffledRoots[j], shuffledRoots[i]
			})
			rng.Shuffle(len(shuffledUpdates), func(i, j int) {
				shuffledUpdates[i], shuffledUpdates[j] = shuffledUpdates[j], shuffledUpdates[i]
			})
			rng.Shuffle(len(shuffledBids), func(i, j int) {
				shuffledBids[i], shuffledBids[j] = shuffledBids[j], shuffledBids[i]
			})

			aggregate, err := reconstructor.ReduceDelivery(shuffledRoots, shuffledUpdates, shuffledBids)
			require.NoError(t, err)
			assert.Equal(t, reference.Snapshot(), aggregate.Snapshot())
		}
	})
}

func TestReconstructor_ReduceProfile(t *testing.T) {
	reconstructor := services.NewReconstructor()

	t.Run("should fail on empty set", func(t *testing.T) {
		_, err := reconstructor.ReduceProfile(nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrNoRootEvent)
	})

	t.Run("should pick the newest snapshot with id tie-break", func(t *testing.T) {
		records := []services.ProfileRecord{
			{EventID: "ev_b", CreatedAt: 100, Snapshot: account.Snapshot{Npub: "npub1x", Reputation: 3.0}},
			{EventID: "ev_c", CreatedAt: 200, Snapshot: account.Snapshot{Npub: "npub1x", Reputation: 4.0, CompletedDeliveries: 2}},
			{EventID: "ev_a", CreatedAt: 200, Snapshot: account.Snapshot{Npub: "npub1x", Reputation: 4.2, CompletedDeliveries: 3}},
		}

		profile, err := reconstructor.ReduceProfile(records)

		require.NoError(t, err)
		assert.Equal(t, 4.2, profile.Reputation())
		assert.Equal(t, uint32(3), profile.CompletedDeliveries())
	})

	t.Run("should restore a rating history that keeps averaging correctly", func(t *testing.T) {
		records := []services.ProfileRecord{
			{EventID: "ev_a", CreatedAt: 100, Snapshot: account.Snapshot{
				Npub: "npub1x", Reputation: 4.0, CompletedDeliveries: 1, TotalEarnings: 1000,
			}},
		}

		profile, err := reconstructor.ReduceProfile(records)
		require.NoError(t, err)

		require.NoError(t, profile.RecordCompletion(f64Ptr(2.0), 500))

		assert.InDelta(t, 3.0, profile.Reputation(), 1e-9)
		assert.Equal(t, uint64(1500), profile.TotalEarnings())
	})
}
