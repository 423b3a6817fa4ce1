package nostrlog

import (
	"context"
	"sort"

	"github.com/nbd-wtf/go-nostr"
	"golang.org/x/sync/errgroup"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/domain/services"
	"opencourier/internal/core/ports"
	"opencourier/internal/pkg/errs"
	"opencourier/internal/pkg/metrics"
)

// queryLimit bounds how many events a single filter pulls per relay.
const queryLimit = 1000

var _ ports.DeliveryRepository = &DeliveryRepository{}

// DeliveryRepository reconstructs delivery aggregates from relay events and
// publishes changes back as new events.
type DeliveryRepository struct {
	client        *Client
	reconstructor services.Reconstructor
}

// NewDeliveryRepository creates a log-backed delivery repository.
func NewDeliveryRepository(client *Client) *DeliveryRepository {
	return &DeliveryRepository{
		client:        client,
		reconstructor: services.NewReconstructor(),
	}
}

// Add publishes the root snapshot of a new delivery.
func (r *DeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	event, err := encodeRootEvent(aggregate.Snapshot())
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, event)
}

// Update republishes the root snapshot and the aggregate's bids, plus the
// transition record when the change was a status transition. Bid events use
// the bid id as their deduplication tag, so republishing the full list is
// idempotent on the relays.
//
// There is no compare-and-swap: a concurrent writer's root can be
// overwritten, which is the documented lost-update window of the log model.
func (r *DeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery, transition *delivery.StatusUpdate) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	rootEvent, err := encodeRootEvent(aggregate.Snapshot())
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, rootEvent); err != nil {
		return err
	}

	for _, bid := range aggregate.Bids() {
		bidEvent, err := encodeBidEvent(aggregate.ID(), bid)
		if err != nil {
			return err
		}
		if err := r.client.Publish(ctx, bidEvent); err != nil {
			return err
		}
	}

	if transition != nil {
		statusEvent, ok, err := encodeStatusEvent(*transition)
		if err != nil {
			return err
		}
		if ok {
			if err := r.client.Publish(ctx, statusEvent); err != nil {
				return err
			}
		}
	}

	return nil
}

// Get reconstructs one delivery from the events currently visible on the
// relays.
func (r *DeliveryRepository) Get(ctx context.Context, id string) (*delivery.Delivery, error) {
	var rootEvents, bidEvents, statusEvents []*nostr.Event

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rootEvents = r.client.QueryAll(gctx, nostr.Filter{
			Kinds: []int{KindDeliveryRoot},
			Tags:  nostr.TagMap{"d": []string{id}},
			Limit: queryLimit,
		})
		return nil
	})
	g.Go(func() error {
		bidEvents = r.client.QueryAll(gctx, nostr.Filter{
			Kinds: []int{KindBid},
			Limit: queryLimit,
		})
		return nil
	})
	g.Go(func() error {
		statusEvents = r.client.QueryAll(gctx, nostr.Filter{
			Kinds: statusKinds(),
			Limit: queryLimit,
		})
		return nil
	})
	_ = g.Wait()

	roots := make([]services.RootRecord, 0, len(rootEvents))
	for _, event := range rootEvents {
		if record, ok := decodeRootEvent(event); ok && record.Snapshot.ID == id {
			roots = append(roots, record)
		}
	}

	aggregate, err := r.reconstructor.ReduceDelivery(roots,
		updatesForDelivery(statusEvents, id), bidsForDelivery(bidEvents, id))
	if err != nil {
		return nil, errs.NewObjectNotFoundErrorWithCause("deliveryId", id, err)
	}

	metrics.ReconstructionsTotal.Inc()
	return aggregate, nil
}

// List reconstructs every delivery visible on the relays and applies the
// filter. Three queries cover the whole log regardless of how many
// deliveries exist.
func (r *DeliveryRepository) List(ctx context.Context, filter ports.DeliveryFilter) ([]*delivery.Delivery, error) {
	var rootEvents, bidEvents, statusEvents []*nostr.Event

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rootEvents = r.client.QueryAll(gctx, nostr.Filter{
			Kinds: []int{KindDeliveryRoot},
			Limit: queryLimit,
		})
		return nil
	})
	g.Go(func() error {
		bidEvents = r.client.QueryAll(gctx, nostr.Filter{
			Kinds: []int{KindBid},
			Limit: queryLimit,
		})
		return nil
	})
	g.Go(func() error {
		statusEvents = r.client.QueryAll(gctx, nostr.Filter{
			Kinds: statusKinds(),
			Limit: queryLimit,
		})
		return nil
	})
	_ = g.Wait()

	rootsByDelivery := make(map[string][]services.RootRecord)
	for _, event := range rootEvents {
		if record, ok := decodeRootEvent(event); ok {
			rootsByDelivery[record.Snapshot.ID] = append(rootsByDelivery[record.Snapshot.ID], record)
		}
	}

	aggregates := make([]*delivery.Delivery, 0, len(rootsByDelivery))
	for id, roots := range rootsByDelivery {
		aggregate, err := r.reconstructor.ReduceDelivery(roots,
			updatesForDelivery(statusEvents, id), bidsForDelivery(bidEvents, id))
		if err != nil {
			continue
		}
		metrics.ReconstructionsTotal.Inc()

		if matchesFilter(aggregate, filter) {
			aggregates = append(aggregates, aggregate)
		}
	}

	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].CreatedAt() > aggregates[j].CreatedAt()
	})
	return aggregates, nil
}

// GetAllOpenExpiredBefore returns Open deliveries whose expiry has passed.
func (r *DeliveryRepository) GetAllOpenExpiredBefore(ctx context.Context, now int64) ([]*delivery.Delivery, error) {
	open := delivery.Open
	aggregates, err := r.List(ctx, ports.DeliveryFilter{Status: &open})
	if err != nil {
		return nil, err
	}

	overdue := make([]*delivery.Delivery, 0)
	for _, aggregate := range aggregates {
		if expiresAt := aggregate.ExpiresAt(); expiresAt != nil && *expiresAt < now {
			overdue = append(overdue, aggregate)
		}
	}
	return overdue, nil
}

func bidsForDelivery(events []*nostr.Event, deliveryID string) []services.BidRecord {
	records := make([]services.BidRecord, 0)
	for _, event := range events {
		if tagValue(event, "delivery_id") != deliveryID {
			continue
		}
		if record, ok := decodeBidEvent(event); ok {
			records = append(records, record)
		}
	}
	return records
}

func updatesForDelivery(events []*nostr.Event, deliveryID string) []services.UpdateRecord {
	records := make([]services.UpdateRecord, 0)
	for _, event := range events {
		if tagValue(event, "delivery_id") != deliveryID {
			continue
		}
		records = append(records, decodeStatusEvent(event))
	}
	return records
}

func matchesFilter(aggregate *delivery.Delivery, filter ports.DeliveryFilter) bool {
	if filter.Status != nil && aggregate.Status() != *filter.Status {
		return false
	}
	if filter.Sender != "" && aggregate.Sender() != filter.Sender {
		return false
	}
	if filter.Courier != "" {
		accepted := aggregate.AcceptedBidRecord()
		if accepted == nil || accepted.Courier != filter.Courier {
			return false
		}
	}
	return true
}
