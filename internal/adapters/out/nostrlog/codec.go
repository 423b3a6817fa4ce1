package nostrlog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/domain/services"
	"opencourier/internal/pkg/metrics"
)

// Event kind codes of the marketplace wire contract.
const (
	KindDeliveryRoot    = 35000
	KindBid             = 35001
	KindStatusAccepted  = 35002
	KindStatusStarted   = 35003
	KindStatusInTransit = 35004
	KindStatusCompleted = 35005
	KindStatusConfirmed = 35006
	KindProfile         = 35009
)

func statusKinds() []int {
	return []int{
		KindStatusAccepted,
		KindStatusStarted,
		KindStatusInTransit,
		KindStatusCompleted,
		KindStatusConfirmed,
	}
}

// statusKind maps a target status to its event kind. Statuses without a
// dedicated kind (the terminal Expired, Disputed) are carried by a root
// republish instead.
func statusKind(status delivery.Status) (int, bool) {
	switch status {
	case delivery.Accepted:
		return KindStatusAccepted, true
	case delivery.InTransit:
		return KindStatusInTransit, true
	case delivery.Completed:
		return KindStatusCompleted, true
	case delivery.Confirmed:
		return KindStatusConfirmed, true
	default:
		return 0, false
	}
}

// kindStatus maps an event kind back to the status it announces. The legacy
// Started kind is treated as Open, matching older publishers.
func kindStatus(kind int) delivery.Status {
	switch kind {
	case KindStatusAccepted:
		return delivery.Accepted
	case KindStatusInTransit:
		return delivery.InTransit
	case KindStatusCompleted:
		return delivery.Completed
	case KindStatusConfirmed:
		return delivery.Confirmed
	default:
		return delivery.Open
	}
}

func encodeRootEvent(snapshot delivery.Snapshot) (*nostr.Event, error) {
	content, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding delivery root: %w", err)
	}

	return &nostr.Event{
		Kind:      KindDeliveryRoot,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Content:   string(content),
		Tags: nostr.Tags{
			{"d", snapshot.ID},
			{"sender", snapshot.Sender},
			{"status", snapshot.Status.String()},
			{"amount", strconv.FormatUint(snapshot.OfferAmount, 10)},
			{"created_at", strconv.FormatInt(snapshot.CreatedAt, 10)},
		},
	}, nil
}

func encodeBidEvent(deliveryID string, bid delivery.Bid) (*nostr.Event, error) {
	content, err := json.Marshal(bid)
	if err != nil {
		return nil, fmt.Errorf("encoding bid: %w", err)
	}

	return &nostr.Event{
		Kind:      KindBid,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Content:   string(content),
		Tags: nostr.Tags{
			{"d", bid.ID},
			{"delivery_id", deliveryID},
			{"courier", bid.Courier},
			{"amount", strconv.FormatUint(bid.Amount, 10)},
		},
	}, nil
}

func encodeStatusEvent(update delivery.StatusUpdate) (*nostr.Event, bool, error) {
	kind, ok := statusKind(update.Status)
	if !ok {
		return nil, false, nil
	}

	content, err := json.Marshal(update)
	if err != nil {
		return nil, false, fmt.Errorf("encoding status update: %w", err)
	}

	return &nostr.Event{
		Kind:      kind,
		CreatedAt: nostr.Timestamp(update.Timestamp),
		Content:   string(content),
		Tags: nostr.Tags{
			{"delivery_id", update.DeliveryID},
			{"status", update.Status.String()},
			{"timestamp", strconv.FormatInt(update.Timestamp, 10)},
		},
	}, true, nil
}

func encodeProfileEvent(snapshot account.Snapshot) (*nostr.Event, error) {
	content, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	return &nostr.Event{
		Kind:      KindProfile,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Content:   string(content),
		Tags: nostr.Tags{
			{"d", snapshot.Npub},
			{"reputation", strconv.FormatFloat(snapshot.Reputation, 'f', -1, 64)},
			{"completed_deliveries", strconv.FormatUint(uint64(snapshot.CompletedDeliveries), 10)},
		},
	}, nil
}

// decodeRootEvent parses a root event into a reconstruction record.
// Malformed content is skipped, not fatal.
func decodeRootEvent(event *nostr.Event) (services.RootRecord, bool) {
	var snapshot delivery.Snapshot
	if err := json.Unmarshal([]byte(event.Content), &snapshot); err != nil || snapshot.ID == "" {
		metrics.EventsSkippedTotal.Inc()
		return services.RootRecord{}, false
	}

	return services.RootRecord{
		EventID:   event.ID,
		CreatedAt: int64(event.CreatedAt),
		Snapshot:  snapshot,
	}, true
}

func decodeBidEvent(event *nostr.Event) (services.BidRecord, bool) {
	var bid delivery.Bid
	if err := json.Unmarshal([]byte(event.Content), &bid); err != nil || bid.ID == "" {
		metrics.EventsSkippedTotal.Inc()
		return services.BidRecord{}, false
	}

	return services.BidRecord{
		EventID:   event.ID,
		CreatedAt: int64(event.CreatedAt),
		Bid:       bid,
	}, true
}

// decodeStatusEvent parses a status event. Content that fails to parse
// degrades to a bare transition derived from the event kind and creation
// time, so old publishers that only sent tags still replay correctly.
func decodeStatusEvent(event *nostr.Event) services.UpdateRecord {
	update := delivery.StatusUpdate{}
	if err := json.Unmarshal([]byte(event.Content), &update); err != nil {
		update = delivery.StatusUpdate{
			Status:    kindStatus(event.Kind),
			Timestamp: int64(event.CreatedAt),
		}
	}

	if err := update.Status.Validate(); err != nil {
		update.Status = kindStatus(event.Kind)
	}
	if update.Timestamp == 0 {
		update.Timestamp = int64(event.CreatedAt)
	}
	if update.DeliveryID == "" {
		update.DeliveryID = tagValue(event, "delivery_id")
	}

	return services.UpdateRecord{EventID: event.ID, Update: update}
}

func decodeProfileEvent(event *nostr.Event) (services.ProfileRecord, bool) {
	var snapshot account.Snapshot
	if err := json.Unmarshal([]byte(event.Content), &snapshot); err != nil || snapshot.Npub == "" {
		metrics.EventsSkippedTotal.Inc()
		return services.ProfileRecord{}, false
	}

	return services.ProfileRecord{
		EventID:   event.ID,
		CreatedAt: int64(event.CreatedAt),
		Snapshot:  snapshot,
	}, true
}

func tagValue(event *nostr.Event, name string) string {
	for _, tag := range event.Tags {
		if len(tag) >= 2 && tag[0] == name {
			return tag[1]
		}
	}
	return ""
}
