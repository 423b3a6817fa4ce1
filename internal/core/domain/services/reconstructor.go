package services

import (
	"errors"
	"sort"

	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/domain/model/delivery"
)

// ErrNoRootEvent is returned when reconstruction finds no root snapshot for
// the requested aggregate. Callers map this to a not-found result.
var ErrNoRootEvent = errors.New("no root event for aggregate")

// RootRecord is one root snapshot event pulled from the log.
type RootRecord struct {
	// EventID is the log event's id, used as a deterministic tie-breaker.
	EventID string

	// CreatedAt is the log event's creation time, not the aggregate's.
	CreatedAt int64

	Snapshot delivery.Snapshot
}

// UpdateRecord is one status transition event pulled from the log.
type UpdateRecord struct {
	EventID string
	Update  delivery.StatusUpdate
}

// BidRecord is one bid event pulled from the log.
type BidRecord struct {
	EventID   string
	CreatedAt int64
	Bid       delivery.Bid
}

// ProfileRecord is one profile snapshot event pulled from the log.
type ProfileRecord struct {
	EventID   string
	CreatedAt int64
	Snapshot  account.Snapshot
}

// Reconstructor rebuilds aggregates from unordered event sets. The reduction
// is pure and deterministic: any permutation of the same input set, with or
// without duplicates, yields the same aggregate, so replaying a partially
// replicated log is safe.
type Reconstructor struct{}

// NewReconstructor creates a new Reconstructor instance.
func NewReconstructor() Reconstructor {
	return Reconstructor{}
}

// ReduceDelivery merges an unordered event set into a single aggregate:
//
//  1. The newest root snapshot wins (largest event creation time, ties broken
//     by the lexicographically smallest event id).
//  2. Status updates are overlaid in ascending timestamp order, same
//     tie-break. The status field is overwritten unconditionally; overlay
//     fields only when the update mentions them.
//  3. Bids are deduplicated by bid id, keeping the record with the larger
//     event creation time (ties broken by smaller event id), then sorted by
//     bid submission time.
//
// Returns ErrNoRootEvent when the set contains no root snapshot.
func (r Reconstructor) ReduceDelivery(roots []RootRecord, updates []UpdateRecord, bids []BidRecord) (*delivery.Delivery, error) {
	root, ok := newestRoot(roots)
	if !ok {
		return nil, ErrNoRootEvent
	}

	aggregate := delivery.RestoreDelivery(root.Snapshot)

	sorted := make([]UpdateRecord, len(updates))
	copy(sorted, updates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Update.Timestamp != sorted[j].Update.Timestamp {
			return sorted[i].Update.Timestamp < sorted[j].Update.Timestamp
		}
		return sorted[i].EventID < sorted[j].EventID
	})
	for _, record := range sorted {
		aggregate.ApplyUpdate(record.Update)
	}

	aggregate.SetBids(dedupBids(bids))
	return aggregate, nil
}

// ReduceProfile picks the newest profile snapshot from an unordered event
// set, with the same winner rule as delivery roots. Returns ErrNoRootEvent
// when the set is empty.
func (r Reconstructor) ReduceProfile(records []ProfileRecord) (*account.Profile, error) {
	var winner *ProfileRecord
	for i := range records {
		if winner == nil || newerRecord(records[i].CreatedAt, records[i].EventID, winner.CreatedAt, winner.EventID) {
			winner = &records[i]
		}
	}
	if winner == nil {
		return nil, ErrNoRootEvent
	}
	return account.RestoreProfile(winner.Snapshot), nil
}

func newestRoot(roots []RootRecord) (RootRecord, bool) {
	var winner *RootRecord
	for i := range roots {
		if winner == nil || newerRecord(roots[i].CreatedAt, roots[i].EventID, winner.CreatedAt, winner.EventID) {
			winner = &roots[i]
		}
	}
	if winner == nil {
		return RootRecord{}, false
	}
	return *winner, true
}

// newerRecord reports whether record a supersedes record b: larger creation
// time wins, equal times fall back to the smaller event id.
func newerRecord(aCreated int64, aID string, bCreated int64, bID string) bool {
	if aCreated != bCreated {
		return aCreated > bCreated
	}
	return aID < bID
}

func dedupBids(records []BidRecord) []delivery.Bid {
	byID := make(map[string]BidRecord, len(records))
	for _, record := range records {
		existing, seen := byID[record.Bid.ID]
		if !seen || newerRecord(record.CreatedAt, record.EventID, existing.CreatedAt, existing.EventID) {
			byID[record.Bid.ID] = record
		}
	}

	bids := make([]delivery.Bid, 0, len(byID))
	for _, record := range byID {
		bids = append(bids, record.Bid)
	}
	return bids
}
