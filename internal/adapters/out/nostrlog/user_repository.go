package nostrlog

import (
	"context"
	"errors"

	"github.com/nbd-wtf/go-nostr"

	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/domain/services"
	"opencourier/internal/core/ports"
)

var _ ports.UserRepository = &UserRepository{}

// UserRepository reads and writes profile snapshots on the relays.
type UserRepository struct {
	client        *Client
	reconstructor services.Reconstructor
}

// NewUserRepository creates a log-backed user repository.
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{
		client:        client,
		reconstructor: services.NewReconstructor(),
	}
}

// Get returns the newest profile snapshot for the npub, or a fresh default
// profile when the log holds none.
func (r *UserRepository) Get(ctx context.Context, npub string) (*account.Profile, error) {
	events := r.client.QueryAll(ctx, nostr.Filter{
		Kinds: []int{KindProfile},
		Tags:  nostr.TagMap{"d": []string{npub}},
		Limit: queryLimit,
	})

	records := make([]services.ProfileRecord, 0, len(events))
	for _, event := range events {
		if record, ok := decodeProfileEvent(event); ok && record.Snapshot.Npub == npub {
			records = append(records, record)
		}
	}

	profile, err := r.reconstructor.ReduceProfile(records)
	if err != nil {
		if errors.Is(err, services.ErrNoRootEvent) {
			return account.NewProfile(npub)
		}
		return nil, err
	}
	return profile, nil
}

// Save publishes the profile snapshot. The "d" tag makes it replaceable, so
// relays keep only the newest version per identity.
func (r *UserRepository) Save(ctx context.Context, profile *account.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	event, err := encodeProfileEvent(profile.Snapshot())
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, event)
}
