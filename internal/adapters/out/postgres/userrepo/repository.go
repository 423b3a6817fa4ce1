package userrepo

import (
	"context"
	"errors"

	"opencourier/internal/core/domain/model/account"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB, tracker aggregateTracker) *GormUserRepository {
	return &GormUserRepository{
		db:      db,
		tracker: tracker,
	}
}

// Get retrieves the profile for npub. An unseen npub yields a fresh default
// profile rather than an error.
func (r *GormUserRepository) Get(ctx context.Context, npub string) (*account.Profile, error) {
	var dto ProfileDTO
	if err := r.db.WithContext(ctx).First(&dto, "npub = ?", npub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account.NewProfile(npub)
		}
		return nil, err
	}

	return toDomain(dto), nil
}

// Save upserts the profile.
func (r *GormUserRepository) Save(ctx context.Context, profile *account.Profile) error {
	dto := fromDomain(profile)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(profile.Npub(), profile)
	return nil
}
