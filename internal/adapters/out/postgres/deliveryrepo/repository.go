package deliveryrepo

import (
	"context"
	"errors"

	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/ports"
	"opencourier/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery to the database.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing delivery to the database. The database is
// authoritative here, so the transition record carried for the event log
// backend is not needed. Bids are replaced wholesale since the aggregate
// holds the complete list.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery, _ *delivery.StatusUpdate) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	var count int64
	if err := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("deliveryId", dto.ID)
	}

	if err := r.db.WithContext(ctx).
		Where("delivery_id = ?", dto.ID).Delete(&BidDTO{}).Error; err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a delivery by ID, including its bids.
func (r *GormDeliveryRepository) Get(ctx context.Context, id string) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).Preload("Bids").First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deliveryId", id)
		}
		return nil, err
	}

	return toDomain(dto), nil
}

// List retrieves deliveries matching the filter, newest first.
func (r *GormDeliveryRepository) List(ctx context.Context, filter ports.DeliveryFilter) ([]*delivery.Delivery, error) {
	query := r.db.WithContext(ctx).Model(&DeliveryDTO{}).Preload("Bids")

	if filter.Status != nil {
		query = query.Where("deliveries.status = ?", int(*filter.Status))
	}
	if filter.Sender != "" {
		query = query.Where("deliveries.sender = ?", filter.Sender)
	}
	if filter.Courier != "" {
		query = query.Joins("JOIN bids ON bids.id = deliveries.accepted_bid").
			Where("bids.courier = ?", filter.Courier)
	}

	var dtos []DeliveryDTO
	if err := query.Order("deliveries.created_at DESC, deliveries.id ASC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		deliveries = append(deliveries, toDomain(dto))
	}
	return deliveries, nil
}

// GetAllOpenExpiredBefore retrieves open deliveries whose expiry has passed.
func (r *GormDeliveryRepository) GetAllOpenExpiredBefore(ctx context.Context, now int64) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	if err := r.db.WithContext(ctx).Preload("Bids").
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", int(delivery.Open), now).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		deliveries = append(deliveries, toDomain(dto))
	}
	return deliveries, nil
}
