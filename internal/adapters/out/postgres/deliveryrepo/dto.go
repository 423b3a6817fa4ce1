// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. It converts between the delivery aggregate and
// its relational representation, keeping bids in a child table so they can
// be queried by courier.
package deliveryrepo

import (
	"opencourier/internal/core/domain/model/delivery"
	"opencourier/internal/core/domain/model/kernel"
)

// DeliveryDTO represents the database structure for persisting delivery
// aggregates. Structured endpoints are embedded columns; packages and the
// proof of delivery are stored as jsonb since nothing queries inside them.
type DeliveryDTO struct {
	ID              string                    `gorm:"type:varchar(128);primaryKey"`
	Sender          string                    `gorm:"type:varchar(128);not null;index"`
	Pickup          LocationDTO               `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff         LocationDTO               `gorm:"embedded;embeddedPrefix:dropoff_"`
	Packages        []delivery.Package        `gorm:"type:jsonb;serializer:json"`
	OfferAmount     int64                     `gorm:"type:bigint;not null"`
	InsuranceAmount *int64                    `gorm:"type:bigint"`
	TimeWindow      string                    `gorm:"type:varchar(255)"`
	ExpiresAt       *int64                    `gorm:"type:bigint;index"`
	Status          int                       `gorm:"type:int;not null;index"`
	Bids            []BidDTO                  `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
	AcceptedBid     *string                   `gorm:"type:varchar(128)"`
	CreatedAt       int64                     `gorm:"type:bigint;not null;index"`
	DistanceMeters  *float64                  `gorm:"type:double precision"`
	ProofOfDelivery *delivery.ProofOfDelivery `gorm:"type:jsonb;serializer:json"`
	SenderRating    *float64                  `gorm:"type:double precision"`
	SenderFeedback  *string                   `gorm:"type:text"`
	CompletedAt     *int64                    `gorm:"type:bigint"`
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// LocationDTO represents an embedded delivery endpoint within the
// deliveries table.
type LocationDTO struct {
	Address      string   `gorm:"type:text;not null"`
	Lat          *float64 `gorm:"type:double precision"`
	Lng          *float64 `gorm:"type:double precision"`
	Instructions *string  `gorm:"type:text"`
}

// BidDTO represents the database structure for persisting bids. Links to the
// delivery via foreign key; the courier column is indexed so listings can be
// filtered by assigned courier.
type BidDTO struct {
	ID                  string  `gorm:"type:varchar(128);primaryKey"`
	DeliveryID          string  `gorm:"type:varchar(128);not null;index"`
	Courier             string  `gorm:"type:varchar(128);not null;index"`
	Amount              int64   `gorm:"type:bigint;not null"`
	EstimatedTime       string  `gorm:"type:varchar(255)"`
	Reputation          float64 `gorm:"type:double precision"`
	CompletedDeliveries int64   `gorm:"type:bigint"`
	Message             *string `gorm:"type:text"`
	CreatedAt           int64   `gorm:"type:bigint;not null"`
}

// TableName specifies the database table name for bid entities.
func (BidDTO) TableName() string {
	return "bids"
}

// fromDomain converts a delivery aggregate to its database representation.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	snapshot := aggregate.Snapshot()

	bids := make([]BidDTO, 0, len(snapshot.Bids))
	for _, bid := range snapshot.Bids {
		bids = append(bids, BidDTO{
			ID:                  bid.ID,
			DeliveryID:          snapshot.ID,
			Courier:             bid.Courier,
			Amount:              int64(bid.Amount),
			EstimatedTime:       bid.EstimatedTime,
			Reputation:          bid.Reputation,
			CompletedDeliveries: int64(bid.CompletedDeliveries),
			Message:             bid.Message,
			CreatedAt:           bid.CreatedAt,
		})
	}

	var insurance *int64
	if snapshot.InsuranceAmount != nil {
		raw := int64(*snapshot.InsuranceAmount)
		insurance = &raw
	}

	return DeliveryDTO{
		ID:              snapshot.ID,
		Sender:          snapshot.Sender,
		Pickup:          locationFromDomain(snapshot.Pickup),
		Dropoff:         locationFromDomain(snapshot.Dropoff),
		Packages:        snapshot.Packages,
		OfferAmount:     int64(snapshot.OfferAmount),
		InsuranceAmount: insurance,
		TimeWindow:      snapshot.TimeWindow,
		ExpiresAt:       snapshot.ExpiresAt,
		Status:          int(snapshot.Status),
		Bids:            bids,
		AcceptedBid:     snapshot.AcceptedBid,
		CreatedAt:       snapshot.CreatedAt,
		DistanceMeters:  snapshot.DistanceMeters,
		ProofOfDelivery: snapshot.ProofOfDelivery,
		SenderRating:    snapshot.SenderRating,
		SenderFeedback:  snapshot.SenderFeedback,
		CompletedAt:     snapshot.CompletedAt,
	}
}

// toDomain converts a database DTO to a delivery aggregate using
// RestoreDelivery.
func toDomain(dto DeliveryDTO) *delivery.Delivery {
	bids := make([]delivery.Bid, 0, len(dto.Bids))
	for _, bid := range dto.Bids {
		bids = append(bids, delivery.Bid{
			ID:                  bid.ID,
			Courier:             bid.Courier,
			Amount:              uint64(bid.Amount),
			EstimatedTime:       bid.EstimatedTime,
			Reputation:          bid.Reputation,
			CompletedDeliveries: uint32(bid.CompletedDeliveries),
			Message:             bid.Message,
			CreatedAt:           bid.CreatedAt,
		})
	}

	var insurance *uint64
	if dto.InsuranceAmount != nil {
		raw := uint64(*dto.InsuranceAmount)
		insurance = &raw
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:              dto.ID,
		Sender:          dto.Sender,
		Pickup:          locationToDomain(dto.Pickup),
		Dropoff:         locationToDomain(dto.Dropoff),
		Packages:        dto.Packages,
		OfferAmount:     uint64(dto.OfferAmount),
		InsuranceAmount: insurance,
		TimeWindow:      dto.TimeWindow,
		ExpiresAt:       dto.ExpiresAt,
		Status:          delivery.Status(dto.Status),
		Bids:            bids,
		AcceptedBid:     dto.AcceptedBid,
		CreatedAt:       dto.CreatedAt,
		DistanceMeters:  dto.DistanceMeters,
		ProofOfDelivery: dto.ProofOfDelivery,
		SenderRating:    dto.SenderRating,
		SenderFeedback:  dto.SenderFeedback,
		CompletedAt:     dto.CompletedAt,
	})
}

func locationFromDomain(location delivery.Location) LocationDTO {
	dto := LocationDTO{
		Address:      location.Address,
		Instructions: location.Instructions,
	}
	if location.Coordinates != nil {
		lat, lng := location.Coordinates.Lat, location.Coordinates.Lng
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func locationToDomain(dto LocationDTO) delivery.Location {
	location := delivery.Location{
		Address:      dto.Address,
		Instructions: dto.Instructions,
	}
	if dto.Lat != nil && dto.Lng != nil {
		location.Coordinates = &kernel.GeoPoint{Lat: *dto.Lat, Lng: *dto.Lng}
	}
	return location
}
