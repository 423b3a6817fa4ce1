// Package userrepo provides data transfer objects and mapping functions for
// profile persistence. Profiles are flat, so the mapping is a straight
// column-per-field affair keyed by npub.
package userrepo

import (
	"opencourier/internal/core/domain/model/account"
)

// ProfileDTO represents the database structure for persisting profiles.
type ProfileDTO struct {
	Npub                string  `gorm:"type:varchar(128);primaryKey"`
	DisplayName         *string `gorm:"type:varchar(255)"`
	Reputation          float64 `gorm:"type:double precision;not null"`
	CompletedDeliveries int64   `gorm:"type:bigint;not null"`
	TotalEarnings       int64   `gorm:"type:bigint;not null"`
	VerifiedIdentity    bool    `gorm:"not null"`
	LightningAddress    *string `gorm:"type:varchar(255)"`
}

// TableName specifies the database table name for profile entities.
func (ProfileDTO) TableName() string {
	return "profiles"
}

// fromDomain converts a profile to its database representation.
func fromDomain(profile *account.Profile) ProfileDTO {
	snapshot := profile.Snapshot()
	return ProfileDTO{
		Npub:                snapshot.Npub,
		DisplayName:         snapshot.DisplayName,
		Reputation:          snapshot.Reputation,
		CompletedDeliveries: int64(snapshot.CompletedDeliveries),
		TotalEarnings:       int64(snapshot.TotalEarnings),
		VerifiedIdentity:    snapshot.VerifiedIdentity,
		LightningAddress:    snapshot.LightningAddress,
	}
}

// toDomain converts a database DTO to a profile using RestoreProfile.
func toDomain(dto ProfileDTO) *account.Profile {
	return account.RestoreProfile(account.Snapshot{
		Npub:                dto.Npub,
		DisplayName:         dto.DisplayName,
		Reputation:          dto.Reputation,
		CompletedDeliveries: uint32(dto.CompletedDeliveries),
		TotalEarnings:       uint64(dto.TotalEarnings),
		VerifiedIdentity:    dto.VerifiedIdentity,
		LightningAddress:    dto.LightningAddress,
	})
}
