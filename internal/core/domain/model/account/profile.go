package account

import (
	"errors"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/errs"
)

const (
	// DefaultReputation is the reputation assumed for an identity that has
	// never appeared in the log.
	DefaultReputation = 4.5

	// ReputationMin and ReputationMax bound the reputation score.
	ReputationMin = 0.0
	ReputationMax = 5.0
)

// ErrProfileIsNotConstructed is returned when a Profile instance was not
// created through NewProfile or RestoreProfile.
var ErrProfileIsNotConstructed = errors.New("Profile must be created via NewProfile or RestoreProfile")

// Profile is the aggregate root for a marketplace participant, keyed by npub.
// It tracks the courier-side reputation and earnings state.
//
// Reputation is a running weighted average of the ratings received across
// completed deliveries and always stays within [0, 5].
type Profile struct {
	npub                string
	displayName         *string
	reputation          float64
	completedDeliveries uint32
	totalEarnings       uint64
	verifiedIdentity    bool
	lightningAddress    *string

	isConstructed bool
}

// NewProfile creates a fresh profile for an identity with the default
// reputation and no history.
func NewProfile(npub string) (*Profile, error) {
	if err := kernel.ValidateNpub(npub); err != nil {
		return nil, err
	}
	return &Profile{
		npub:          npub,
		reputation:    DefaultReputation,
		isConstructed: true,
	}, nil
}

// Validate ensures the Profile was created through a constructor.
func (p *Profile) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProfileIsNotConstructed
	}
	return nil
}

// IsEqual compares two profiles by npub.
func (p *Profile) IsEqual(other *Profile) bool {
	return other != nil && p.npub == other.npub
}

func (p *Profile) Npub() string                { return p.npub }
func (p *Profile) DisplayName() *string        { return p.displayName }
func (p *Profile) Reputation() float64         { return p.reputation }
func (p *Profile) CompletedDeliveries() uint32 { return p.completedDeliveries }
func (p *Profile) TotalEarnings() uint64       { return p.totalEarnings }
func (p *Profile) VerifiedIdentity() bool      { return p.verifiedIdentity }
func (p *Profile) LightningAddress() *string   { return p.lightningAddress }

// RecordCompletion credits one confirmed delivery: the completion count
// increments by one, earnings grow by the offer amount, and, when the sender
// left a rating, the reputation moves to the weighted average of all ratings
// received so far. A first rating replaces the default score outright.
func (p *Profile) RecordCompletion(rating *float64, earnings uint64) error {
	if rating != nil && (*rating < ReputationMin || *rating > ReputationMax) {
		return errs.NewValueIsOutOfRangeError("rating", *rating, ReputationMin, ReputationMax)
	}

	if rating != nil {
		before := float64(p.completedDeliveries)
		if p.completedDeliveries == 0 {
			p.reputation = *rating
		} else {
			p.reputation = (p.reputation*before + *rating) / (before + 1)
		}
		p.reputation = clampReputation(p.reputation)
	}

	p.completedDeliveries++
	p.totalEarnings += earnings
	return nil
}

// CreditCancellation pays the courier for a cancelled delivery. The
// completion count and reputation are untouched.
func (p *Profile) CreditCancellation(amount uint64) {
	p.totalEarnings += amount
}

// UpdateContact edits the profile's contact fields. Nil arguments are left
// unchanged.
func (p *Profile) UpdateContact(displayName, lightningAddress *string) {
	if displayName != nil {
		p.displayName = displayName
	}
	if lightningAddress != nil {
		p.lightningAddress = lightningAddress
	}
}

func clampReputation(r float64) float64 {
	if r < ReputationMin {
		return ReputationMin
	}
	if r > ReputationMax {
		return ReputationMax
	}
	return r
}

// Snapshot is the serialized form of a Profile, shared by the event log
// codec, the database mappers and the HTTP layer.
type Snapshot struct {
	Npub                string  `json:"npub"`
	DisplayName         *string `json:"display_name,omitempty"`
	Reputation          float64 `json:"reputation"`
	CompletedDeliveries uint32  `json:"completed_deliveries"`
	TotalEarnings       uint64  `json:"total_earnings"`
	VerifiedIdentity    bool    `json:"verified_identity"`
	LightningAddress    *string `json:"lightning_address,omitempty"`
}

// Snapshot returns the serialized form of the profile.
func (p *Profile) Snapshot() Snapshot {
	return Snapshot{
		Npub:                p.npub,
		DisplayName:         p.displayName,
		Reputation:          p.reputation,
		CompletedDeliveries: p.completedDeliveries,
		TotalEarnings:       p.totalEarnings,
		VerifiedIdentity:    p.verifiedIdentity,
		LightningAddress:    p.lightningAddress,
	}
}

// RestoreProfile rebuilds a profile from a stored snapshot, bypassing
// creation-time validation.
func RestoreProfile(s Snapshot) *Profile {
	return &Profile{
		npub:                s.Npub,
		displayName:         s.DisplayName,
		reputation:          s.Reputation,
		completedDeliveries: s.CompletedDeliveries,
		totalEarnings:       s.TotalEarnings,
		verifiedIdentity:    s.VerifiedIdentity,
		lightningAddress:    s.LightningAddress,
		isConstructed:       true,
	}
}
