package kernel

import (
	"strings"

	"opencourier/internal/pkg/errs"

	"github.com/google/uuid"
)

// Entity identifiers travel over the log as prefixed strings, e.g.
// "delivery_2f9a...". The prefix doubles as a cheap shape check when events
// come back from relays we do not control.
const (
	DeliveryIDPrefix = "delivery_"
	BidIDPrefix      = "bid_"
)

// NewDeliveryID generates a fresh delivery identifier.
func NewDeliveryID() string {
	return DeliveryIDPrefix + uuid.NewString()
}

// NewBidID generates a fresh bid identifier.
func NewBidID() string {
	return BidIDPrefix + uuid.NewString()
}

// ValidateDeliveryID checks a delivery identifier is non-empty and carries
// the delivery prefix.
func ValidateDeliveryID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("delivery id")
	}
	if !strings.HasPrefix(id, DeliveryIDPrefix) {
		return errs.NewValueIsInvalidError("delivery id")
	}
	return nil
}

// ValidateBidID checks a bid identifier is non-empty and carries the bid
// prefix.
func ValidateBidID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("bid id")
	}
	if !strings.HasPrefix(id, BidIDPrefix) {
		return errs.NewValueIsInvalidError("bid id")
	}
	return nil
}

// ValidateNpub checks a user identifier (public key identifier) is present.
// Signature verification belongs to the relay layer; here only the shape is
// checked.
func ValidateNpub(npub string) error {
	if npub == "" {
		return errs.NewValueIsRequiredError("npub")
	}
	return nil
}
