package delivery

import (
	"fmt"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/errs"
)

// Location describes one endpoint of a delivery. The address is free text;
// coordinates are optional and, when present on both endpoints, drive the
// distance calculation.
type Location struct {
	Address      string           `json:"address"`
	Coordinates  *kernel.GeoPoint `json:"coordinates,omitempty"`
	Instructions *string          `json:"instructions,omitempty"`
}

// NewLocation creates a validated Location.
func NewLocation(address string, coordinates *kernel.GeoPoint, instructions *string) (Location, error) {
	location := Location{
		Address:      address,
		Coordinates:  coordinates,
		Instructions: instructions,
	}
	if err := location.Validate(); err != nil {
		return Location{}, err
	}
	return location, nil
}

// Validate checks the address is present and any coordinates are in range.
func (l Location) Validate() error {
	if l.Address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	if l.Coordinates != nil {
		if err := l.Coordinates.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Package describes one item to be transported.
type Package struct {
	Size              string   `json:"size"`
	Weight            *float64 `json:"weight,omitempty"`
	Description       string   `json:"description"`
	Fragile           bool     `json:"fragile"`
	RequiresSignature bool     `json:"requires_signature"`
}

// Validate checks the package carries a size and a non-negative weight.
func (p Package) Validate() error {
	if p.Size == "" {
		return errs.NewValueIsRequiredError("size")
	}
	if p.Weight != nil && *p.Weight < 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight is invalid",
			fmt.Errorf("%v is negative", *p.Weight))
	}
	return nil
}

// ProofOfDelivery captures the evidence a courier attaches on completion.
type ProofOfDelivery struct {
	Images        []string         `json:"images"`
	SignatureName *string          `json:"signature_name,omitempty"`
	Timestamp     int64            `json:"timestamp"`
	Location      *kernel.GeoPoint `json:"location,omitempty"`
	Comments      *string          `json:"comments,omitempty"`
}
