package http

import (
	"opencourier/internal/core/domain/model/delivery"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateDeliveryRequest is the body of POST /api/deliveries.
type CreateDeliveryRequest struct {
	Sender          string             `json:"sender"`
	Pickup          delivery.Location  `json:"pickup"`
	Dropoff         delivery.Location  `json:"dropoff"`
	Packages        []delivery.Package `json:"packages"`
	OfferAmount     uint64             `json:"offer_amount"`
	InsuranceAmount *uint64            `json:"insurance_amount,omitempty"`
	TimeWindow      string             `json:"time_window"`
	ExpiresAt       *int64             `json:"expires_at,omitempty"`
}

// UpdateDeliveryRequest is the body of PATCH /api/deliveries/{id}. Absent
// fields are left unchanged.
type UpdateDeliveryRequest struct {
	Pickup          *delivery.Location `json:"pickup,omitempty"`
	Dropoff         *delivery.Location `json:"dropoff,omitempty"`
	Packages        []delivery.Package `json:"packages,omitempty"`
	OfferAmount     *uint64            `json:"offer_amount,omitempty"`
	InsuranceAmount *uint64            `json:"insurance_amount,omitempty"`
	TimeWindow      *string            `json:"time_window,omitempty"`
	ExpiresAt       *int64             `json:"expires_at,omitempty"`
}

// PlaceBidRequest is the body of POST /api/deliveries/{id}/bid.
type PlaceBidRequest struct {
	Courier       string  `json:"courier"`
	Amount        uint64  `json:"amount"`
	EstimatedTime string  `json:"estimated_time"`
	Message       *string `json:"message,omitempty"`
}

// SetStatusRequest is the body of PATCH /api/deliveries/{id}/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// CompleteDeliveryRequest is the body of POST /api/deliveries/{id}/complete.
type CompleteDeliveryRequest struct {
	Images        []string `json:"images"`
	SignatureName *string  `json:"signature_name,omitempty"`
	Comments      *string  `json:"comments,omitempty"`
}

// ConfirmDeliveryRequest is the body of POST /api/deliveries/{id}/confirm.
type ConfirmDeliveryRequest struct {
	Rating   *float64 `json:"rating,omitempty"`
	Feedback *string  `json:"feedback,omitempty"`
}

// UpdateProfileRequest is the body of PATCH /api/user/{npub}.
type UpdateProfileRequest struct {
	DisplayName      *string `json:"display_name,omitempty"`
	LightningAddress *string `json:"lightning_address,omitempty"`
}
