package delivery

// StatusUpdate is a log-only record describing one status transition of a
// delivery, plus the fields that transition set. It is never persisted as an
// entity; reconstruction overlays it on top of the root snapshot, and the
// replicated backend publishes one per transition.
//
// Overlay fields are pointers: a nil field means "not mentioned by this
// update" and must not erase a value set by an earlier update.
type StatusUpdate struct {
	DeliveryID     string           `json:"delivery_id"`
	Status         Status           `json:"status"`
	Timestamp      int64            `json:"timestamp"`
	ProofOfDeliv   *ProofOfDelivery `json:"proof_of_delivery,omitempty"`
	CompletedAt    *int64           `json:"completed_at,omitempty"`
	AcceptedBid    *string          `json:"accepted_bid,omitempty"`
	SenderRating   *float64         `json:"sender_rating,omitempty"`
	SenderFeedback *string          `json:"sender_feedback,omitempty"`
}
