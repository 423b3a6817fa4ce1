package delivery

// Snapshot is the serialized form of a Delivery. It is the single wire shape
// shared by the event log codec, the database mappers and the HTTP layer.
type Snapshot struct {
	ID              string           `json:"id"`
	Sender          string           `json:"sender"`
	Pickup          Location         `json:"pickup"`
	Dropoff         Location         `json:"dropoff"`
	Packages        []Package        `json:"packages"`
	OfferAmount     uint64           `json:"offer_amount"`
	InsuranceAmount *uint64          `json:"insurance_amount,omitempty"`
	TimeWindow      string           `json:"time_window"`
	ExpiresAt       *int64           `json:"expires_at,omitempty"`
	Status          Status           `json:"status"`
	Bids            []Bid            `json:"bids"`
	AcceptedBid     *string          `json:"accepted_bid,omitempty"`
	CreatedAt       int64            `json:"created_at"`
	DistanceMeters  *float64         `json:"distance_meters,omitempty"`
	ProofOfDelivery *ProofOfDelivery `json:"proof_of_delivery,omitempty"`
	SenderRating    *float64         `json:"sender_rating,omitempty"`
	SenderFeedback  *string          `json:"sender_feedback,omitempty"`
	CompletedAt     *int64           `json:"completed_at,omitempty"`
}

// Snapshot returns the serialized form of the delivery.
func (d *Delivery) Snapshot() Snapshot {
	return Snapshot{
		ID:              d.id,
		Sender:          d.sender,
		Pickup:          d.pickup,
		Dropoff:         d.dropoff,
		Packages:        d.packages,
		OfferAmount:     d.offerAmount,
		InsuranceAmount: d.insuranceAmount,
		TimeWindow:      d.timeWindow,
		ExpiresAt:       d.expiresAt,
		Status:          d.status,
		Bids:            d.bids,
		AcceptedBid:     d.acceptedBid,
		CreatedAt:       d.createdAt,
		DistanceMeters:  d.distanceMeters,
		ProofOfDelivery: d.proofOfDelivery,
		SenderRating:    d.senderRating,
		SenderFeedback:  d.senderFeedback,
		CompletedAt:     d.completedAt,
	}
}

// RestoreDelivery rebuilds an aggregate from a stored snapshot, bypassing
// creation-time validation. Intended for repositories and reconstruction.
func RestoreDelivery(s Snapshot) *Delivery {
	return &Delivery{
		id:              s.ID,
		sender:          s.Sender,
		pickup:          s.Pickup,
		dropoff:         s.Dropoff,
		packages:        s.Packages,
		offerAmount:     s.OfferAmount,
		insuranceAmount: s.InsuranceAmount,
		timeWindow:      s.TimeWindow,
		expiresAt:       s.ExpiresAt,
		status:          s.Status,
		bids:            s.Bids,
		acceptedBid:     s.AcceptedBid,
		createdAt:       s.CreatedAt,
		distanceMeters:  s.DistanceMeters,
		proofOfDelivery: s.ProofOfDelivery,
		senderRating:    s.SenderRating,
		senderFeedback:  s.SenderFeedback,
		completedAt:     s.CompletedAt,
		isConstructed:   true,
	}
}
