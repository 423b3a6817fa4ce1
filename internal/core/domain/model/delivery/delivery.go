package delivery

import (
	"errors"
	"fmt"
	"sort"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/errs"
)

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
	// created through NewDelivery or RestoreDelivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

	// ErrSignatureRequired is returned when a delivery with a
	// signature-requiring package is completed without a signer name.
	ErrSignatureRequired = errs.NewValueIsInvalidErrorWithCause("signature_name",
		errors.New("signature required"))
)

// Delivery is the aggregate root of the marketplace. It owns the full
// lifecycle of a delivery request from creation through bidding, transit and
// confirmation, and enforces these invariants:
//
//   - accepted bid, when set, references an id present in the bid list
//   - status only ever advances per the transition rules on Status
//   - distance is present iff both endpoints carry coordinates, and is
//     recomputed whenever either endpoint changes
//
// Aggregates are value types reconstructed fresh per read; a Delivery is
// never shared across concurrent reconstructions.
type Delivery struct {
	id              string
	sender          string
	pickup          Location
	dropoff         Location
	packages        []Package
	offerAmount     uint64
	insuranceAmount *uint64
	timeWindow      string
	expiresAt       *int64
	status          Status
	bids            []Bid
	acceptedBid     *string
	createdAt       int64
	distanceMeters  *float64
	proofOfDelivery *ProofOfDelivery
	senderRating    *float64
	senderFeedback  *string
	completedAt     *int64

	isConstructed bool
}

// NewDelivery creates an Open delivery with a fresh id. The distance between
// pickup and dropoff is derived immediately when both carry coordinates.
func NewDelivery(sender string, pickup, dropoff Location, packages []Package,
	offerAmount uint64, insuranceAmount *uint64, timeWindow string,
	expiresAt *int64, createdAt int64) (*Delivery, error) {
	d := &Delivery{
		id:              kernel.NewDeliveryID(),
		status:          Open,
		insuranceAmount: insuranceAmount,
		timeWindow:      timeWindow,
		expiresAt:       expiresAt,
		createdAt:       createdAt,
		isConstructed:   true,
	}

	if err := errors.Join(
		d.setSender(sender),
		d.setPickup(pickup),
		d.setDropoff(dropoff),
		d.setPackages(packages),
		d.setOfferAmount(offerAmount),
	); err != nil {
		return nil, err
	}

	d.recalculateDistance()
	return d, nil
}

// Validate ensures the Delivery was created through a constructor.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// IsEqual compares two deliveries by id.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id == other.id
}

func (d *Delivery) ID() string                        { return d.id }
func (d *Delivery) Sender() string                    { return d.sender }
func (d *Delivery) Pickup() Location                  { return d.pickup }
func (d *Delivery) Dropoff() Location                 { return d.dropoff }
func (d *Delivery) Packages() []Package               { return d.packages }
func (d *Delivery) OfferAmount() uint64               { return d.offerAmount }
func (d *Delivery) InsuranceAmount() *uint64          { return d.insuranceAmount }
func (d *Delivery) TimeWindow() string                { return d.timeWindow }
func (d *Delivery) ExpiresAt() *int64                 { return d.expiresAt }
func (d *Delivery) Status() Status                    { return d.status }
func (d *Delivery) Bids() []Bid                       { return d.bids }
func (d *Delivery) AcceptedBid() *string              { return d.acceptedBid }
func (d *Delivery) CreatedAt() int64                  { return d.createdAt }
func (d *Delivery) DistanceMeters() *float64          { return d.distanceMeters }
func (d *Delivery) ProofOfDelivery() *ProofOfDelivery { return d.proofOfDelivery }
func (d *Delivery) SenderRating() *float64            { return d.senderRating }
func (d *Delivery) SenderFeedback() *string           { return d.senderFeedback }
func (d *Delivery) CompletedAt() *int64               { return d.completedAt }

// AcceptedBidRecord returns the bid referenced by the accepted bid id, or nil
// when no bid is accepted.
func (d *Delivery) AcceptedBidRecord() *Bid {
	if d.acceptedBid == nil {
		return nil
	}
	for i := range d.bids {
		if d.bids[i].ID == *d.acceptedBid {
			return &d.bids[i]
		}
	}
	return nil
}

// UpdateFields describes an edit to a delivery's mutable fields. Nil fields
// are left unchanged.
type UpdateFields struct {
	Pickup          *Location
	Dropoff         *Location
	Packages        []Package
	OfferAmount     *uint64
	InsuranceAmount *uint64
	TimeWindow      *string
	ExpiresAt       *int64
}

// Update edits the delivery's mutable fields. Only Open deliveries may be
// edited; the edit is all-or-nothing, so a failed validation leaves the
// aggregate untouched. Endpoint changes recompute the derived distance.
func (d *Delivery) Update(fields UpdateFields) error {
	if err := d.status.ValidateUpdatable(); err != nil {
		return err
	}

	if fields.Pickup != nil {
		if err := fields.Pickup.Validate(); err != nil {
			return err
		}
	}
	if fields.Dropoff != nil {
		if err := fields.Dropoff.Validate(); err != nil {
			return err
		}
	}
	if fields.Packages != nil {
		if err := validatePackages(fields.Packages); err != nil {
			return err
		}
	}
	if fields.OfferAmount != nil {
		if err := validateAmount(*fields.OfferAmount); err != nil {
			return err
		}
	}

	if fields.Pickup != nil {
		d.pickup = *fields.Pickup
	}
	if fields.Dropoff != nil {
		d.dropoff = *fields.Dropoff
	}
	if fields.Packages != nil {
		d.packages = fields.Packages
	}
	if fields.OfferAmount != nil {
		d.offerAmount = *fields.OfferAmount
	}
	if fields.InsuranceAmount != nil {
		d.insuranceAmount = fields.InsuranceAmount
	}
	if fields.TimeWindow != nil {
		d.timeWindow = *fields.TimeWindow
	}
	if fields.ExpiresAt != nil {
		d.expiresAt = fields.ExpiresAt
	}

	if fields.Pickup != nil || fields.Dropoff != nil {
		d.recalculateDistance()
	}
	return nil
}

// PlaceBid appends a bid to the delivery. Bids are accepted in any status;
// the delivery only has to exist.
func (d *Delivery) PlaceBid(bid Bid) error {
	if err := bid.Validate(); err != nil {
		return err
	}
	d.bids = append(d.bids, bid)
	return nil
}

// AcceptBid accepts the bid at the given position in the bid list, reprices
// the delivery to that bid's amount and moves it to Accepted. This is the
// only place the accepted-bid invariant is established, so the referenced id
// always exists in the list.
func (d *Delivery) AcceptBid(bidIndex int) error {
	if bidIndex < 0 || bidIndex >= len(d.bids) {
		return errs.NewValueIsInvalidErrorWithCause("bid_index",
			fmt.Errorf("%d is out of range for %d bids", bidIndex, len(d.bids)))
	}

	newStatus, err := d.status.Accept()
	if err != nil {
		return err
	}

	d.status = newStatus
	bidID := d.bids[bidIndex].ID
	d.acceptedBid = &bidID
	d.offerAmount = d.bids[bidIndex].Amount
	return nil
}

// StartTransit marks the delivery as picked up by the courier.
func (d *Delivery) StartTransit() {
	d.status = d.status.Transit()
}

// Complete attaches proof of delivery and moves the delivery to Completed.
// When any package requires a signature, a signer name must be supplied.
func (d *Delivery) Complete(images []string, signatureName *string, comments *string, now int64) error {
	if d.requiresSignature() && (signatureName == nil || *signatureName == "") {
		return ErrSignatureRequired
	}

	newStatus, err := d.status.Complete()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.proofOfDelivery = &ProofOfDelivery{
		Images:        images,
		SignatureName: signatureName,
		Timestamp:     now,
		Comments:      comments,
	}
	d.completedAt = &now
	return nil
}

// Confirm records the sender's acknowledgement with an optional rating and
// feedback. Profile side effects are applied by the caller.
func (d *Delivery) Confirm(rating *float64, feedback *string) error {
	if rating != nil && (*rating < 0 || *rating > 5) {
		return errs.NewValueIsOutOfRangeError("rating", *rating, 0.0, 5.0)
	}

	d.status = d.status.Confirm()
	if rating != nil {
		d.senderRating = rating
	}
	if feedback != nil {
		d.senderFeedback = feedback
	}
	return nil
}

// Cancel expires an Accepted or InTransit delivery. Paying the accepted
// courier is the caller's responsibility.
func (d *Delivery) Cancel() error {
	newStatus, err := d.status.Cancel()
	if err != nil {
		return err
	}
	d.status = newStatus
	return nil
}

// Expire expires an Open delivery with no payout.
func (d *Delivery) Expire() error {
	newStatus, err := d.status.Expire()
	if err != nil {
		return err
	}
	d.status = newStatus
	return nil
}

// ApplyUpdate overlays a status update onto the aggregate during
// reconstruction. The status is overwritten unconditionally; every other
// field is overwritten only when the update mentions it. No transition rules
// apply here: the log is authoritative for foreign history.
func (d *Delivery) ApplyUpdate(update StatusUpdate) {
	d.status = update.Status
	if update.ProofOfDeliv != nil {
		d.proofOfDelivery = update.ProofOfDeliv
	}
	if update.CompletedAt != nil {
		d.completedAt = update.CompletedAt
	}
	if update.AcceptedBid != nil {
		d.acceptedBid = update.AcceptedBid
	}
	if update.SenderRating != nil {
		d.senderRating = update.SenderRating
	}
	if update.SenderFeedback != nil {
		d.senderFeedback = update.SenderFeedback
	}
}

// SetBids replaces the bid list during reconstruction. Bids arrive
// deduplicated; they are sorted here ascending by creation time, with the
// bid id breaking ties so equal timestamps always land in the same order.
func (d *Delivery) SetBids(bids []Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		if bids[i].CreatedAt != bids[j].CreatedAt {
			return bids[i].CreatedAt < bids[j].CreatedAt
		}
		return bids[i].ID < bids[j].ID
	})
	d.bids = bids
}

func (d *Delivery) requiresSignature() bool {
	for _, p := range d.packages {
		if p.RequiresSignature {
			return true
		}
	}
	return false
}

func (d *Delivery) recalculateDistance() {
	if d.pickup.Coordinates == nil || d.dropoff.Coordinates == nil {
		d.distanceMeters = nil
		return
	}
	distance := d.pickup.Coordinates.DistanceTo(*d.dropoff.Coordinates)
	d.distanceMeters = &distance
}

func (d *Delivery) setSender(sender string) error {
	if err := kernel.ValidateNpub(sender); err != nil {
		return errs.NewValueIsRequiredError("sender")
	}
	d.sender = sender
	return nil
}

func (d *Delivery) setPickup(pickup Location) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	d.pickup = pickup
	return nil
}

func (d *Delivery) setDropoff(dropoff Location) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	d.dropoff = dropoff
	return nil
}

func (d *Delivery) setPackages(packages []Package) error {
	if err := validatePackages(packages); err != nil {
		return err
	}
	d.packages = packages
	return nil
}

func (d *Delivery) setOfferAmount(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	d.offerAmount = amount
	return nil
}

func validatePackages(packages []Package) error {
	if len(packages) == 0 {
		return errs.NewValueIsRequiredError("packages")
	}
	for _, p := range packages {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
