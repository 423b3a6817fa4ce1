package delivery

import (
	"encoding/json"
	"fmt"

	"opencourier/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
//
// State transitions:
//
//	Open ──> Accepted ──> InTransit ──> Completed ──> Confirmed
//	  │          │            │
//	  │          └────────────┴──────> Expired (cancel, courier paid)
//	  └──────────────────────────────> Expired (delete, no payout)
//
// Confirmed and Expired are terminal. Disputed is reachable only through
// reconstruction of foreign log data and has no outbound transitions defined;
// it is a dead-end pending a product decision on dispute resolution.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Open is the initial status: the delivery accepts bids and field updates.
	Open

	// Accepted means a bid has been accepted and a courier is committed.
	Accepted

	// InTransit means the courier has picked up the packages.
	InTransit

	// Completed means the courier delivered and attached proof of delivery.
	Completed

	// Confirmed means the sender acknowledged the delivery. Terminal.
	Confirmed

	// Disputed is a dead-end state with no resolution transitions defined.
	Disputed

	// Expired means the delivery was deleted or cancelled. Terminal.
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Open:      "open",
		Accepted:  "accepted",
		InTransit: "in_transit",
		Completed: "completed",
		Confirmed: "confirmed",
		Disputed:  "disputed",
		Expired:   "expired",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Open:      "open",
		Accepted:  "accepted",
		InTransit: "in_transit",
		Completed: "completed",
		Confirmed: "confirmed",
		Disputed:  "disputed",
		Expired:   "expired",
	}
}

// ParseStatus converts a wire string into a Status. The "intransit" spelling
// is accepted alongside "in_transit" for compatibility with older clients.
func ParseStatus(s string) (Status, error) {
	if s == "intransit" {
		return InTransit, nil
	}
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status ("unknown" for
// invalid values). Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// MarshalJSON serializes the status as its wire string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the status from its wire string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Accept transitions Open -> Accepted. Accepting a bid on a delivery in any
// other state is rejected.
func (s Status) Accept() (Status, error) {
	if s != Open {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to accept a bid", s))
	}
	return Accepted, nil
}

// Transit transitions any state to InTransit. The log is the source of truth
// for courier progress, so no precondition is enforced here.
func (s Status) Transit() Status {
	return InTransit
}

// Complete transitions Accepted or InTransit -> Completed.
func (s Status) Complete() (Status, error) {
	if s != Accepted && s != InTransit {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s))
	}
	return Completed, nil
}

// Confirm transitions to Confirmed. Confirmation has no status precondition:
// the sender's acknowledgement is accepted whenever the delivery exists.
func (s Status) Confirm() Status {
	return Confirmed
}

// Cancel transitions Accepted or InTransit -> Expired. The accepted courier
// is paid the offer amount by the caller.
func (s Status) Cancel() (Status, error) {
	if s != Accepted && s != InTransit {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return Expired, nil
}

// Expire transitions Open -> Expired with no payout.
func (s Status) Expire() (Status, error) {
	if s != Open {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to expire", s))
	}
	return Expired, nil
}

// ValidateUpdatable reports whether the delivery's own fields may still be
// edited. Only Open deliveries are mutable.
func (s Status) ValidateUpdatable() error {
	if s != Open {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s delivery cannot be updated", s))
	}
	return nil
}
