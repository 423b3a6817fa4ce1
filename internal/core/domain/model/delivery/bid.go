package delivery

import (
	"errors"
	"fmt"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/errs"
)

// Bid is a courier's offer to carry a delivery. Bids are immutable once
// published; reputation and completed deliveries are a snapshot of the
// courier's profile at submission time and are never updated afterwards.
type Bid struct {
	ID                  string  `json:"id"`
	Courier             string  `json:"courier"`
	Amount              uint64  `json:"amount"`
	EstimatedTime       string  `json:"estimated_time"`
	Reputation          float64 `json:"reputation"`
	CompletedDeliveries uint32  `json:"completed_deliveries"`
	Message             *string `json:"message,omitempty"`
	CreatedAt           int64   `json:"created_at"`
}

// NewBid creates a validated Bid with a fresh id and the given creation time.
func NewBid(courier string, amount uint64, estimatedTime string,
	reputation float64, completedDeliveries uint32, message *string, createdAt int64) (Bid, error) {
	bid := Bid{
		ID:                  kernel.NewBidID(),
		Courier:             courier,
		Amount:              amount,
		EstimatedTime:       estimatedTime,
		Reputation:          reputation,
		CompletedDeliveries: completedDeliveries,
		Message:             message,
		CreatedAt:           createdAt,
	}
	if err := bid.Validate(); err != nil {
		return Bid{}, err
	}
	return bid, nil
}

// Validate checks the bid invariants.
func (b Bid) Validate() error {
	return errors.Join(
		kernel.ValidateBidID(b.ID),
		validateCourier(b.Courier),
		validateAmount(b.Amount),
	)
}

func validateCourier(courier string) error {
	if courier == "" {
		return errs.NewValueIsRequiredError("courier")
	}
	return nil
}

func validateAmount(amount uint64) error {
	if amount == 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount is invalid",
			fmt.Errorf("%d is not greater than 0", amount))
	}
	return nil
}
