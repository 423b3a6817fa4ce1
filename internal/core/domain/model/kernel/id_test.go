package kernel_test

import (
	"testing"

	"opencourier/internal/core/domain/model/kernel"
	"opencourier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeliveryID(t *testing.T) {
	t.Run("should generate valid unique ids", func(t *testing.T) {
		a := kernel.NewDeliveryID()
		b := kernel.NewDeliveryID()

		require.NoError(t, kernel.ValidateDeliveryID(a))
		require.NoError(t, kernel.ValidateDeliveryID(b))
		assert.NotEqual(t, a, b)
	})
}

func TestNewBidID(t *testing.T) {
	t.Run("should generate valid unique ids", func(t *testing.T) {
		a := kernel.NewBidID()
		b := kernel.NewBidID()

		require.NoError(t, kernel.ValidateBidID(a))
		require.NoError(t, kernel.ValidateBidID(b))
		assert.NotEqual(t, a, b)
	})
}

func TestValidateDeliveryID(t *testing.T) {
	t.Run("should reject empty id", func(t *testing.T) {
		assert.ErrorIs(t, kernel.ValidateDeliveryID(""), errs.ErrValueIsRequired)
	})

	t.Run("should reject id without prefix", func(t *testing.T) {
		assert.ErrorIs(t, kernel.ValidateDeliveryID("bid_123"), errs.ErrValueIsInvalid)
	})
}

func TestValidateBidID(t *testing.T) {
	t.Run("should reject empty id", func(t *testing.T) {
		assert.ErrorIs(t, kernel.ValidateBidID(""), errs.ErrValueIsRequired)
	})

	t.Run("should reject id without prefix", func(t *testing.T) {
		assert.ErrorIs(t, kernel.ValidateBidID("delivery_123"), errs.ErrValueIsInvalid)
	})
}

func TestValidateNpub(t *testing.T) {
	require.NoError(t, kernel.ValidateNpub("npub1example"))
	assert.ErrorIs(t, kernel.ValidateNpub(""), errs.ErrValueIsRequired)
}
