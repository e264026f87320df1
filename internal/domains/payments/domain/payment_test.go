package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	now := time.Date(2025, 1, 9, 15, 30, 0, 0, time.UTC)
	payment, err := NewPayment("p1a2b3c4d", "ord00000001", "u1", decimal.RequireFromString("100.00"), time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), payment.Date)

	for name, amount := range map[string]string{"zero": "0", "negative": "-0.01"} {
		_, err := NewPayment("p1", "ord1", "u1", decimal.RequireFromString(amount), now, now)
		require.ErrorIs(t, err, ErrInvalidAmount, name)
	}

	_, err = NewPayment("p1", " ", "u1", decimal.NewFromInt(1), now, now)
	require.ErrorIs(t, err, ErrEmptyOrderID)
	_, err = NewPayment("p1", "ord1", "", decimal.NewFromInt(1), now, now)
	require.ErrorIs(t, err, ErrEmptyPayerID)
}
