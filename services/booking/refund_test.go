package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reserva/models"
)

func refundBooking(pct int, fee string) *models.Booking {
	return &models.Booking{
		Date:        "2026-09-07",
		StartMinute: 14 * 60,
		Pricing: models.Pricing{
			TotalAmount: decimal.RequireFromString("118.00"),
			Currency:    "USD",
		},
		CancellationPolicy: models.CancellationPolicy{
			RefundPercentage: pct,
			CancellationFee:  decimal.RequireFromString(fee),
		},
	}
}

func TestCalculateRefundTiers(t *testing.T) {
	engine := RefundEngine{}
	start := time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		before time.Duration
		pct    int
		fee    string
		want   string
	}{
		{"full refund well in advance", 48 * time.Hour, 100, "0", "118.00"},
		{"inside no-refund window", time.Hour, 100, "0", "0.00"},
		{"at exactly two hours the reduced tier applies", 2 * time.Hour, 100, "0", "59.00"},
		{"reduced window drops fifty points", 12 * time.Hour, 100, "0", "59.00"},
		{"reduced window floors at zero", 12 * time.Hour, 30, "0", "0.00"},
		{"fee deducted from refund", 48 * time.Hour, 50, "10.00", "49.00"},
		{"fee never drives refund negative", 48 * time.Hour, 0, "10.00", "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := refundBooking(tc.pct, tc.fee)
			got, err := engine.CalculateRefund(b, start.Add(-tc.before))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestCalculateRefundMonotonicInTime(t *testing.T) {
	engine := RefundEngine{}
	b := refundBooking(100, "0")
	start := time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC)

	// Cancelling earlier never yields less than cancelling later.
	prev := decimal.NewFromInt(-1)
	for _, before := range []time.Duration{30 * time.Minute, 3 * time.Hour, 25 * time.Hour, 72 * time.Hour} {
		got, err := engine.CalculateRefund(b, start.Add(-before))
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev),
			"refund %s at %s before start dropped below %s", got, before, prev)
		prev = got
	}
}

func TestCalculateRefundRejectsBadInputs(t *testing.T) {
	engine := RefundEngine{}
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	b := refundBooking(101, "0")
	_, err := engine.CalculateRefund(b, now)
	assert.Error(t, err)

	b = refundBooking(100, "0")
	b.Pricing.TotalAmount = decimal.RequireFromString("-1")
	_, err = engine.CalculateRefund(b, now)
	assert.Error(t, err)

	b = refundBooking(100, "-1")
	_, err = engine.CalculateRefund(b, now)
	assert.Error(t, err)

	b = refundBooking(100, "0")
	b.Date = "next tuesday"
	_, err = engine.CalculateRefund(b, now)
	assert.Error(t, err)
}

func TestCalculateRefundNeverExceedsTotal(t *testing.T) {
	engine := RefundEngine{}
	b := refundBooking(100, "0")
	got, err := engine.CalculateRefund(b, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, got.LessThanOrEqual(b.Pricing.TotalAmount))
	assert.True(t, got.GreaterThanOrEqual(decimal.Zero))
}
