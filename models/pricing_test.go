package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPricingValidate(t *testing.T) {
	p := Pricing{
		BasePrice:   money("100.00"),
		Subtotal:    money("100.00"),
		Tax:         money("18.00"),
		TotalAmount: money("118.00"),
		Currency:    "USD",
	}
	assert.NoError(t, p.Validate())

	p.Discounts = []PriceLine{{Name: "promo", Amount: money("10.00")}}
	p.TotalAmount = money("108.00")
	assert.NoError(t, p.Validate())

	// Rounding drift within half a minor unit is accepted.
	p.TotalAmount = money("108.004")
	assert.NoError(t, p.Validate())

	p.TotalAmount = money("109.00")
	assert.Error(t, p.Validate())
}

func TestPricingValidateRejectsNegatives(t *testing.T) {
	p := Pricing{
		BasePrice:   money("-1.00"),
		Subtotal:    money("0.00"),
		Tax:         money("0.00"),
		TotalAmount: money("0.00"),
		Currency:    "USD",
	}
	assert.Error(t, p.Validate())

	p.BasePrice = money("10.00")
	p.Discounts = []PriceLine{{Name: "bad", Amount: money("-5.00")}}
	assert.Error(t, p.Validate())

	p.Discounts = nil
	p.Currency = ""
	assert.Error(t, p.Validate())
}

func TestCancellationPolicyValidate(t *testing.T) {
	ok := CancellationPolicy{RefundPercentage: 100, CancellationFee: money("0")}
	assert.NoError(t, ok.Validate())

	assert.Error(t, CancellationPolicy{RefundPercentage: 101}.Validate())
	assert.Error(t, CancellationPolicy{RefundPercentage: -1}.Validate())
	assert.Error(t, CancellationPolicy{RefundPercentage: 50, CancellationFee: money("-1")}.Validate())
}

func TestClockConversions(t *testing.T) {
	assert.Equal(t, "00:00", MinutesToClock(0))
	assert.Equal(t, "09:05", MinutesToClock(545))
	assert.Equal(t, "23:59", MinutesToClock(1439))

	got, err := ClockToMinutes("14:30")
	require.NoError(t, err)
	assert.Equal(t, 870, got)

	_, err = ClockToMinutes("25:00")
	assert.Error(t, err)
	_, err = ClockToMinutes("noon")
	assert.Error(t, err)
}
