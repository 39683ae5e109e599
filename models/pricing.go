package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceLine is a named add-on or discount applied to a booking.
type PriceLine struct {
	Name   string          `bson:"name" json:"name"`
	Amount decimal.Decimal `bson:"amount" json:"amount"`
}

// Pricing is the monetary breakdown of a booking. Amounts are fixed-point
// decimals, never binary floats.
type Pricing struct {
	BasePrice   decimal.Decimal `bson:"base_price" json:"base_price"`
	AddOns      []PriceLine     `bson:"add_ons,omitempty" json:"add_ons,omitempty"`
	Discounts   []PriceLine     `bson:"discounts,omitempty" json:"discounts,omitempty"`
	Subtotal    decimal.Decimal `bson:"subtotal" json:"subtotal"`
	Tax         decimal.Decimal `bson:"tax" json:"tax"`
	TotalAmount decimal.Decimal `bson:"total_amount" json:"total_amount"`
	Currency    string          `bson:"currency" json:"currency"`
}

// arithmeticTolerance is half a minor unit: totals may drift by rounding
// but no further.
var arithmeticTolerance = decimal.New(5, -3) // 0.005

// Validate enforces non-negative amounts and the total arithmetic:
// total == subtotal + tax - sum(discounts), within rounding tolerance.
func (p Pricing) Validate() error {
	if p.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	for _, d := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"base_price", p.BasePrice},
		{"subtotal", p.Subtotal},
		{"tax", p.Tax},
		{"total_amount", p.TotalAmount},
	} {
		if d.v.IsNegative() {
			return fmt.Errorf("%s must be non-negative", d.name)
		}
	}
	discounts := decimal.Zero
	for _, line := range p.Discounts {
		if line.Amount.IsNegative() {
			return fmt.Errorf("discount %q must be non-negative", line.Name)
		}
		discounts = discounts.Add(line.Amount)
	}
	for _, line := range p.AddOns {
		if line.Amount.IsNegative() {
			return fmt.Errorf("add-on %q must be non-negative", line.Name)
		}
	}
	expected := p.Subtotal.Add(p.Tax).Sub(discounts)
	if p.TotalAmount.Sub(expected).Abs().GreaterThan(arithmeticTolerance) {
		return fmt.Errorf("total %s does not match subtotal %s + tax %s - discounts %s",
			p.TotalAmount, p.Subtotal, p.Tax, discounts)
	}
	return nil
}

// CancellationPolicy is the refund policy attached to a booking at creation.
type CancellationPolicy struct {
	AllowedUntil     time.Time       `bson:"allowed_until" json:"allowed_until"`
	RefundPercentage int             `bson:"refund_percentage" json:"refund_percentage"` // 0..100
	CancellationFee  decimal.Decimal `bson:"cancellation_fee" json:"cancellation_fee"`   // >= 0
}

// Validate checks the policy bounds.
func (cp CancellationPolicy) Validate() error {
	if cp.RefundPercentage < 0 || cp.RefundPercentage > 100 {
		return fmt.Errorf("refund percentage %d out of range [0, 100]", cp.RefundPercentage)
	}
	if cp.CancellationFee.IsNegative() {
		return fmt.Errorf("cancellation fee must be non-negative")
	}
	return nil
}

// CancellationDetails captures who cancelled, why, and the computed refund.
type CancellationDetails struct {
	CancelledBy  string          `bson:"cancelled_by" json:"cancelled_by"`
	Reason       string          `bson:"reason" json:"reason"`
	RefundAmount decimal.Decimal `bson:"refund_amount" json:"refund_amount"`
	CancelledAt  time.Time       `bson:"cancelled_at" json:"cancelled_at"`
}
