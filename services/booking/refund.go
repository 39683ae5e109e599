package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"reserva/models"
)

// Timing tiers for refund reduction.
const (
	noRefundWindow = 2 * time.Hour
	reducedWindow  = 24 * time.Hour
	lateCancelDrop = 50 // percentage points subtracted inside the reduced window
)

// RefundEngine computes refund amounts from cancellation timing and the
// booking's policy. Pure; no I/O.
type RefundEngine struct{}

// CalculateRefund returns the refund amount for cancelling at `now`:
//
//	< 2h before service:  0%
//	< 24h before service: policy percentage minus 50 points, floored at 0
//	otherwise:            policy percentage
//
// refund = total * pct/100 - cancellationFee, clamped to [0, total] and
// rounded to the currency's minor unit.
func (RefundEngine) CalculateRefund(b *models.Booking, now time.Time) (decimal.Decimal, error) {
	pct := b.CancellationPolicy.RefundPercentage
	if pct < 0 || pct > 100 {
		return decimal.Zero, NewRefundCalculationError("refund percentage %d out of range", pct)
	}
	if b.Pricing.TotalAmount.IsNegative() {
		return decimal.Zero, NewRefundCalculationError("total amount %s is negative", b.Pricing.TotalAmount)
	}
	if b.CancellationPolicy.CancellationFee.IsNegative() {
		return decimal.Zero, NewRefundCalculationError("cancellation fee %s is negative", b.CancellationPolicy.CancellationFee)
	}

	start, err := b.ScheduledStart()
	if err != nil {
		return decimal.Zero, NewRefundCalculationError("booking has unparseable date %q", b.Date)
	}

	untilService := start.Sub(now)
	switch {
	case untilService < noRefundWindow:
		pct = 0
	case untilService < reducedWindow:
		pct -= lateCancelDrop
		if pct < 0 {
			pct = 0
		}
	}

	refund := b.Pricing.TotalAmount.
		Mul(decimal.NewFromInt(int64(pct))).
		Div(decimal.NewFromInt(100)).
		Sub(b.CancellationPolicy.CancellationFee)

	if refund.IsNegative() {
		refund = decimal.Zero
	}
	if refund.GreaterThan(b.Pricing.TotalAmount) {
		refund = b.Pricing.TotalAmount
	}
	return refund.Round(2), nil
}
