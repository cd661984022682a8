package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// Payment outcomes recorded by CheckoutMetrics.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeReplayed  = "replayed"
)

// CheckoutMetrics tracks order and payment activity.
type CheckoutMetrics struct {
	ordersCreated   *Counter
	orderAmount     *Counter
	orderItems      *Counter
	payments        *Counter
	stockConflicts  *Counter
	enrollmentsMade *Counter
}

// NewCheckoutMetrics registers the checkout instruments on the meter.
func NewCheckoutMetrics(meter metric.Meter) (*CheckoutMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &CheckoutMetrics{}
	var err error

	if m.ordersCreated, err = NewCounter(meter, "cp_order_created_total", "Total number of orders created", "{orders}"); err != nil {
		return nil, err
	}
	if m.orderAmount, err = NewCounter(meter, "cp_order_amount_cents_total", "Total order amount in cents", "{cents}"); err != nil {
		return nil, err
	}
	if m.orderItems, err = NewCounter(meter, "cp_order_items_total", "Total number of order items by type", "{items}"); err != nil {
		return nil, err
	}
	if m.payments, err = NewCounter(meter, "cp_payment_total", "Total number of payment attempts by outcome", "{payments}"); err != nil {
		return nil, err
	}
	if m.stockConflicts, err = NewCounter(meter, "cp_stock_conflict_total", "Payments rejected because stock ran out", "{conflicts}"); err != nil {
		return nil, err
	}
	if m.enrollmentsMade, err = NewCounter(meter, "cp_enrollment_created_total", "Enrollments created by payments", "{enrollments}"); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordOrderCreated counts a new order, its amount and its items by type.
func (m *CheckoutMetrics) RecordOrderCreated(ctx context.Context, amount decimal.Decimal, itemsByType map[string]int) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc(ctx)
	m.orderAmount.Add(ctx, amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	for itemType, count := range itemsByType {
		m.orderItems.Add(ctx, int64(count), AttrItemType.String(itemType))
	}
}

// RecordPayment counts a payment attempt.
func (m *CheckoutMetrics) RecordPayment(ctx context.Context, method, outcome string) {
	if m == nil {
		return
	}
	m.payments.Inc(ctx, AttrPaymentMethod.String(method), AttrOutcome.String(outcome))
}

// RecordStockConflict counts a payment rejected by the conditional stock decrement.
func (m *CheckoutMetrics) RecordStockConflict(ctx context.Context) {
	if m == nil {
		return
	}
	m.stockConflicts.Inc(ctx)
}

// RecordEnrollments counts enrollments created by a payment.
func (m *CheckoutMetrics) RecordEnrollments(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.enrollmentsMade.Add(ctx, int64(n))
}
