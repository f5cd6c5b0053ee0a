package aggregate

import (
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SessionStats are the session counters derived from its orders' cached aggregates.
type SessionStats struct {
	HasForeignPayments   bool
	ForeignCurrencyCount int
	TotalForeignAmount   decimal.Decimal
	ForeignPaymentCount  int
	ManualRateEditCount  int
}

// SessionSummary is the full derived foreign-payment state of one session.
type SessionSummary struct {
	SessionStats
	Breakdown entity.SessionBreakdown
}

// ApplyTo copies the summary onto the session's cached fields.
func (s SessionSummary) ApplyTo(sess *entity.PosSession) {
	sess.HasForeignPayments = s.HasForeignPayments
	sess.ForeignCurrencyCount = s.ForeignCurrencyCount
	sess.TotalForeignAmount = s.TotalForeignAmount
	sess.ForeignPaymentCount = s.ForeignPaymentCount
	sess.ManualRateEditCount = s.ManualRateEditCount
	sess.ForeignCurrencyBreakdown = s.Breakdown
}

// Stats combines the order aggregates of orders flagged with foreign payments.
// The payment count walks the orders' loaded Payments.
func Stats(orders []entity.PosOrder) SessionStats {
	stats := SessionStats{TotalForeignAmount: decimal.Zero}
	currencies := idSet{}

	for i := range orders {
		o := &orders[i]
		if !o.HasForeignPayments {
			continue
		}
		stats.HasForeignPayments = true
		for id := range o.ForeignCurrencyDetails {
			currencies.add(id)
		}
		stats.TotalForeignAmount = stats.TotalForeignAmount.Add(o.TotalForeignAmount)
		stats.ManualRateEditCount += o.ManualRateCount
		for j := range o.Payments {
			if o.Payments[j].IsForeign(o.CurrencyID) {
				stats.ForeignPaymentCount++
			}
		}
	}

	stats.ForeignCurrencyCount = currencies.Len()
	return stats
}

type sessionAccumulator struct {
	currencyID uint
	name       string
	symbol     string
	foreign    decimal.Decimal
	base       decimal.Decimal
	payments   int
	orders     idSet
	manual     int
}

func (a *sessionAccumulator) detail() entity.SessionCurrencyDetail {
	return entity.SessionCurrencyDetail{
		CurrencyID:         a.currencyID,
		CurrencyName:       a.name,
		CurrencySymbol:     a.symbol,
		TotalForeignAmount: a.foreign.InexactFloat64(),
		TotalBaseAmount:    a.base.InexactFloat64(),
		PaymentCount:       a.payments,
		OrderCount:         a.orders.Len(),
		ManualEdits:        a.manual,
	}
}

// Breakdown groups every foreign payment of the session's orders by currency,
// reading raw payments rather than order aggregates.
func Breakdown(orders []entity.PosOrder) entity.SessionBreakdown {
	byCurrency := make(map[uint]*sessionAccumulator)
	for i := range orders {
		o := &orders[i]
		for j := range o.Payments {
			p := &o.Payments[j]
			if !p.IsForeign(o.CurrencyID) {
				continue
			}
			acc, ok := byCurrency[*p.PaymentCurrencyID]
			if !ok {
				name, symbol := p.CurrencyLabel()
				acc = &sessionAccumulator{
					currencyID: *p.PaymentCurrencyID,
					name:       name,
					symbol:     symbol,
					orders:     idSet{},
				}
				byCurrency[acc.currencyID] = acc
			}
			acc.foreign = acc.foreign.Add(p.PaymentCurrencyAmount)
			acc.base = acc.base.Add(p.Amount)
			acc.payments++
			acc.orders.add(o.ID)
			if p.RateManuallyEdited {
				acc.manual++
			}
		}
	}

	out := entity.SessionBreakdown{}
	for id, acc := range byCurrency {
		out[id] = acc.detail()
	}
	return out
}

// Session derives the stats and, when the session has foreign payments, the breakdown.
func Session(orders []entity.PosOrder) SessionSummary {
	summary := SessionSummary{
		SessionStats: Stats(orders),
		Breakdown:    entity.SessionBreakdown{},
	}
	if summary.HasForeignPayments {
		summary.Breakdown = Breakdown(orders)
	}
	return summary
}
