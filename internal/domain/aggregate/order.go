// Package aggregate holds the pure folds that derive foreign-currency
// summaries from payment lines. Nothing here touches storage.
package aggregate

import (
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderSummary is the derived foreign-payment state of one order.
type OrderSummary struct {
	HasForeignPayments   bool
	ForeignCurrencyCount int
	TotalForeignAmount   decimal.Decimal
	ManualRateCount      int
	Details              entity.OrderBreakdown
}

// ApplyTo copies the summary onto the order's cached fields.
func (s OrderSummary) ApplyTo(o *entity.PosOrder) {
	o.HasForeignPayments = s.HasForeignPayments
	o.ForeignCurrencyCount = s.ForeignCurrencyCount
	o.TotalForeignAmount = s.TotalForeignAmount
	o.ManualRateCount = s.ManualRateCount
	o.ForeignCurrencyDetails = s.Details
}

type orderAccumulator struct {
	currencyID uint
	name       string
	symbol     string
	foreign    decimal.Decimal
	base       decimal.Decimal
	payments   int
	manual     int
	rates      []entity.RateUsage
}

func (a *orderAccumulator) add(p *entity.PosPayment) {
	a.foreign = a.foreign.Add(p.PaymentCurrencyAmount)
	a.base = a.base.Add(p.Amount)
	a.payments++
	a.rates = append(a.rates, entity.RateUsage{
		Rate:           p.ExchangeRate.InexactFloat64(),
		ManuallyEdited: p.RateManuallyEdited,
	})
	if p.RateManuallyEdited {
		a.manual++
	}
}

func (a *orderAccumulator) detail() entity.OrderCurrencyDetail {
	return entity.OrderCurrencyDetail{
		CurrencyID:         a.currencyID,
		CurrencyName:       a.name,
		CurrencySymbol:     a.symbol,
		TotalForeignAmount: a.foreign.InexactFloat64(),
		TotalBaseAmount:    a.base.InexactFloat64(),
		PaymentCount:       a.payments,
		AverageRate:        averageRate(a.foreign, a.base).InexactFloat64(),
		RatesUsed:          a.rates,
		ManualEdits:        a.manual,
	}
}

// averageRate is foreign per base unit, 0 when the base total is not positive.
func averageRate(foreign, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return foreign.Div(base)
}

// Order folds payments into the order summary. A payment is foreign when it
// has a payment currency different from orderCurrencyID. Currency names come
// from the preloaded PaymentCurrency of each payment.
func Order(orderCurrencyID uint, payments []entity.PosPayment) OrderSummary {
	summary := OrderSummary{
		TotalForeignAmount: decimal.Zero,
		Details:            entity.OrderBreakdown{},
	}

	byCurrency := make(map[uint]*orderAccumulator)
	for i := range payments {
		p := &payments[i]
		if !p.IsForeign(orderCurrencyID) {
			continue
		}
		summary.TotalForeignAmount = summary.TotalForeignAmount.Add(p.Amount)
		if p.RateManuallyEdited {
			summary.ManualRateCount++
		}

		acc, ok := byCurrency[*p.PaymentCurrencyID]
		if !ok {
			name, symbol := p.CurrencyLabel()
			acc = &orderAccumulator{
				currencyID: *p.PaymentCurrencyID,
				name:       name,
				symbol:     symbol,
			}
			byCurrency[acc.currencyID] = acc
		}
		acc.add(p)
	}

	summary.HasForeignPayments = len(byCurrency) > 0
	summary.ForeignCurrencyCount = len(byCurrency)
	for id, acc := range byCurrency {
		summary.Details[id] = acc.detail()
	}
	return summary
}
