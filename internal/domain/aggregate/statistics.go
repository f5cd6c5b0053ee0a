package aggregate

import (
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CurrencyStatistic is one row of the session statistics query.
type CurrencyStatistic struct {
	CurrencyID          uint    `json:"currency_id"`
	CurrencyName        string  `json:"currency_name"`
	TotalAmount         float64 `json:"total_amount"`
	TotalBaseAmount     float64 `json:"total_base_amount"`
	TransactionCount    int     `json:"transaction_count"`
	ManuallyEditedCount int     `json:"manually_edited_count"`
}

type statisticAccumulator struct {
	currencyID uint
	name       string
	amount     decimal.Decimal
	base       decimal.Decimal
	count      int
	manual     int
}

// Statistics groups every payment that has a payment currency, including ones
// in the order currency, by currency in first-seen order.
func Statistics(payments []entity.PosPayment) []CurrencyStatistic {
	var order []*statisticAccumulator
	byCurrency := make(map[uint]*statisticAccumulator)

	for i := range payments {
		p := &payments[i]
		if !p.HasCurrency() {
			continue
		}
		acc, ok := byCurrency[*p.PaymentCurrencyID]
		if !ok {
			name, _ := p.CurrencyLabel()
			acc = &statisticAccumulator{currencyID: *p.PaymentCurrencyID, name: name}
			byCurrency[acc.currencyID] = acc
			order = append(order, acc)
		}
		acc.amount = acc.amount.Add(p.PaymentCurrencyAmount)
		acc.base = acc.base.Add(p.Amount)
		acc.count++
		if p.RateManuallyEdited {
			acc.manual++
		}
	}

	out := make([]CurrencyStatistic, 0, len(order))
	for _, acc := range order {
		out = append(out, CurrencyStatistic{
			CurrencyID:          acc.currencyID,
			CurrencyName:        acc.name,
			TotalAmount:         acc.amount.InexactFloat64(),
			TotalBaseAmount:     acc.base.InexactFloat64(),
			TransactionCount:    acc.count,
			ManuallyEditedCount: acc.manual,
		})
	}
	return out
}
