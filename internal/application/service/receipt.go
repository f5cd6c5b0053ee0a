package service

import (
	"fmt"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const receiptDateLayout = "2006-01-02 15:04"

type receiptLine struct {
	currency *entity.Currency
	total    decimal.Decimal
	rate     decimal.Decimal
	manual   bool
}

// buildReceipt composes the receipt of an order loaded with its currency and
// payments. Foreign lines appear in the order their currency was first paid.
// A manually edited rate replaces the first rate seen for the currency.
func buildReceipt(order *entity.PosOrder) entity.Receipt {
	receipt := entity.Receipt{
		OrderName:       order.Name,
		Date:            order.DateOrder.Format(receiptDateLayout),
		CurrencyName:    order.Currency.Name,
		Total:           order.AmountTotal.InexactFloat64(),
		FormattedTotal:  order.Currency.Format(order.AmountTotal),
		Payments:        make([]entity.ReceiptPayment, 0, len(order.Payments)),
		ForeignPayments: []entity.ReceiptForeignLine{},
	}

	var seen []uint
	lines := map[uint]*receiptLine{}
	for i := range order.Payments {
		p := &order.Payments[i]

		method := ""
		if p.PaymentMethod != nil {
			method = p.PaymentMethod.Name
		}
		line := entity.ReceiptPayment{
			Method:          method,
			Amount:          p.Amount.InexactFloat64(),
			FormattedAmount: order.Currency.Format(p.Amount),
		}

		if p.IsForeign(order.CurrencyID) && p.PaymentCurrency != nil {
			line.ForeignAmount = p.PaymentCurrency.Format(p.PaymentCurrencyAmount)

			acc, ok := lines[p.PaymentCurrency.ID]
			if !ok {
				acc = &receiptLine{currency: p.PaymentCurrency, rate: p.ExchangeRate, manual: p.RateManuallyEdited}
				lines[p.PaymentCurrency.ID] = acc
				seen = append(seen, p.PaymentCurrency.ID)
			} else if p.RateManuallyEdited && !acc.manual {
				acc.rate = p.ExchangeRate
				acc.manual = true
			}
			acc.total = acc.total.Add(p.PaymentCurrencyAmount)
		}
		receipt.Payments = append(receipt.Payments, line)
	}

	for _, id := range seen {
		acc := lines[id]
		receipt.ForeignPayments = append(receipt.ForeignPayments, entity.ReceiptForeignLine{
			CurrencyID:      acc.currency.ID,
			CurrencyName:    acc.currency.Name,
			CurrencySymbol:  acc.currency.Symbol,
			Total:           acc.total.InexactFloat64(),
			FormattedAmount: acc.currency.Format(acc.total),
			Rate:            acc.rate.InexactFloat64(),
			RateLabel:       fmt.Sprintf("1 %s = %s %s", order.Currency.Name, acc.rate.StringFixed(4), acc.currency.Name),
			ManualRate:      acc.manual,
		})
	}
	return receipt
}
