package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentLineRequest is one payment line of a synced order. Omitted
// amounts and rate are derived from the current rate table.
type PaymentLineRequest struct {
	PaymentMethodID       uint             `json:"payment_method_id" binding:"required,gt=0"`
	Amount                *decimal.Decimal `json:"amount"`
	PaymentDate           *time.Time       `json:"payment_date"`
	PaymentCurrencyID     *uint            `json:"payment_currency_id" binding:"omitempty,gt=0"`
	PaymentCurrencyAmount *decimal.Decimal `json:"payment_currency_amount"`
	ExchangeRate          *decimal.Decimal `json:"exchange_rate"`
	RateManuallyEdited    bool             `json:"rate_manually_edited"`
}

// SyncOrderRequest represents an order pushed by the POS client
type SyncOrderRequest struct {
	Name        string               `json:"name" binding:"required,max=255"`
	AmountTotal decimal.Decimal      `json:"amount_total"`
	DateOrder   *time.Time           `json:"date_order"`
	Payments    []PaymentLineRequest `json:"payment_ids" binding:"dive"`
}

// UpdatePaymentRequest changes the amount or the multi-currency fields of a payment
type UpdatePaymentRequest struct {
	Amount                *decimal.Decimal `json:"amount"`
	PaymentCurrencyID     *uint            `json:"payment_currency_id" binding:"omitempty,gt=0"`
	ClearCurrency         bool             `json:"clear_currency"`
	PaymentCurrencyAmount *decimal.Decimal `json:"payment_currency_amount"`
	ExchangeRate          *decimal.Decimal `json:"exchange_rate"`
	RateManuallyEdited    *bool            `json:"rate_manually_edited"`
}
