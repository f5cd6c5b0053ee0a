package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PosPayment is one payment line of an order. Amount is in the order currency;
// PaymentCurrencyAmount is what was tendered in PaymentCurrency.
type PosPayment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"pos_order_id"`
	Order           *PosOrder       `gorm:"foreignKey:OrderID" json:"-"`
	SessionID       uint            `gorm:"not null;index" json:"session_id"`
	CompanyID       uint            `gorm:"not null;index" json:"company_id"`
	PaymentMethodID uint            `gorm:"not null" json:"payment_method_id"`
	PaymentMethod   *PaymentMethod  `gorm:"foreignKey:PaymentMethodID" json:"-"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"amount"`
	PaymentDate     time.Time       `gorm:"not null" json:"payment_date"`

	PaymentCurrencyID     *uint           `gorm:"index" json:"payment_currency_id"`
	PaymentCurrency       *Currency       `gorm:"foreignKey:PaymentCurrencyID" json:"-"`
	PaymentCurrencyAmount decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"payment_currency_amount"`
	ExchangeRate          decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"exchange_rate"`
	RateManuallyEdited    bool            `gorm:"not null" json:"rate_manually_edited"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the PosPayment model
func (PosPayment) TableName() string {
	return "pos_payments"
}

// IsForeign reports whether the payment was tendered in a currency other than orderCurrencyID.
func (p *PosPayment) IsForeign(orderCurrencyID uint) bool {
	return p.PaymentCurrencyID != nil && *p.PaymentCurrencyID != orderCurrencyID
}

// HasCurrency reports whether a payment currency is set.
func (p *PosPayment) HasCurrency() bool {
	return p.PaymentCurrencyID != nil
}

// CurrencyLabel returns the name and symbol of the payment currency, empty when not loaded.
func (p *PosPayment) CurrencyLabel() (name, symbol string) {
	if p.PaymentCurrency == nil {
		return "", ""
	}
	return p.PaymentCurrency.Name, p.PaymentCurrency.Symbol
}

// WatchedFieldsEqual compares the fields derived aggregates depend on.
func (p *PosPayment) WatchedFieldsEqual(other *PosPayment) bool {
	if (p.PaymentCurrencyID == nil) != (other.PaymentCurrencyID == nil) {
		return false
	}
	if p.PaymentCurrencyID != nil && *p.PaymentCurrencyID != *other.PaymentCurrencyID {
		return false
	}
	return p.Amount.Equal(other.Amount) &&
		p.PaymentCurrencyAmount.Equal(other.PaymentCurrencyAmount) &&
		p.ExchangeRate.Equal(other.ExchangeRate) &&
		p.RateManuallyEdited == other.RateManuallyEdited
}

// PaymentPayload is the client-facing serialization of a payment line.
type PaymentPayload struct {
	ID                    uint      `json:"id"`
	PosOrderID            uint      `json:"pos_order_id"`
	SessionID             uint      `json:"session_id"`
	PaymentMethodID       uint      `json:"payment_method_id"`
	Amount                float64   `json:"amount"`
	PaymentDate           time.Time `json:"payment_date"`
	PaymentCurrencyID     *uint     `json:"payment_currency_id"`
	PaymentCurrencyAmount float64   `json:"payment_currency_amount"`
	ExchangeRate          float64   `json:"exchange_rate"`
	RateManuallyEdited    bool      `json:"rate_manually_edited"`
}

// Serialize builds the payload sent to the POS client. payment_currency_id is null when unset.
func (p *PosPayment) Serialize() PaymentPayload {
	return PaymentPayload{
		ID:                    p.ID,
		PosOrderID:            p.OrderID,
		SessionID:             p.SessionID,
		PaymentMethodID:       p.PaymentMethodID,
		Amount:                p.Amount.InexactFloat64(),
		PaymentDate:           p.PaymentDate,
		PaymentCurrencyID:     p.PaymentCurrencyID,
		PaymentCurrencyAmount: p.PaymentCurrencyAmount.InexactFloat64(),
		ExchangeRate:          p.ExchangeRate.InexactFloat64(),
		RateManuallyEdited:    p.RateManuallyEdited,
	}
}
