package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PosOrder is an order synced from a POS client
type PosOrder struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	SessionID   uint            `gorm:"not null;index" json:"session_id"`
	CompanyID   uint            `gorm:"not null;index" json:"company_id"`
	CurrencyID  uint            `gorm:"not null" json:"currency_id"`
	Currency    *Currency       `gorm:"foreignKey:CurrencyID" json:"-"`
	AmountTotal decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"amount_total"`
	DateOrder   time.Time       `gorm:"not null" json:"date_order"`

	// Derived by the recompute path only.
	HasForeignPayments     bool            `gorm:"not null" json:"has_foreign_payments"`
	ForeignCurrencyCount   int             `gorm:"not null" json:"foreign_currency_count"`
	TotalForeignAmount     decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"total_foreign_amount"`
	ManualRateCount        int             `gorm:"not null" json:"manual_rate_count"`
	ForeignCurrencyDetails OrderBreakdown  `gorm:"type:jsonb" json:"foreign_currency_details"`

	Payments  []PosPayment `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName returns the table name for the PosOrder model
func (PosOrder) TableName() string {
	return "pos_orders"
}

// ForeignPayments returns the payments tendered in a currency other than the order's.
func (o *PosOrder) ForeignPayments() []PosPayment {
	var out []PosPayment
	for _, p := range o.Payments {
		if p.IsForeign(o.CurrencyID) {
			out = append(out, p)
		}
	}
	return out
}

// OrderUIPayload is the order as sent to the POS client, multi-currency summary included.
type OrderUIPayload struct {
	ID                     uint             `json:"id"`
	Name                   string           `json:"name"`
	SessionID              uint             `json:"session_id"`
	CurrencyID             uint             `json:"currency_id"`
	AmountTotal            float64          `json:"amount_total"`
	DateOrder              time.Time        `json:"date_order"`
	Payments               []PaymentPayload `json:"payment_ids"`
	HasForeignPayments     bool             `json:"has_foreign_payments"`
	ForeignCurrencyCount   int              `json:"foreign_currency_count"`
	TotalForeignAmount     float64          `json:"total_foreign_amount"`
	ManualRateCount        int              `json:"manual_rate_count"`
	ForeignCurrencyDetails OrderBreakdown   `json:"foreign_currency_details"`
}

// ExportForUI builds the client payload. foreign_currency_details is {} when empty.
func (o *PosOrder) ExportForUI() OrderUIPayload {
	payments := make([]PaymentPayload, 0, len(o.Payments))
	for i := range o.Payments {
		payments = append(payments, o.Payments[i].Serialize())
	}
	details := o.ForeignCurrencyDetails
	if details == nil {
		details = OrderBreakdown{}
	}
	return OrderUIPayload{
		ID:                     o.ID,
		Name:                   o.Name,
		SessionID:              o.SessionID,
		CurrencyID:             o.CurrencyID,
		AmountTotal:            o.AmountTotal.InexactFloat64(),
		DateOrder:              o.DateOrder,
		Payments:               payments,
		HasForeignPayments:     o.HasForeignPayments,
		ForeignCurrencyCount:   o.ForeignCurrencyCount,
		TotalForeignAmount:     o.TotalForeignAmount.InexactFloat64(),
		ManualRateCount:        o.ManualRateCount,
		ForeignCurrencyDetails: details,
	}
}
