package entity

import (
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PosSession is a cash-register session grouping orders
type PosSession struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Name       string            `gorm:"size:255;not null" json:"name"`
	ConfigID   uint              `gorm:"not null;index" json:"config_id"`
	Config     *PosConfig        `gorm:"foreignKey:ConfigID" json:"-"`
	CompanyID  uint              `gorm:"not null;index" json:"company_id"`
	CurrencyID uint              `gorm:"not null" json:"currency_id"`
	State      enum.SessionState `gorm:"not null;default:0" json:"state"`
	OpenedAt   time.Time         `json:"opened_at"`
	ClosedAt   *time.Time        `json:"closed_at,omitempty"`

	// Derived by the recompute path only.
	HasForeignPayments       bool             `gorm:"not null" json:"has_foreign_payments"`
	ForeignCurrencyCount     int              `gorm:"not null" json:"foreign_currency_count"`
	TotalForeignAmount       decimal.Decimal  `gorm:"type:decimal(18,6);not null" json:"total_foreign_amount"`
	ForeignPaymentCount      int              `gorm:"not null" json:"foreign_payment_count"`
	ManualRateEditCount      int              `gorm:"not null" json:"manual_rate_edit_count"`
	ForeignCurrencyBreakdown SessionBreakdown `gorm:"type:jsonb" json:"foreign_currency_breakdown"`

	Orders    []PosOrder `gorm:"foreignKey:SessionID" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the table name for the PosSession model
func (PosSession) TableName() string {
	return "pos_sessions"
}
