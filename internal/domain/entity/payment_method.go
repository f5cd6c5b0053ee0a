package entity

import "time"

// PaymentMethod is a tender type; a fixed currency forces the payment currency
type PaymentMethod struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	CompanyID       uint      `gorm:"not null;index" json:"company_id"`
	FixedCurrencyID *uint     `json:"fixed_currency_id"`
	FixedCurrency   *Currency `gorm:"foreignKey:FixedCurrencyID" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "pos_payment_methods"
}
