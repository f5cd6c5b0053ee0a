package entity

import "time"

// Company owns POS configurations and sessions and defines the base currency
type Company struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	CurrencyID uint      `gorm:"not null" json:"currency_id"`
	Currency   *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}
