package entity

import (
	"math"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Currency is an ISO currency with its rounding and display settings
type Currency struct {
	ID        uint                  `gorm:"primaryKey" json:"id"`
	Name      string                `gorm:"size:3;uniqueIndex;not null" json:"name"`
	Symbol    string                `gorm:"size:10;not null" json:"symbol"`
	Rounding  decimal.Decimal       `gorm:"type:decimal(12,6);not null" json:"rounding"`
	Position  enum.CurrencyPosition `gorm:"size:10;not null" json:"position"`
	Active    bool                  `gorm:"not null" json:"active"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// TableName returns the table name for the Currency model
func (Currency) TableName() string {
	return "currencies"
}

// DecimalPlaces derives the number of decimals from the rounding step:
// 0.01 gives 2, 1 gives 0, and a non-positive step falls back to 2.
func (c *Currency) DecimalPlaces() int32 {
	r := c.Rounding.InexactFloat64()
	if r <= 0 {
		return 2
	}
	return int32(math.Max(0, math.Round(-math.Log10(r))))
}

// Round rounds amount to the currency's decimal places.
func (c *Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(c.DecimalPlaces())
}

// Format renders amount with the currency symbol on the configured side.
func (c *Currency) Format(amount decimal.Decimal) string {
	value := c.Round(amount).StringFixed(c.DecimalPlaces())
	if c.Position == enum.CurrencyPositionBefore {
		return c.Symbol + " " + value
	}
	return value + " " + c.Symbol
}

// CurrencyRate is the company-relative rate of a currency from a given date:
// one unit of the company currency buys Rate units of the currency.
type CurrencyRate struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CurrencyID    uint            `gorm:"not null;index:idx_currency_rates_lookup,priority:2" json:"currency_id"`
	CompanyID     uint            `gorm:"not null;index:idx_currency_rates_lookup,priority:1" json:"company_id"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"rate"`
	EffectiveDate time.Time       `gorm:"not null;index:idx_currency_rates_lookup,priority:3" json:"effective_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName returns the table name for the CurrencyRate model
func (CurrencyRate) TableName() string {
	return "currency_rates"
}
