package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddRateRequest represents a new dated company rate
type AddRateRequest struct {
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate *time.Time      `json:"effective_date"`
}

// ConversionQuery selects the currencies of a conversion rate
type ConversionQuery struct {
	From uint `form:"from" binding:"required,gt=0"`
	To   uint `form:"to" binding:"required,gt=0"`
}
