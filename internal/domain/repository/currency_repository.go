package repository

import (
	"context"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CurrencyRepository defines the interface for currency and rate data operations
type CurrencyRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Currency, error)
	GetByIDs(ctx context.Context, ids []uint) ([]entity.Currency, error)
	List(ctx context.Context, activeOnly bool) ([]entity.Currency, error)
	// LatestRates returns, per currency, the most recent rate of the company
	// effective at or before at. Currencies without a rate are absent.
	LatestRates(ctx context.Context, companyID uint, at time.Time) (map[uint]decimal.Decimal, error)
	CreateRate(ctx context.Context, rate *entity.CurrencyRate) error
}

// CompanyRepository defines the interface for company data operations
type CompanyRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Company, error)
}
