package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type currencyRepository struct {
	baseRepository
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *gorm.DB) domainRepo.CurrencyRepository {
	return &currencyRepository{baseRepository{db: db}}
}

func (r *currencyRepository) GetByID(ctx context.Context, id uint) (*entity.Currency, error) {
	var currency entity.Currency
	err := r.conn(ctx).First(&currency, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &currency, err
}

func (r *currencyRepository) GetByIDs(ctx context.Context, ids []uint) ([]entity.Currency, error) {
	var currencies []entity.Currency
	if len(ids) == 0 {
		return currencies, nil
	}
	err := r.conn(ctx).Where("id IN ?", ids).Order("id").Find(&currencies).Error
	return currencies, err
}

func (r *currencyRepository) List(ctx context.Context, activeOnly bool) ([]entity.Currency, error) {
	var currencies []entity.Currency
	query := r.conn(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("id").Find(&currencies).Error
	return currencies, err
}

func (r *currencyRepository) LatestRates(ctx context.Context, companyID uint, at time.Time) (map[uint]decimal.Decimal, error) {
	var rates []entity.CurrencyRate
	err := r.conn(ctx).
		Where("company_id = ? AND effective_date <= ?", companyID, at).
		Order("currency_id, effective_date DESC, id DESC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uint]decimal.Decimal, len(rates))
	for _, rate := range rates {
		if _, seen := latest[rate.CurrencyID]; !seen {
			latest[rate.CurrencyID] = rate.Rate
		}
	}
	return latest, nil
}

func (r *currencyRepository) CreateRate(ctx context.Context, rate *entity.CurrencyRate) error {
	return r.conn(ctx).Create(rate).Error
}

type companyRepository struct {
	baseRepository
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) domainRepo.CompanyRepository {
	return &companyRepository{baseRepository{db: db}}
}

func (r *companyRepository) GetByID(ctx context.Context, id uint) (*entity.Company, error) {
	var company entity.Company
	err := r.conn(ctx).Preload("Currency").First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &company, err
}
