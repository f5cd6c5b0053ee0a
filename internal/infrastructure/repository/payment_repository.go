package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct {
	baseRepository
}

// NewPaymentRepository creates a new POS payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{baseRepository{db: db}}
}

func (r *paymentRepository) CreateBatch(ctx context.Context, payments []entity.PosPayment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.conn(ctx).Omit(clause.Associations).Create(&payments).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*entity.PosPayment, error) {
	var payment entity.PosPayment
	err := r.conn(ctx).
		Scopes(CompanyScope(ctx)).
		Preload("PaymentCurrency").
		Preload("Order").
		First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) UpdateMultiCurrency(ctx context.Context, payment *entity.PosPayment) error {
	return r.conn(ctx).Model(&entity.PosPayment{ID: payment.ID}).Updates(map[string]interface{}{
		"amount":                  payment.Amount,
		"payment_currency_id":     payment.PaymentCurrencyID,
		"payment_currency_amount": payment.PaymentCurrencyAmount,
		"exchange_rate":           payment.ExchangeRate,
		"rate_manually_edited":    payment.RateManuallyEdited,
	}).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.conn(ctx).Scopes(CompanyScope(ctx)).Delete(&entity.PosPayment{}, id).Error
}

func (r *paymentRepository) List(ctx context.Context, filter domainRepo.PaymentFilter) ([]entity.PosPayment, int64, error) {
	var payments []entity.PosPayment
	var total int64

	query := r.conn(ctx).Model(&entity.PosPayment{}).Scopes(CompanyScopeOn(ctx, "pos_payments"))
	if filter.SessionID != 0 {
		query = query.Where("pos_payments.session_id = ?", filter.SessionID)
	}
	if filter.OrderID != 0 {
		query = query.Where("pos_payments.order_id = ?", filter.OrderID)
	}
	if filter.WithCurrency || filter.ForeignOnly {
		query = query.Where("pos_payments.payment_currency_id IS NOT NULL")
	}
	if filter.ForeignOnly {
		query = query.
			Joins("JOIN pos_orders ON pos_orders.id = pos_payments.order_id").
			Where("pos_payments.payment_currency_id <> pos_orders.currency_id")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("PaymentCurrency").Order("pos_payments.id")
	if filter.Pagination != nil {
		filter.Pagination.Normalize()
		query = query.Offset(filter.Pagination.Offset()).Limit(filter.Pagination.PerPage)
	}
	err := query.Find(&payments).Error

	return payments, total, err
}
