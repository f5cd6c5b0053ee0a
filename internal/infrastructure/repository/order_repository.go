package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	baseRepository
}

// NewOrderRepository creates a new POS order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{baseRepository{db: db}}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.PosOrder) error {
	return r.conn(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepository) GetByName(ctx context.Context, sessionID uint, name string) (*entity.PosOrder, error) {
	var order entity.PosOrder
	err := r.conn(ctx).
		Scopes(CompanyScope(ctx)).
		Where("session_id = ? AND name = ?", sessionID, name).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithPayments(ctx context.Context, id uint) (*entity.PosOrder, error) {
	var order entity.PosOrder
	err := r.conn(ctx).
		Scopes(CompanyScope(ctx)).
		Preload("Currency").
		Preload("Payments", byID).
		Preload("Payments.PaymentCurrency").
		Preload("Payments.PaymentMethod").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) UpdateAggregate(ctx context.Context, order *entity.PosOrder) error {
	return r.conn(ctx).Model(&entity.PosOrder{ID: order.ID}).Updates(map[string]interface{}{
		"has_foreign_payments":     order.HasForeignPayments,
		"foreign_currency_count":   order.ForeignCurrencyCount,
		"total_foreign_amount":     order.TotalForeignAmount,
		"manual_rate_count":        order.ManualRateCount,
		"foreign_currency_details": order.ForeignCurrencyDetails,
	}).Error
}
