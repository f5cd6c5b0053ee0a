package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRepository struct {
	baseRepository
}

// NewSessionRepository creates a new POS session repository
func NewSessionRepository(db *gorm.DB) domainRepo.SessionRepository {
	return &sessionRepository{baseRepository{db: db}}
}

func byID(db *gorm.DB) *gorm.DB { return db.Order("id") }

func (r *sessionRepository) Create(ctx context.Context, session *entity.PosSession) error {
	return r.conn(ctx).Omit(clause.Associations).Create(session).Error
}

func (r *sessionRepository) GetOpenByConfig(ctx context.Context, configID uint) (*entity.PosSession, error) {
	var session entity.PosSession
	err := r.conn(ctx).
		Scopes(CompanyScope(ctx)).
		Where("config_id = ? AND state <> ?", configID, enum.SessionStateClosed).
		Order("id DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) Close(ctx context.Context, id uint, at time.Time) error {
	return r.conn(ctx).Model(&entity.PosSession{ID: id}).Updates(map[string]interface{}{
		"state":     enum.SessionStateClosed,
		"closed_at": at,
	}).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (*entity.PosSession, error) {
	var session entity.PosSession
	err := r.conn(ctx).Scopes(CompanyScope(ctx)).First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) GetWithOrders(ctx context.Context, id uint) (*entity.PosSession, error) {
	var session entity.PosSession
	err := r.conn(ctx).
		Scopes(CompanyScope(ctx)).
		Preload("Orders", byID).
		Preload("Orders.Payments", byID).
		Preload("Orders.Payments.PaymentCurrency").
		First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) UpdateAggregate(ctx context.Context, session *entity.PosSession) error {
	return r.conn(ctx).Model(&entity.PosSession{ID: session.ID}).Updates(map[string]interface{}{
		"has_foreign_payments":       session.HasForeignPayments,
		"foreign_currency_count":     session.ForeignCurrencyCount,
		"total_foreign_amount":       session.TotalForeignAmount,
		"foreign_payment_count":      session.ForeignPaymentCount,
		"manual_rate_edit_count":     session.ManualRateEditCount,
		"foreign_currency_breakdown": session.ForeignCurrencyBreakdown,
	}).Error
}
