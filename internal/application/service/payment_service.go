package service

import (
	"context"
	"fmt"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/shopspring/decimal"
)

// PaymentService handles edits of synced payment lines
type PaymentService struct {
	paymentRepo  repository.PaymentRepository
	sessionRepo  repository.SessionRepository
	currencyRepo repository.CurrencyRepository
	txManager    repository.TransactionManager
	recomputer   *Recomputer
	log          *logger.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	sessionRepo repository.SessionRepository,
	currencyRepo repository.CurrencyRepository,
	txManager repository.TransactionManager,
	recomputer *Recomputer,
	log *logger.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		sessionRepo:  sessionRepo,
		currencyRepo: currencyRepo,
		txManager:    txManager,
		recomputer:   recomputer,
		log:          log,
	}
}

// UpdatePaymentInput carries the fields to change. Nil fields are kept;
// ClearCurrency unsets the payment currency.
type UpdatePaymentInput struct {
	Amount                *decimal.Decimal
	PaymentCurrencyID     *uint
	ClearCurrency         bool
	PaymentCurrencyAmount *decimal.Decimal
	ExchangeRate          *decimal.Decimal
	RateManuallyEdited    *bool
}

// GetPayment returns a payment line.
func (s *PaymentService) GetPayment(ctx context.Context, id uint) (*entity.PosPayment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

func (s *PaymentService) editable(ctx context.Context, id uint) (*entity.PosPayment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, payment.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.State.AcceptsOrders() {
		return nil, apperror.ErrSessionClosed
	}
	return payment, nil
}

// UpdatePayment changes the amount or multi-currency fields of a payment.
// Aggregates are refreshed only when a field they read has changed.
func (s *PaymentService) UpdatePayment(ctx context.Context, id uint, input *UpdatePaymentInput) (*entity.PosPayment, error) {
	if input.PaymentCurrencyID != nil {
		currency, err := s.currencyRepo.GetByID(ctx, *input.PaymentCurrencyID)
		if err != nil {
			return nil, err
		}
		if currency == nil {
			return nil, apperror.NewFieldValidationError("payment_currency_id", "Unknown currency")
		}
	}

	var recomputed bool
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		before, err := s.editable(ctx, id)
		if err != nil {
			return err
		}

		after := *before
		if input.Amount != nil {
			after.Amount = *input.Amount
		}
		if input.ClearCurrency {
			after.PaymentCurrencyID = nil
		} else if input.PaymentCurrencyID != nil {
			currencyID := *input.PaymentCurrencyID
			after.PaymentCurrencyID = &currencyID
		}
		if input.PaymentCurrencyAmount != nil {
			after.PaymentCurrencyAmount = *input.PaymentCurrencyAmount
		}
		if input.ExchangeRate != nil {
			after.ExchangeRate = input.ExchangeRate.Round(6)
		}
		if input.RateManuallyEdited != nil {
			after.RateManuallyEdited = *input.RateManuallyEdited
		}

		if err := s.paymentRepo.UpdateMultiCurrency(ctx, &after); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		changes := NewChangeSet()
		if recomputed = changes.PaymentUpdated(before, &after); !recomputed {
			return nil
		}
		return s.recomputer.Flush(ctx, changes)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.log.WithFields(ctx, map[string]any{"payment_id": id, "recomputed": recomputed})
	s.log.Info(logCtx, "payment updated")

	return s.GetPayment(ctx, id)
}

// DeletePayment removes a payment line and refreshes its order and session.
func (s *PaymentService) DeletePayment(ctx context.Context, id uint) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.editable(ctx, id)
		if err != nil {
			return err
		}
		if err := s.paymentRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}

		changes := NewChangeSet()
		changes.PaymentDeleted(payment)
		return s.recomputer.Flush(ctx, changes)
	})
}
