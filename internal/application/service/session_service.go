package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/enum"
	"github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/sangkips/pos-multicurrency/pkg/pagination"
	"github.com/sangkips/pos-multicurrency/pkg/utils"
)

// SessionService handles POS sessions and their multi-currency summary
type SessionService struct {
	sessionRepo repository.SessionRepository
	configRepo  repository.ConfigRepository
	paymentRepo repository.PaymentRepository
	txManager   repository.TransactionManager
	recomputer  *Recomputer
	log         *logger.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	configRepo repository.ConfigRepository,
	paymentRepo repository.PaymentRepository,
	txManager repository.TransactionManager,
	recomputer *Recomputer,
	log *logger.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		configRepo:  configRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		recomputer:  recomputer,
		log:         log,
	}
}

// GetSession returns a session with its cached aggregate.
func (s *SessionService) GetSession(ctx context.Context, id uint) (*entity.PosSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	return session, nil
}

// OpenSession starts a session on a configuration that has none running.
func (s *SessionService) OpenSession(ctx context.Context, configID uint) (*entity.PosSession, error) {
	cfg, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperror.NewNotFoundError("POS configuration")
	}

	session := &entity.PosSession{
		Name:       utils.GenerateReferenceNo("POS"),
		ConfigID:   cfg.ID,
		CompanyID:  cfg.CompanyID,
		CurrencyID: cfg.CurrencyID,
		State:      enum.SessionStateOpened,
		OpenedAt:   time.Now().UTC(),
	}
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.sessionRepo.GetOpenByConfig(ctx, cfg.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperror.NewAppError(409, fmt.Sprintf("Session %s is still open for this configuration", open.Name))
		}
		return s.sessionRepo.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(s.log.WithField(ctx, "session_id", session.ID), "session opened")
	return session, nil
}

// CloseSession refreshes the session aggregate one last time and closes it.
func (s *SessionService) CloseSession(ctx context.Context, id uint) (*entity.PosSession, error) {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.GetSession(ctx, id)
		if err != nil {
			return err
		}
		if session.State == enum.SessionStateClosed {
			return apperror.ErrSessionClosed
		}

		changes := NewChangeSet()
		changes.MarkSession(session.ID)
		if err := s.recomputer.Flush(ctx, changes); err != nil {
			return err
		}
		return s.sessionRepo.Close(ctx, session.ID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(s.log.WithField(ctx, "session_id", id), "session closed")
	return s.GetSession(ctx, id)
}

// ViewForeignCurrencyBreakdown lists every session payment that has a currency.
func (s *SessionService) ViewForeignCurrencyBreakdown(ctx context.Context, id uint, page pagination.Params) (*entity.Action, *pagination.Pagination, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	page.Normalize()
	payments, total, err := s.paymentRepo.List(ctx, repository.PaymentFilter{
		SessionID:    session.ID,
		WithCurrency: true,
		Pagination:   &page,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list session payments: %w", err)
	}

	action := entity.NewListAction("Foreign Currency Breakdown", payments, "payment_currency_id")
	return action, pagination.New(page, total), nil
}
