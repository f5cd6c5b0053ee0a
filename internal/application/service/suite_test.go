package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/infrastructure/repository"
	"github.com/sangkips/pos-multicurrency/internal/testutil"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/sangkips/pos-multicurrency/pkg/metrics"
	"github.com/sangkips/pos-multicurrency/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type serviceSuite struct {
	suite.Suite

	db       *gorm.DB
	f        *testutil.Fixtures
	ctx      context.Context
	registry *prometheus.Registry

	rates    *RateService
	configs  *ConfigService
	orders   *OrderService
	payments *PaymentService
	sessions *SessionService
	auth     *AuthService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(serviceSuite))
}

func (s *serviceSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.f = testutil.Seed(s.T(), s.db)
	s.ctx = s.f.Ctx()
	s.registry = prometheus.NewRegistry()

	log := logger.Nop()
	currencyRepo := repository.NewCurrencyRepository(s.db)
	sessionRepo := repository.NewSessionRepository(s.db)
	orderRepo := repository.NewOrderRepository(s.db)
	paymentRepo := repository.NewPaymentRepository(s.db)
	configRepo := repository.NewConfigRepository(s.db)
	userRepo := repository.NewUserRepository(s.db)
	txManager := repository.NewTransactionManager(s.db)

	s.rates = NewRateService(currencyRepo, repository.NewCompanyRepository(s.db), sessionRepo, paymentRepo).
		WithClock(func() time.Time { return testNow })
	recomputer := NewRecomputer(orderRepo, sessionRepo, metrics.NewRecomputeMetrics(s.registry), log)

	s.configs = NewConfigService(configRepo, currencyRepo, userRepo, txManager, s.rates, log)
	s.orders = NewOrderService(sessionRepo, orderRepo, paymentRepo, repository.NewPaymentMethodRepository(s.db),
		currencyRepo, txManager, s.rates, recomputer, log)
	s.payments = NewPaymentService(paymentRepo, sessionRepo, currencyRepo, txManager, recomputer, log)
	s.sessions = NewSessionService(sessionRepo, configRepo, paymentRepo, txManager, recomputer, log)
	s.auth = NewAuthService(userRepo, utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour))
}

// recomputations reads the recompute counter for level from the registry.
func (s *serviceSuite) recomputations(level string) float64 {
	families, err := s.registry.Gather()
	s.Require().NoError(err)
	for _, mf := range families {
		if mf.GetName() != "pos_aggregate_recomputations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "level" && l.GetValue() == level {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func (s *serviceSuite) requireAppError(err error, code int) *apperror.AppError {
	s.Require().Error(err)
	appErr := apperror.GetAppError(err)
	s.Require().Equal(code, appErr.Code, appErr.Message)
	return appErr
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func idPtr(v uint) *uint { return &v }

// syncOrder pushes an order with the given payments to the fixture session.
func (s *serviceSuite) syncOrder(name string, payments ...PaymentInput) *entity.PosOrder {
	order, created, err := s.orders.SyncOrder(s.ctx, &SyncOrderInput{
		SessionID:   s.f.Session.ID,
		Name:        name,
		AmountTotal: decimal.NewFromInt(100),
		DateOrder:   testNow,
		Payments:    payments,
	})
	s.Require().NoError(err)
	s.Require().True(created)
	return order
}

func (s *serviceSuite) cash(amount string) PaymentInput {
	return PaymentInput{PaymentMethodID: s.f.Cash.ID, Amount: dec(amount)}
}

func (s *serviceSuite) foreign(currencyID uint, amount, foreign, rate string, manual bool) PaymentInput {
	in := PaymentInput{PaymentMethodID: s.f.Cash.ID, PaymentCurrencyID: idPtr(currencyID), RateManuallyEdited: manual}
	if amount != "" {
		in.Amount = dec(amount)
	}
	if foreign != "" {
		in.PaymentCurrencyAmount = dec(foreign)
	}
	if rate != "" {
		in.ExchangeRate = dec(rate)
	}
	return in
}
