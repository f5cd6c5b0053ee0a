package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/aggregate"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/repository"
	infraRepo "github.com/sangkips/pos-multicurrency/internal/infrastructure/repository"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
	"github.com/shopspring/decimal"
)

const (
	// MsgSessionIDRequired is returned when statistics are requested without a session.
	MsgSessionIDRequired = "session_id is required"
	// MsgSessionNotFound is returned when statistics are requested for an unknown session.
	MsgSessionNotFound = "Session not found"
)

var one = decimal.NewFromInt(1)

// RateTable holds the company-relative rates effective at one instant:
// one unit of the base currency buys Rate(id) units of currency id.
type RateTable struct {
	BaseCurrencyID uint
	rates          map[uint]decimal.Decimal
}

// NewRateTable builds a table from raw rates. Used by tests and the service.
func NewRateTable(baseCurrencyID uint, rates map[uint]decimal.Decimal) *RateTable {
	if rates == nil {
		rates = map[uint]decimal.Decimal{}
	}
	return &RateTable{BaseCurrencyID: baseCurrencyID, rates: rates}
}

// Rate returns the rate of currencyID. The base currency, a missing rate and
// a zero rate all give 1.
func (t *RateTable) Rate(currencyID uint) decimal.Decimal {
	if currencyID == t.BaseCurrencyID {
		return one
	}
	rate, ok := t.rates[currencyID]
	if !ok || rate.IsZero() {
		return one
	}
	return rate
}

// Conversion returns how many units of to one unit of from buys.
func (t *RateTable) Conversion(from, to uint) decimal.Decimal {
	if from == to {
		return one
	}
	fromRate := t.Rate(from)
	if fromRate.IsZero() {
		return one
	}
	return t.Rate(to).Div(fromRate)
}

// CurrencyInfo is the client-facing description of a currency.
type CurrencyInfo struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Rounding      float64 `json:"rounding"`
	Rate          float64 `json:"rate"`
	DecimalPlaces int32   `json:"decimal_places"`
	Position      string  `json:"position"`
	Active        bool    `json:"active"`
}

func (t *RateTable) currencyInfo(c *entity.Currency) CurrencyInfo {
	return CurrencyInfo{
		ID:            c.ID,
		Name:          c.Name,
		Symbol:        c.Symbol,
		Rounding:      c.Rounding.InexactFloat64(),
		Rate:          t.Rate(c.ID).InexactFloat64(),
		DecimalPlaces: c.DecimalPlaces(),
		Position:      string(c.Position),
		Active:        c.Active,
	}
}

// RatesResult is the payload of the rates query.
type RatesResult struct {
	Rates          map[uint]float64 `json:"rates"`
	BaseCurrencyID uint             `json:"base_currency_id"`
}

// StatisticsResult is the payload of the session statistics query.
// SessionID is null when no session was given.
type StatisticsResult struct {
	Statistics []aggregate.CurrencyStatistic `json:"statistics"`
	SessionID  *uint                         `json:"session_id"`
}

// ConversionResult is the payload of the conversion query.
type ConversionResult struct {
	FromCurrencyID uint    `json:"from_currency_id"`
	ToCurrencyID   uint    `json:"to_currency_id"`
	Rate           float64 `json:"rate"`
}

// RateService answers rate and statistics queries from the stored records.
type RateService struct {
	currencyRepo repository.CurrencyRepository
	companyRepo  repository.CompanyRepository
	sessionRepo  repository.SessionRepository
	paymentRepo  repository.PaymentRepository
	now          func() time.Time
}

// NewRateService creates a new rate service
func NewRateService(
	currencyRepo repository.CurrencyRepository,
	companyRepo repository.CompanyRepository,
	sessionRepo repository.SessionRepository,
	paymentRepo repository.PaymentRepository,
) *RateService {
	return &RateService{
		currencyRepo: currencyRepo,
		companyRepo:  companyRepo,
		sessionRepo:  sessionRepo,
		paymentRepo:  paymentRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used to pick effective rates.
func (s *RateService) WithClock(now func() time.Time) *RateService {
	s.now = now
	return s
}

func (s *RateService) company(ctx context.Context) (*entity.Company, error) {
	companyID, ok := infraRepo.GetCompanyID(ctx)
	if !ok {
		return nil, apperror.ErrCompanyRequired
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}
	return company, nil
}

// RateTable loads the rates of the caller's company effective now.
func (s *RateService) RateTable(ctx context.Context) (*RateTable, error) {
	company, err := s.company(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := s.currencyRepo.LatestRates(ctx, company.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	return NewRateTable(company.CurrencyID, rates), nil
}

// Rates returns the rate of every active currency against the company currency.
func (s *RateService) Rates(ctx context.Context) (*RatesResult, error) {
	table, err := s.RateTable(ctx)
	if err != nil {
		return nil, err
	}
	currencies, err := s.currencyRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}

	result := &RatesResult{
		Rates:          make(map[uint]float64, len(currencies)),
		BaseCurrencyID: table.BaseCurrencyID,
	}
	for _, c := range currencies {
		result.Rates[c.ID] = table.Rate(c.ID).InexactFloat64()
	}
	return result, nil
}

// ConversionRate returns how many units of to one unit of from buys today.
func (s *RateService) ConversionRate(ctx context.Context, from, to uint) (*ConversionResult, error) {
	table, err := s.RateTable(ctx)
	if err != nil {
		return nil, err
	}
	return &ConversionResult{
		FromCurrencyID: from,
		ToCurrencyID:   to,
		Rate:           table.Conversion(from, to).Round(6).InexactFloat64(),
	}, nil
}

// ListCurrencies returns the currencies with their current company rate.
func (s *RateService) ListCurrencies(ctx context.Context, activeOnly bool) ([]CurrencyInfo, error) {
	table, err := s.RateTable(ctx)
	if err != nil {
		return nil, err
	}
	currencies, err := s.currencyRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}

	infos := make([]CurrencyInfo, 0, len(currencies))
	for i := range currencies {
		infos = append(infos, table.currencyInfo(&currencies[i]))
	}
	return infos, nil
}

// AddRateInput represents a new dated rate for a currency
type AddRateInput struct {
	CurrencyID    uint
	Rate          decimal.Decimal
	EffectiveDate time.Time
}

// AddRate records a company rate for a currency.
func (s *RateService) AddRate(ctx context.Context, input *AddRateInput) (*entity.CurrencyRate, error) {
	if !input.Rate.IsPositive() {
		return nil, apperror.NewFieldValidationError("rate", "Rate must be a positive number.")
	}
	company, err := s.company(ctx)
	if err != nil {
		return nil, err
	}
	if input.CurrencyID == company.CurrencyID {
		return nil, apperror.NewFieldValidationError("currency_id", "The company currency always has a rate of 1.")
	}

	currency, err := s.currencyRepo.GetByID(ctx, input.CurrencyID)
	if err != nil {
		return nil, err
	}
	if currency == nil {
		return nil, apperror.NewNotFoundError("Currency")
	}

	effective := input.EffectiveDate
	if effective.IsZero() {
		effective = s.now()
	}
	rate := &entity.CurrencyRate{
		CurrencyID:    currency.ID,
		CompanyID:     company.ID,
		Rate:          input.Rate.Round(6),
		EffectiveDate: effective.UTC(),
	}
	if err := s.currencyRepo.CreateRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("create rate: %w", err)
	}
	return rate, nil
}

// Statistics aggregates the session's payments that carry a currency.
// The returned result is never nil; err describes a missing or unknown session.
func (s *RateService) Statistics(ctx context.Context, sessionID uint) (*StatisticsResult, error) {
	result := &StatisticsResult{Statistics: []aggregate.CurrencyStatistic{}}
	if sessionID == 0 {
		return result, apperror.NewBadRequestError(MsgSessionIDRequired)
	}
	result.SessionID = &sessionID

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return result, err
	}
	if session == nil {
		return result, apperror.NewAppError(404, MsgSessionNotFound)
	}

	payments, _, err := s.paymentRepo.List(ctx, repository.PaymentFilter{SessionID: sessionID, WithCurrency: true})
	if err != nil {
		return result, fmt.Errorf("list session payments: %w", err)
	}
	result.Statistics = aggregate.Statistics(payments)
	return result, nil
}
