package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/aggregate"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateTable(t *testing.T) {
	table := NewRateTable(1, map[uint]decimal.Decimal{
		2: decimal.RequireFromString("0.92"),
		3: decimal.RequireFromString("0.79"),
		4: decimal.Zero,
	})

	assert.True(t, table.Rate(1).Equal(decimal.NewFromInt(1)))
	assert.True(t, table.Rate(2).Equal(decimal.RequireFromString("0.92")))
	assert.True(t, table.Rate(4).Equal(decimal.NewFromInt(1)), "zero rate")
	assert.True(t, table.Rate(9).Equal(decimal.NewFromInt(1)), "missing rate")

	assert.True(t, table.Conversion(2, 2).Equal(decimal.NewFromInt(1)))
	assert.True(t, table.Conversion(1, 2).Equal(decimal.RequireFromString("0.92")))
	assert.Equal(t, "1.086957", table.Conversion(2, 1).Round(6).String())
	assert.Equal(t, "0.858696", table.Conversion(2, 3).Round(6).String())
}

func (s *serviceSuite) TestRatesCoverActiveCurrencies() {
	result, err := s.rates.Rates(s.ctx)
	s.Require().NoError(err)

	s.Equal(s.f.USD.ID, result.BaseCurrencyID)
	s.Equal(map[uint]float64{
		s.f.USD.ID: 1,
		s.f.EUR.ID: 0.92,
		s.f.GBP.ID: 0.79,
		s.f.JPY.ID: 1,
	}, result.Rates)
}

func (s *serviceSuite) TestRatesRequireCompany() {
	_, err := s.rates.Rates(context.Background())
	s.ErrorIs(err, apperror.ErrCompanyRequired)
}

func (s *serviceSuite) TestConversionRate() {
	conv, err := s.rates.ConversionRate(s.ctx, s.f.EUR.ID, s.f.GBP.ID)
	s.Require().NoError(err)
	s.Equal(0.858696, conv.Rate)

	same, err := s.rates.ConversionRate(s.ctx, s.f.JPY.ID, s.f.JPY.ID)
	s.Require().NoError(err)
	s.Equal(1.0, same.Rate)
}

func (s *serviceSuite) TestListCurrenciesCarriesRates() {
	infos, err := s.rates.ListCurrencies(s.ctx, false)
	s.Require().NoError(err)
	s.Len(infos, 5)

	byName := map[string]CurrencyInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	s.Equal(0.88, byName["CHF"].Rate)
	s.False(byName["CHF"].Active)
	s.Equal(int32(0), byName["JPY"].DecimalPlaces)
	s.Equal("after", byName["EUR"].Position)
}

func (s *serviceSuite) TestAddRate() {
	_, err := s.rates.AddRate(s.ctx, &AddRateInput{CurrencyID: s.f.EUR.ID, Rate: decimal.Zero})
	appErr := s.requireAppError(err, 422)
	s.Equal("rate", appErr.Errors[0].Field)

	_, err = s.rates.AddRate(s.ctx, &AddRateInput{CurrencyID: s.f.USD.ID, Rate: decimal.NewFromInt(2)})
	s.requireAppError(err, 422)

	_, err = s.rates.AddRate(s.ctx, &AddRateInput{CurrencyID: 999, Rate: decimal.NewFromInt(2)})
	s.requireAppError(err, 404)

	rate, err := s.rates.AddRate(s.ctx, &AddRateInput{CurrencyID: s.f.JPY.ID, Rate: decimal.RequireFromString("149.5")})
	s.Require().NoError(err)
	s.True(rate.EffectiveDate.Equal(testNow))

	result, err := s.rates.Rates(s.ctx)
	s.Require().NoError(err)
	s.Equal(149.5, result.Rates[s.f.JPY.ID])
}

func (s *serviceSuite) TestFutureRateIsIgnoredUntilEffective() {
	later := s.rates.WithClock(func() time.Time { return time.Date(2999, 6, 1, 0, 0, 0, 0, time.UTC) })

	result, err := later.Rates(s.ctx)
	s.Require().NoError(err)
	s.Equal(0.99, result.Rates[s.f.EUR.ID])
}

func (s *serviceSuite) TestStatisticsWithoutSession() {
	result, err := s.rates.Statistics(s.ctx, 0)

	s.Equal(MsgSessionIDRequired, apperror.GetAppError(err).Message)
	s.Nil(result.SessionID)
	s.NotNil(result.Statistics)
	s.Empty(result.Statistics)
}

func (s *serviceSuite) TestStatisticsUnknownSession() {
	result, err := s.rates.Statistics(s.ctx, 4242)

	s.Equal(MsgSessionNotFound, apperror.GetAppError(err).Message)
	s.Require().NotNil(result.SessionID)
	s.Equal(uint(4242), *result.SessionID)
	s.Empty(result.Statistics)
}

func (s *serviceSuite) TestStatisticsAggregatesPaymentsWithCurrency() {
	s.syncOrder("Order-1",
		s.foreign(s.f.GBP.ID, "50", "39.5", "0.79", false),
		s.cash("9"),
		s.foreign(s.f.USD.ID, "30", "30", "1", true),
	)
	s.syncOrder("Order-2", s.foreign(s.f.GBP.ID, "10", "7.9", "0.79", true))

	result, err := s.rates.Statistics(s.ctx, s.f.Session.ID)
	s.Require().NoError(err)
	s.Require().Len(result.Statistics, 2)
	s.Equal(aggregate.CurrencyStatistic{
		CurrencyID: s.f.GBP.ID, CurrencyName: "GBP", TotalAmount: 47.4, TotalBaseAmount: 60,
		TransactionCount: 2, ManuallyEditedCount: 1,
	}, result.Statistics[0])
	s.Equal(s.f.USD.ID, result.Statistics[1].CurrencyID)
	s.Equal(s.f.Session.ID, *result.SessionID)
}
