package service

import (
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/enum"
	"github.com/sangkips/pos-multicurrency/pkg/pagination"
)

func (s *serviceSuite) TestOpenSessionRequiresPreviousClosed() {
	_, err := s.sessions.OpenSession(s.ctx, s.f.Config.ID)
	s.requireAppError(err, 409)

	_, err = s.sessions.CloseSession(s.ctx, s.f.Session.ID)
	s.Require().NoError(err)

	session, err := s.sessions.OpenSession(s.ctx, s.f.Config.ID)
	s.Require().NoError(err)
	s.Equal(enum.SessionStateOpened, session.State)
	s.Equal(s.f.USD.ID, session.CurrencyID)
	s.NotEqual(s.f.Session.ID, session.ID)
}

func (s *serviceSuite) TestCloseSessionTwice() {
	closed, err := s.sessions.CloseSession(s.ctx, s.f.Session.ID)
	s.Require().NoError(err)
	s.Equal(enum.SessionStateClosed, closed.State)
	s.NotNil(closed.ClosedAt)

	_, err = s.sessions.CloseSession(s.ctx, s.f.Session.ID)
	s.requireAppError(err, 409)
}

func (s *serviceSuite) TestSessionForeignBreakdownListsPaymentsWithCurrency() {
	s.syncOrder("Order-1",
		s.cash("10"),
		s.foreign(s.f.EUR.ID, "20", "18.4", "0.92", false),
		s.foreign(s.f.USD.ID, "5", "5", "1", false),
	)
	s.syncOrder("Order-2", s.foreign(s.f.GBP.ID, "50", "39.5", "0.79", true))

	action, page, err := s.sessions.ViewForeignCurrencyBreakdown(s.ctx, s.f.Session.ID, pagination.Params{Page: 1, PerPage: 2})
	s.Require().NoError(err)

	s.Equal(entity.ActionKindList, action.Kind)
	s.Equal("Foreign Currency Breakdown", action.Name)
	s.Len(action.Payments, 2)
	s.EqualValues(3, page.Total)
	s.True(page.HasNext)

	_, _, err = s.sessions.ViewForeignCurrencyBreakdown(s.ctx, 999, pagination.Params{})
	s.requireAppError(err, 404)
}

func (s *serviceSuite) TestSessionBreakdownCountsOrders() {
	s.syncOrder("Order-1", s.foreign(s.f.EUR.ID, "20", "18.4", "0.92", false))
	s.syncOrder("Order-2", s.foreign(s.f.EUR.ID, "10", "9.2", "0.92", true))

	session, err := s.sessions.GetSession(s.ctx, s.f.Session.ID)
	s.Require().NoError(err)

	detail := session.ForeignCurrencyBreakdown[s.f.EUR.ID]
	s.Equal(2, detail.OrderCount)
	s.Equal(2, detail.PaymentCount)
	s.Equal(1, detail.ManualEdits)
	s.Equal(30.0, detail.TotalBaseAmount)
	s.Equal(1, session.ForeignCurrencyCount)
}
