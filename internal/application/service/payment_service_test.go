package service

import (
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
	"github.com/sangkips/pos-multicurrency/pkg/metrics"
)

func boolPtr(v bool) *bool { return &v }

func (s *serviceSuite) TestUpdatePaymentRecomputesOnWatchedChange() {
	order := s.syncOrder("Order-1", s.cash("10"), s.foreign(s.f.EUR.ID, "20", "18.4", "0.92", false))
	s.Equal(1.0, s.recomputations(metrics.LevelOrder))

	cash := order.Payments[0]
	updated, err := s.payments.UpdatePayment(s.ctx, cash.ID, &UpdatePaymentInput{
		PaymentCurrencyID:     idPtr(s.f.GBP.ID),
		PaymentCurrencyAmount: dec("7.9"),
		ExchangeRate:          dec("0.79"),
		RateManuallyEdited:    boolPtr(true),
	})
	s.Require().NoError(err)
	s.Equal(s.f.GBP.ID, *updated.PaymentCurrencyID)
	s.Equal(2.0, s.recomputations(metrics.LevelOrder))

	reloaded, err := s.orders.GetOrder(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(2, reloaded.ForeignCurrencyCount)
	s.Equal(1, reloaded.ManualRateCount)
	s.Equal("30", reloaded.TotalForeignAmount.String())

	session, err := s.sessions.GetSession(s.ctx, s.f.Session.ID)
	s.Require().NoError(err)
	s.Equal(2, session.ForeignPaymentCount)
	s.Equal(1, session.ManualRateEditCount)
}

func (s *serviceSuite) TestUpdatePaymentWithoutChangeSkipsRecompute() {
	order := s.syncOrder("Order-1", s.foreign(s.f.EUR.ID, "20", "18.4", "0.92", false))
	p := order.Payments[0]

	_, err := s.payments.UpdatePayment(s.ctx, p.ID, &UpdatePaymentInput{
		Amount:       dec("20"),
		ExchangeRate: dec("0.92"),
	})
	s.Require().NoError(err)

	s.Equal(1.0, s.recomputations(metrics.LevelOrder))
	s.Equal(1.0, s.recomputations(metrics.LevelSession))
}

func (s *serviceSuite) TestClearCurrencyRemovesForeignState() {
	order := s.syncOrder("Order-1", s.foreign(s.f.EUR.ID, "20", "18.4", "0.92", true))

	_, err := s.payments.UpdatePayment(s.ctx, order.Payments[0].ID, &UpdatePaymentInput{ClearCurrency: true})
	s.Require().NoError(err)

	reloaded, err := s.orders.GetOrder(s.ctx, order.ID)
	s.Require().NoError(err)
	s.False(reloaded.HasForeignPayments)
	s.Empty(reloaded.ForeignCurrencyDetails)

	session, err := s.sessions.GetSession(s.ctx, s.f.Session.ID)
	s.Require().NoError(err)
	s.False(session.HasForeignPayments)
	s.Empty(session.ForeignCurrencyBreakdown)
}

func (s *serviceSuite) TestUpdatePaymentUnknownCurrency() {
	order := s.syncOrder("Order-1", s.cash("10"))

	_, err := s.payments.UpdatePayment(s.ctx, order.Payments[0].ID, &UpdatePaymentInput{PaymentCurrencyID: idPtr(999)})
	s.requireAppError(err, 422)

	_, err = s.payments.UpdatePayment(s.ctx, 999, &UpdatePaymentInput{})
	s.requireAppError(err, 404)
}

func (s *serviceSuite) TestDeletePaymentRecomputes() {
	order := s.syncOrder("Order-1", s.cash("10"), s.foreign(s.f.EUR.ID, "20", "18.4", "0.92", false))

	s.Require().NoError(s.payments.DeletePayment(s.ctx, order.Payments[1].ID))

	reloaded, err := s.orders.GetOrder(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Len(reloaded.Payments, 1)
	s.False(reloaded.HasForeignPayments)

	_, err = s.payments.GetPayment(s.ctx, order.Payments[1].ID)
	s.requireAppError(err, 404)
}

func (s *serviceSuite) TestClosedSessionPaymentsAreReadOnly() {
	order := s.syncOrder("Order-1", s.cash("10"))
	_, err := s.sessions.CloseSession(s.ctx, s.f.Session.ID)
	s.Require().NoError(err)

	_, err = s.payments.UpdatePayment(s.ctx, order.Payments[0].ID, &UpdatePaymentInput{Amount: dec("1")})
	s.ErrorIs(err, apperror.ErrSessionClosed)

	err = s.payments.DeletePayment(s.ctx, order.Payments[0].ID)
	s.ErrorIs(err, apperror.ErrSessionClosed)
}

func (s *serviceSuite) TestChangeSetIgnoresUnwatchedEdits() {
	before := &entity.PosPayment{OrderID: 3, Amount: *dec("10"), ExchangeRate: *dec("1")}
	after := *before
	after.PaymentMethodID = 9

	changes := NewChangeSet()
	s.False(changes.PaymentUpdated(before, &after))
	s.True(changes.Empty())

	after.RateManuallyEdited = true
	s.True(changes.PaymentUpdated(before, &after))
	s.Equal([]uint{3}, changes.Orders())
}
