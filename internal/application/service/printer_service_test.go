package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sangkips/pos-multicurrency/pkg/logger"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }

func (s *serviceSuite) TestPrintOrderReceipt() {
	order := s.syncOrder("Order-1",
		s.foreign(s.f.EUR.ID, "", "100", "", false),
		s.cash("5"),
	)

	p := &recordingPrinter{}
	svc := NewPrinterService(p, s.orders, "network", "Main Shop", 32, logger.Nop())

	receipt, err := svc.PrintOrderReceipt(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal("Order-1", receipt.OrderName)
	s.Require().Len(p.jobs, 1)

	text := string(p.jobs[0])
	s.Contains(text, "Main Shop")
	s.Contains(text, "Order-1")
	s.Contains(text, "(100.00 €)")
	s.Contains(text, "1 USD = 0.9200 EUR")
	s.NotContains(text, "rate set at the register")

	status := svc.GetStatus(s.ctx)
	s.True(status.Configured)
	s.True(status.Connected)
}

func (s *serviceSuite) TestPrintOrderReceiptPrinterFailure() {
	order := s.syncOrder("Order-1", s.cash("100"))

	svc := NewPrinterService(&recordingPrinter{err: errors.New("offline")}, s.orders, "usb", "Main Shop", 32, logger.Nop())

	receipt, err := svc.PrintOrderReceipt(s.ctx, order.ID)
	s.Require().Error(err)
	s.NotNil(receipt)

	_, err = svc.PrintOrderReceipt(s.ctx, 999)
	s.requireAppError(err, 404)
}

func (s *serviceSuite) TestFormatReceiptMarksManualRates() {
	order := s.syncOrder("Order-1", s.foreign(s.f.EUR.ID, "10", "9.5", "0.95", true))
	receipt, err := s.orders.Receipt(s.ctx, order.ID)
	s.Require().NoError(err)

	text := string(FormatReceipt("Shop", 48, receipt))
	s.Contains(text, "1 USD = 0.9500 EUR *")
	s.Contains(text, "* rate set at the register")
	s.True(strings.HasSuffix(text, "\x1dV\x01"))
}
