package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/sangkips/pos-multicurrency/pkg/printer"
)

// PrinterService prints order receipts on the configured thermal printer.
type PrinterService struct {
	printer     printer.Printer
	orders      *OrderService
	printerType string
	storeName   string
	width       int
	log         *logger.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	orders *OrderService,
	printerType string,
	storeName string,
	width int,
	log *logger.Logger,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		orders:      orders,
		printerType: printerType,
		storeName:   storeName,
		width:       width,
		log:         log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// PrintOrderReceipt composes the receipt of an order and sends it to the
// printer. The receipt is returned even when printing fails.
func (s *PrinterService) PrintOrderReceipt(ctx context.Context, orderID uint) (*entity.Receipt, error) {
	receipt, err := s.orders.Receipt(ctx, orderID)
	if err != nil {
		return nil, err
	}

	data := FormatReceipt(s.storeName, s.width, receipt)
	if err := s.printer.Print(ctx, data); err != nil {
		s.log.Error(s.log.WithField(ctx, "order_id", orderID), "receipt print failed", err)
		return receipt, fmt.Errorf("print receipt: %w", err)
	}
	return receipt, nil
}

// FormatReceipt converts a receipt into ESC/POS bytes. Foreign currency
// tenders are listed under the payments with their conversion rate.
func FormatReceipt(storeName string, width int, r *entity.Receipt) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(storeName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Order:", r.OrderName).
		KeyValue("Date:", r.Date).
		Separator('-')

	for _, p := range r.Payments {
		doc.KeyValue(p.Method, p.FormattedAmount)
		if p.ForeignAmount != "" {
			doc.Indent(2, "("+p.ForeignAmount+")")
		}
	}

	doc.Separator('-').
		SetBold(true).
		KeyValue("TOTAL:", r.FormattedTotal).
		SetBold(false)

	if len(r.ForeignPayments) > 0 {
		doc.Separator('-').Text("Foreign currency:")
		for _, line := range r.ForeignPayments {
			doc.KeyValue(line.CurrencyName, line.FormattedAmount)
			label := line.RateLabel
			if line.ManualRate {
				label += " *"
			}
			doc.Indent(2, label)
		}
		if hasManualRate(r.ForeignPayments) {
			doc.Text("* rate set at the register")
		}
	}

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you!").
		Text(strconv.Itoa(len(r.Payments)) + " payment(s)").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func hasManualRate(lines []entity.ReceiptForeignLine) bool {
	for _, l := range lines {
		if l.ManualRate {
			return true
		}
	}
	return false
}
