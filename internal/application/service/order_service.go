package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/shopspring/decimal"
)

// OrderService handles order sync and the order-level multi-currency views
type OrderService struct {
	sessionRepo  repository.SessionRepository
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	methodRepo   repository.PaymentMethodRepository
	currencyRepo repository.CurrencyRepository
	txManager    repository.TransactionManager
	rates        *RateService
	recomputer   *Recomputer
	log          *logger.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	sessionRepo repository.SessionRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	methodRepo repository.PaymentMethodRepository,
	currencyRepo repository.CurrencyRepository,
	txManager repository.TransactionManager,
	rates *RateService,
	recomputer *Recomputer,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		sessionRepo:  sessionRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		methodRepo:   methodRepo,
		currencyRepo: currencyRepo,
		txManager:    txManager,
		rates:        rates,
		recomputer:   recomputer,
		log:          log,
	}
}

// PaymentInput is a payment line pushed by the POS client. Nil amounts and
// rate are filled in from the rate table.
type PaymentInput struct {
	PaymentMethodID       uint
	Amount                *decimal.Decimal
	PaymentDate           time.Time
	PaymentCurrencyID     *uint
	PaymentCurrencyAmount *decimal.Decimal
	ExchangeRate          *decimal.Decimal
	RateManuallyEdited    bool
}

// SyncOrderInput represents an order pushed by the POS client
type SyncOrderInput struct {
	SessionID   uint
	Name        string
	AmountTotal decimal.Decimal
	DateOrder   time.Time
	Payments    []PaymentInput
}

// SyncOrder stores a client order with its payments and refreshes the
// order and session aggregates in the same transaction. An order already
// synced under the same name is returned as is.
func (s *OrderService) SyncOrder(ctx context.Context, input *SyncOrderInput) (*entity.PosOrder, bool, error) {
	session, err := s.sessionRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, false, err
	}
	if session == nil {
		return nil, false, apperror.NewNotFoundError("Session")
	}
	if !session.State.AcceptsOrders() {
		return nil, false, apperror.ErrSessionClosed
	}

	existing, err := s.orderRepo.GetByName(ctx, session.ID, input.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		order, err := s.GetOrder(ctx, existing.ID)
		return order, false, err
	}

	payments, err := s.buildPayments(ctx, session, input.Payments)
	if err != nil {
		return nil, false, err
	}

	dateOrder := input.DateOrder
	if dateOrder.IsZero() {
		dateOrder = time.Now().UTC()
	}
	order := &entity.PosOrder{
		Name:        input.Name,
		SessionID:   session.ID,
		CompanyID:   session.CompanyID,
		CurrencyID:  session.CurrencyID,
		AmountTotal: input.AmountTotal,
		DateOrder:   dateOrder,
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		changes := NewChangeSet()
		for i := range payments {
			payments[i].OrderID = order.ID
			if payments[i].PaymentDate.IsZero() {
				payments[i].PaymentDate = dateOrder
			}
		}
		if err := s.paymentRepo.CreateBatch(ctx, payments); err != nil {
			return fmt.Errorf("create payments: %w", err)
		}
		for i := range payments {
			changes.PaymentCreated(&payments[i])
		}
		changes.MarkOrder(order.ID)

		return s.recomputer.Flush(ctx, changes)
	})
	if err != nil {
		return nil, false, err
	}

	logCtx := s.log.WithFields(ctx, map[string]any{
		"order_id":   order.ID,
		"session_id": session.ID,
		"payments":   len(payments),
	})
	s.log.Info(logCtx, "order synced")

	created, err := s.GetOrder(ctx, order.ID)
	return created, true, err
}

func (s *OrderService) buildPayments(ctx context.Context, session *entity.PosSession, inputs []PaymentInput) ([]entity.PosPayment, error) {
	methodIDs := make([]uint, 0, len(inputs))
	currencyIDs := []uint{session.CurrencyID}
	for _, in := range inputs {
		methodIDs = append(methodIDs, in.PaymentMethodID)
		if in.PaymentCurrencyID != nil {
			currencyIDs = append(currencyIDs, *in.PaymentCurrencyID)
		}
	}

	methodList, err := s.methodRepo.GetByIDs(ctx, uniqueIDs(methodIDs))
	if err != nil {
		return nil, fmt.Errorf("load payment methods: %w", err)
	}
	methods := make(map[uint]*entity.PaymentMethod, len(methodList))
	for i := range methodList {
		methods[methodList[i].ID] = &methodList[i]
		if methodList[i].FixedCurrencyID != nil {
			currencyIDs = append(currencyIDs, *methodList[i].FixedCurrencyID)
		}
	}

	currencyList, err := s.currencyRepo.GetByIDs(ctx, uniqueIDs(currencyIDs))
	if err != nil {
		return nil, fmt.Errorf("load currencies: %w", err)
	}
	currencies := make(map[uint]*entity.Currency, len(currencyList))
	for i := range currencyList {
		currencies[currencyList[i].ID] = &currencyList[i]
	}
	orderCurrency, ok := currencies[session.CurrencyID]
	if !ok {
		return nil, apperror.NewNotFoundError("Session currency")
	}

	table, err := s.rates.RateTable(ctx)
	if err != nil {
		return nil, err
	}

	payments := make([]entity.PosPayment, 0, len(inputs))
	for i, in := range inputs {
		method, ok := methods[in.PaymentMethodID]
		if !ok {
			return nil, apperror.NewFieldValidationError(fmt.Sprintf("payments[%d].payment_method_id", i), "Unknown payment method")
		}
		payment, err := registerPayment(in, method, orderCurrency, currencies, table)
		if err != nil {
			return nil, withFieldPrefix(err, fmt.Sprintf("payments[%d].", i))
		}
		payment.SessionID = session.ID
		payment.CompanyID = session.CompanyID
		payments = append(payments, payment)
	}
	return payments, nil
}

// registerPayment fills the multi-currency defaults of a new payment line:
// the method's fixed currency when none is given, the table rate when no rate
// is given, and whichever of the two amounts is missing.
func registerPayment(
	in PaymentInput,
	method *entity.PaymentMethod,
	orderCurrency *entity.Currency,
	currencies map[uint]*entity.Currency,
	table *RateTable,
) (entity.PosPayment, error) {
	p := entity.PosPayment{
		PaymentMethodID: method.ID,
		PaymentDate:     in.PaymentDate,
	}

	currencyID := in.PaymentCurrencyID
	if currencyID == nil && method.FixedCurrencyID != nil {
		fixed := *method.FixedCurrencyID
		currencyID = &fixed
	}

	if currencyID == nil {
		if in.Amount == nil {
			return p, apperror.NewFieldValidationError("amount", "is required")
		}
		p.Amount = *in.Amount
		p.PaymentCurrencyAmount = *in.Amount
		p.ExchangeRate = one
		return p, nil
	}

	paymentCurrency, ok := currencies[*currencyID]
	if !ok {
		return p, apperror.NewFieldValidationError("payment_currency_id", "Unknown currency")
	}
	p.PaymentCurrencyID = currencyID

	if in.ExchangeRate != nil && in.ExchangeRate.IsPositive() {
		p.ExchangeRate = in.ExchangeRate.Round(6)
		p.RateManuallyEdited = in.RateManuallyEdited
	} else {
		p.ExchangeRate = table.Conversion(orderCurrency.ID, paymentCurrency.ID).Round(6)
	}
	rate := p.ExchangeRate
	if !rate.IsPositive() {
		rate = one
	}

	switch {
	case in.Amount != nil && in.PaymentCurrencyAmount != nil:
		p.Amount = *in.Amount
		p.PaymentCurrencyAmount = *in.PaymentCurrencyAmount
	case in.Amount != nil:
		p.Amount = *in.Amount
		p.PaymentCurrencyAmount = paymentCurrency.Round(in.Amount.Mul(rate))
	case in.PaymentCurrencyAmount != nil:
		p.PaymentCurrencyAmount = *in.PaymentCurrencyAmount
		p.Amount = orderCurrency.Round(in.PaymentCurrencyAmount.Div(rate))
	default:
		return p, apperror.NewFieldValidationError("amount", "is required")
	}
	return p, nil
}

func withFieldPrefix(err error, prefix string) error {
	appErr := apperror.GetAppError(err)
	if len(appErr.Errors) == 0 {
		return err
	}
	fields := make([]apperror.FieldError, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, apperror.FieldError{Field: prefix + fe.Field, Message: fe.Message})
	}
	return apperror.NewValidationError(fields)
}

// GetOrder returns an order with its payments.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*entity.PosOrder, error) {
	order, err := s.orderRepo.GetWithPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ExportForUI returns the order payload for the POS client.
func (s *OrderService) ExportForUI(ctx context.Context, id uint) (*entity.OrderUIPayload, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := order.ExportForUI()
	return &payload, nil
}

// ViewForeignCurrencyDetails lists the order's foreign payments grouped by currency.
func (s *OrderService) ViewForeignCurrencyDetails(ctx context.Context, id uint) (*entity.Action, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return foreignDetailsAction(order), nil
}

func foreignDetailsAction(order *entity.PosOrder) *entity.Action {
	action := entity.NewListAction(
		"Foreign Currency Payments - "+order.Name,
		order.ForeignPayments(),
		"payment_currency_id",
	)
	action.Context = map[string]string{
		"default_pos_order_id": fmt.Sprint(order.ID),
	}
	return action
}

// ViewCurrencyBreakdown lists the foreign payments, or warns when there are none.
func (s *OrderService) ViewCurrencyBreakdown(ctx context.Context, id uint) (*entity.Action, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.HasForeignPayments {
		return entity.NewNotificationAction(entity.Notification{
			Title:   "No Foreign Payments",
			Message: "This order has no foreign currency payments.",
			Type:    entity.NotificationWarning,
			Sticky:  false,
		}), nil
	}
	return foreignDetailsAction(order), nil
}

// Receipt composes the printable receipt of an order.
func (s *OrderService) Receipt(ctx context.Context, id uint) (*entity.Receipt, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Currency == nil {
		return nil, apperror.NewNotFoundError("Order currency")
	}
	receipt := buildReceipt(order)
	return &receipt, nil
}
