package repository

import (
	"context"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/pkg/pagination"
)

// SessionRepository defines the interface for POS session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *entity.PosSession) error
	// GetOpenByConfig returns the session of the configuration that is not closed yet.
	GetOpenByConfig(ctx context.Context, configID uint) (*entity.PosSession, error)
	Close(ctx context.Context, id uint, at time.Time) error
	GetByID(ctx context.Context, id uint) (*entity.PosSession, error)
	// GetWithOrders loads the session with every order and its payments.
	GetWithOrders(ctx context.Context, id uint) (*entity.PosSession, error)
	// UpdateAggregate writes only the derived foreign-payment columns.
	UpdateAggregate(ctx context.Context, session *entity.PosSession) error
}

// OrderRepository defines the interface for POS order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.PosOrder) error
	GetByName(ctx context.Context, sessionID uint, name string) (*entity.PosOrder, error)
	// GetWithPayments loads the order with its currency and payments.
	GetWithPayments(ctx context.Context, id uint) (*entity.PosOrder, error)
	// UpdateAggregate writes only the derived foreign-payment columns.
	UpdateAggregate(ctx context.Context, order *entity.PosOrder) error
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	SessionID    uint
	OrderID      uint
	ForeignOnly  bool // currency set and different from the order currency
	WithCurrency bool // currency set
	Pagination   *pagination.Params
}

// PaymentRepository defines the interface for POS payment data operations
type PaymentRepository interface {
	CreateBatch(ctx context.Context, payments []entity.PosPayment) error
	GetByID(ctx context.Context, id uint) (*entity.PosPayment, error)
	// UpdateMultiCurrency writes the amount and the four multi-currency fields.
	UpdateMultiCurrency(ctx context.Context, payment *entity.PosPayment) error
	Delete(ctx context.Context, id uint) error
	// List returns matching payments ordered by id with their currency preloaded.
	List(ctx context.Context, filter PaymentFilter) ([]entity.PosPayment, int64, error)
}
