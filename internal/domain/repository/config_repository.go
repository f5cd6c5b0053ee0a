package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
)

// ConfigRepository defines the interface for POS configuration data operations
type ConfigRepository interface {
	// GetByID loads the configuration with its base currency and allowed currencies.
	GetByID(ctx context.Context, id uint) (*entity.PosConfig, error)
	// UpdateMultiCurrency persists the multi-currency fields and replaces the allowed set.
	UpdateMultiCurrency(ctx context.Context, cfg *entity.PosConfig) error
}

// PaymentMethodRepository defines the interface for payment method data operations
type PaymentMethodRepository interface {
	GetByIDs(ctx context.Context, ids []uint) ([]entity.PaymentMethod, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetWithGroups(ctx context.Context, id uuid.UUID) (*entity.User, error)
	IsInGroup(ctx context.Context, userID uuid.UUID, groupID uint) (bool, error)
}
