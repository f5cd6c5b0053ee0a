package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"gorm.io/gorm"
)

// configCurrenciesTable is the join table behind PosConfig.Currencies.
const configCurrenciesTable = "pos_config_currencies"

type configRepository struct {
	baseRepository
}

// NewConfigRepository creates a new POS configuration repository
func NewConfigRepository(db *gorm.DB) domainRepo.ConfigRepository {
	return &configRepository{baseRepository{db: db}}
}

func (r *configRepository) GetByID(ctx context.Context, id uint) (*entity.PosConfig, error) {
	var cfg entity.PosConfig
	err := r.conn(ctx).
		Scopes(CompanyScope(ctx)).
		Preload("Currency").
		Preload("Currencies", func(db *gorm.DB) *gorm.DB { return db.Order("currencies.id") }).
		Preload("RateEditGroup").
		First(&cfg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

// UpdateMultiCurrency writes the multi-currency columns and rewrites the
// allowed currency rows. The base currency and other columns are left as stored.
func (r *configRepository) UpdateMultiCurrency(ctx context.Context, cfg *entity.PosConfig) error {
	db := r.conn(ctx)
	err := db.Model(&entity.PosConfig{}).
		Where("id = ?", cfg.ID).
		Updates(map[string]interface{}{
			"multi_currency_enabled":            cfg.MultiCurrencyEnabled,
			"multi_currency_allow_rate_edit":    cfg.MultiCurrencyAllowRateEdit,
			"multi_currency_rate_edit_group_id": cfg.MultiCurrencyRateEditGroupID,
		}).Error
	if err != nil {
		return err
	}

	if err := db.Exec("DELETE FROM "+configCurrenciesTable+" WHERE pos_config_id = ?", cfg.ID).Error; err != nil {
		return err
	}
	if len(cfg.Currencies) == 0 {
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(cfg.Currencies))
	for _, cur := range cfg.Currencies {
		rows = append(rows, map[string]interface{}{"pos_config_id": cfg.ID, "currency_id": cur.ID})
	}
	return db.Table(configCurrenciesTable).Create(rows).Error
}

type paymentMethodRepository struct {
	baseRepository
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(db *gorm.DB) domainRepo.PaymentMethodRepository {
	return &paymentMethodRepository{baseRepository{db: db}}
}

func (r *paymentMethodRepository) GetByIDs(ctx context.Context, ids []uint) ([]entity.PaymentMethod, error) {
	var methods []entity.PaymentMethod
	if len(ids) == 0 {
		return methods, nil
	}
	err := r.conn(ctx).Scopes(CompanyScope(ctx)).Where("id IN ?", ids).Find(&methods).Error
	return methods, err
}

type userRepository struct {
	baseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{baseRepository{db: db}}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.conn(ctx).Preload("Groups").First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetWithGroups(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.conn(ctx).Preload("Groups").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) IsInGroup(ctx context.Context, userID uuid.UUID, groupID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("user_groups").
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error
	return count > 0, err
}
