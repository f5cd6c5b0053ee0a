package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
)

// ConfigService handles the multi-currency settings of POS configurations
type ConfigService struct {
	configRepo   repository.ConfigRepository
	currencyRepo repository.CurrencyRepository
	userRepo     repository.UserRepository
	txManager    repository.TransactionManager
	rates        *RateService
	log          *logger.Logger
}

// NewConfigService creates a new configuration service
func NewConfigService(
	configRepo repository.ConfigRepository,
	currencyRepo repository.CurrencyRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	rates *RateService,
	log *logger.Logger,
) *ConfigService {
	return &ConfigService{
		configRepo:   configRepo,
		currencyRepo: currencyRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		rates:        rates,
		log:          log,
	}
}

// MultiCurrencyConfig is what the POS client reads on start-up.
type MultiCurrencyConfig struct {
	Enabled       bool           `json:"enabled"`
	AllowRateEdit bool           `json:"allow_rate_edit"`
	CanEditRate   bool           `json:"can_edit_rate"`
	BaseCurrency  *CurrencyInfo  `json:"base_currency"`
	Currencies    []CurrencyInfo `json:"currencies"`
}

// PosConfigData is the multi-currency part of the configuration record sent to the client.
type PosConfigData struct {
	ID                         uint   `json:"id"`
	Name                       string `json:"name"`
	MultiCurrencyEnabled       bool   `json:"multi_currency_enabled"`
	MultiCurrencyAllowRateEdit bool   `json:"multi_currency_allow_rate_edit"`
	MultiCurrencyIDs           []uint `json:"multi_currency_ids"`
	MultiCurrencyCanEditRate   bool   `json:"multi_currency_can_edit_rate"`
}

// PosData is the session loading payload.
type PosData struct {
	Config     PosConfigData  `json:"config"`
	Currencies []CurrencyInfo `json:"currencies"`
}

// UpdateMultiCurrencyInput represents the editable multi-currency settings
type UpdateMultiCurrencyInput struct {
	Enabled         bool
	CurrencyIDs     []uint
	AllowRateEdit   bool
	RateEditGroupID *uint
}

// GetConfig returns a configuration with its currencies.
func (s *ConfigService) GetConfig(ctx context.Context, id uint) (*entity.PosConfig, error) {
	cfg, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperror.NewNotFoundError("POS configuration")
	}
	return cfg, nil
}

// canEditRate reports whether userID may override exchange rates on cfg.
func (s *ConfigService) canEditRate(ctx context.Context, cfg *entity.PosConfig, userID uuid.UUID) (bool, error) {
	if !cfg.MultiCurrencyAllowRateEdit || cfg.MultiCurrencyRateEditGroupID == nil {
		return false, nil
	}
	return s.userRepo.IsInGroup(ctx, userID, *cfg.MultiCurrencyRateEditGroupID)
}

// GetMultiCurrencyConfig returns the settings, the base currency and the
// currencies the cashier can pick from.
func (s *ConfigService) GetMultiCurrencyConfig(ctx context.Context, configID uint, userID uuid.UUID) (*MultiCurrencyConfig, error) {
	cfg, err := s.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	canEdit, err := s.canEditRate(ctx, cfg, userID)
	if err != nil {
		return nil, fmt.Errorf("check rate edit group: %w", err)
	}
	table, err := s.rates.RateTable(ctx)
	if err != nil {
		return nil, err
	}

	result := &MultiCurrencyConfig{
		Enabled:       cfg.MultiCurrencyEnabled,
		AllowRateEdit: cfg.MultiCurrencyAllowRateEdit,
		CanEditRate:   canEdit,
		Currencies:    []CurrencyInfo{},
	}
	if cfg.Currency != nil {
		base := table.currencyInfo(cfg.Currency)
		result.BaseCurrency = &base
	}

	if cfg.MultiCurrencyEnabled && len(cfg.Currencies) > 0 {
		for i := range cfg.Currencies {
			result.Currencies = append(result.Currencies, table.currencyInfo(&cfg.Currencies[i]))
		}
		if result.BaseCurrency != nil && !containsCurrency(cfg.CurrencyIDs(), cfg.CurrencyID) {
			result.Currencies = append(result.Currencies, *result.BaseCurrency)
		}
	} else if result.BaseCurrency != nil {
		result.Currencies = append(result.Currencies, *result.BaseCurrency)
	}
	return result, nil
}

// LoadPosData builds the configuration record for the client and tops up the
// currencies it already loaded with any configured currency it is missing.
func (s *ConfigService) LoadPosData(ctx context.Context, configID uint, userID uuid.UUID, loadedCurrencyIDs []uint) (*PosData, error) {
	cfg, err := s.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	canEdit, err := s.canEditRate(ctx, cfg, userID)
	if err != nil {
		return nil, fmt.Errorf("check rate edit group: %w", err)
	}
	table, err := s.rates.RateTable(ctx)
	if err != nil {
		return nil, err
	}

	data := &PosData{
		Config: PosConfigData{
			ID:                         cfg.ID,
			Name:                       cfg.Name,
			MultiCurrencyEnabled:       cfg.MultiCurrencyEnabled,
			MultiCurrencyAllowRateEdit: cfg.MultiCurrencyAllowRateEdit,
			MultiCurrencyIDs:           []uint{},
			MultiCurrencyCanEditRate:   canEdit,
		},
		Currencies: []CurrencyInfo{},
	}
	if cfg.MultiCurrencyEnabled {
		data.Config.MultiCurrencyIDs = cfg.CurrencyIDs()
	}

	loaded, err := s.currencyRepo.GetByIDs(ctx, loadedCurrencyIDs)
	if err != nil {
		return nil, fmt.Errorf("load client currencies: %w", err)
	}
	have := make(map[uint]struct{}, len(loaded))
	for i := range loaded {
		have[loaded[i].ID] = struct{}{}
		data.Currencies = append(data.Currencies, table.currencyInfo(&loaded[i]))
	}

	configured := []uint{cfg.CurrencyID}
	if cfg.MultiCurrencyEnabled {
		configured = cfg.ConfiguredCurrencyIDs()
	}
	var missing []uint
	for _, id := range configured {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return data, nil
	}

	extra, err := s.currencyRepo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("load configured currencies: %w", err)
	}
	for i := range extra {
		data.Currencies = append(data.Currencies, table.currencyInfo(&extra[i]))
	}
	return data, nil
}

// UpdateMultiCurrency replaces the multi-currency settings of a configuration.
// Nothing is written when the result would be invalid.
func (s *ConfigService) UpdateMultiCurrency(ctx context.Context, configID uint, input *UpdateMultiCurrencyInput) (*entity.PosConfig, error) {
	cfg, err := s.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}

	ids := uniqueIDs(input.CurrencyIDs)
	currencies, err := s.currencyRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load currencies: %w", err)
	}
	if len(currencies) != len(ids) {
		return nil, apperror.NewFieldValidationError("multi_currency_ids", "Unknown currency ids")
	}

	cfg.MultiCurrencyEnabled = input.Enabled
	cfg.Currencies = currencies
	cfg.MultiCurrencyAllowRateEdit = input.AllowRateEdit
	cfg.MultiCurrencyRateEditGroupID = input.RateEditGroupID
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.configRepo.UpdateMultiCurrency(ctx, cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("update configuration: %w", err)
	}

	logCtx := s.log.WithFields(ctx, map[string]any{
		"config_id":  cfg.ID,
		"enabled":    cfg.MultiCurrencyEnabled,
		"currencies": len(cfg.Currencies),
	})
	s.log.Info(logCtx, "multi-currency settings updated")

	return s.GetConfig(ctx, configID)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func containsCurrency(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
