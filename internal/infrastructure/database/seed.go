package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/config"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/enum"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/sangkips/pos-multicurrency/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// seedRateDate is the effective date of the seeded exchange rates.
var seedRateDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type seedCurrency struct {
	name     string
	symbol   string
	rounding string
	position enum.CurrencyPosition
	rate     string
}

var defaultCurrencies = []seedCurrency{
	{"USD", "$", "0.01", enum.CurrencyPositionBefore, ""},
	{"EUR", "€", "0.01", enum.CurrencyPositionAfter, "0.92"},
	{"GBP", "£", "0.01", enum.CurrencyPositionBefore, "0.79"},
	{"JPY", "¥", "1", enum.CurrencyPositionBefore, "149.5"},
}

// SeedDefaultData creates the base company, currencies, groups and the admin
// user when they do not exist yet. It is safe to run on every start.
func SeedDefaultData(ctx context.Context, db *gorm.DB, admin config.AdminConfig, log *logger.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currencies := make(map[string]entity.Currency, len(defaultCurrencies))
		for _, sc := range defaultCurrencies {
			cur := entity.Currency{
				Name:     sc.name,
				Symbol:   sc.symbol,
				Rounding: decimal.RequireFromString(sc.rounding),
				Position: sc.position,
				Active:   true,
			}
			if err := tx.Where(entity.Currency{Name: sc.name}).FirstOrCreate(&cur).Error; err != nil {
				return fmt.Errorf("seed currency %s: %w", sc.name, err)
			}
			currencies[sc.name] = cur
		}

		company := entity.Company{Name: "My Company", CurrencyID: currencies["USD"].ID}
		if err := tx.Where(entity.Company{Name: company.Name}).FirstOrCreate(&company).Error; err != nil {
			return fmt.Errorf("seed company: %w", err)
		}

		for _, sc := range defaultCurrencies {
			if sc.rate == "" {
				continue
			}
			rate := entity.CurrencyRate{
				CurrencyID:    currencies[sc.name].ID,
				CompanyID:     company.ID,
				EffectiveDate: seedRateDate,
			}
			attrs := entity.CurrencyRate{Rate: decimal.RequireFromString(sc.rate)}
			if err := tx.Where(rate).Attrs(attrs).FirstOrCreate(&rate).Error; err != nil {
				return fmt.Errorf("seed rate %s: %w", sc.name, err)
			}
		}

		groups := make(map[string]entity.Group, 3)
		for _, name := range []string{entity.GroupPosUser, entity.GroupPosManager, entity.GroupRateEditors} {
			g := entity.Group{Name: name}
			if err := tx.Where(entity.Group{Name: name}).FirstOrCreate(&g).Error; err != nil {
				return fmt.Errorf("seed group %s: %w", name, err)
			}
			groups[name] = g
		}

		methods := []entity.PaymentMethod{
			{Name: "Cash", CompanyID: company.ID},
			{Name: "Card", CompanyID: company.ID},
			{Name: "Cash EUR", CompanyID: company.ID, FixedCurrencyID: uintPtr(currencies["EUR"].ID)},
		}
		for i := range methods {
			if err := tx.Where(entity.PaymentMethod{Name: methods[i].Name, CompanyID: company.ID}).
				Attrs(entity.PaymentMethod{FixedCurrencyID: methods[i].FixedCurrencyID}).
				FirstOrCreate(&methods[i]).Error; err != nil {
				return fmt.Errorf("seed payment method %s: %w", methods[i].Name, err)
			}
		}

		var cfgCount int64
		if err := tx.Model(&entity.PosConfig{}).Where("company_id = ?", company.ID).Count(&cfgCount).Error; err != nil {
			return err
		}
		if cfgCount == 0 {
			rateEditors := groups[entity.GroupRateEditors].ID
			posCfg := entity.PosConfig{
				Name:                         "Main Shop",
				CompanyID:                    company.ID,
				CurrencyID:                   company.CurrencyID,
				MultiCurrencyRateEditGroupID: &rateEditors,
			}
			if err := tx.Omit("Currencies.*").Create(&posCfg).Error; err != nil {
				return fmt.Errorf("seed pos config: %w", err)
			}
		}

		return seedAdmin(ctx, tx, admin, company, groups, log)
	})
}

func seedAdmin(ctx context.Context, tx *gorm.DB, admin config.AdminConfig, company entity.Company, groups map[string]entity.Group, log *logger.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	var existing entity.User
	err := tx.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user := entity.User{
		Name:      admin.Name,
		Email:     admin.Email,
		Password:  hashed,
		CompanyID: company.ID,
		Groups: []entity.Group{
			groups[entity.GroupPosUser],
			groups[entity.GroupPosManager],
			groups[entity.GroupRateEditors],
		},
	}
	if err := tx.Omit("Groups.*").Create(&user).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info(log.WithField(ctx, "email", admin.Email), "admin user created")
	return nil
}

func uintPtr(v uint) *uint { return &v }
