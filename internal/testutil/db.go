// Package testutil provides in-memory databases and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/enum"
	"github.com/sangkips/pos-multicurrency/internal/infrastructure/database"
	"github.com/sangkips/pos-multicurrency/internal/infrastructure/repository"
	"github.com/sangkips/pos-multicurrency/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Password is the plain-text password of every fixture user.
const Password = "cashier-pass"

// NewDB opens a private in-memory sqlite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Fixtures is a small company: USD base, EUR/GBP rated, JPY unrated, CHF inactive.
type Fixtures struct {
	Company entity.Company
	USD     entity.Currency
	EUR     entity.Currency
	GBP     entity.Currency
	JPY     entity.Currency
	CHF     entity.Currency

	RateEditors entity.Group
	Cashier     entity.User
	Editor      entity.User

	Cash    entity.PaymentMethod
	CashEUR entity.PaymentMethod

	Config  entity.PosConfig
	Session entity.PosSession
}

// Ctx returns a context scoped to the fixture company.
func (f *Fixtures) Ctx() context.Context {
	return repository.WithCompany(context.Background(), f.Company.ID)
}

func currency(name, symbol, rounding string, pos enum.CurrencyPosition, active bool) entity.Currency {
	return entity.Currency{
		Name:     name,
		Symbol:   symbol,
		Rounding: decimal.RequireFromString(rounding),
		Position: pos,
		Active:   active,
	}
}

// Seed inserts the fixtures into db.
func Seed(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	f := &Fixtures{
		USD: currency("USD", "$", "0.01", enum.CurrencyPositionBefore, true),
		EUR: currency("EUR", "€", "0.01", enum.CurrencyPositionAfter, true),
		GBP: currency("GBP", "£", "0.01", enum.CurrencyPositionBefore, true),
		JPY: currency("JPY", "¥", "1", enum.CurrencyPositionBefore, true),
		CHF: currency("CHF", "CHF", "0.01", enum.CurrencyPositionAfter, false),
	}
	for _, c := range []*entity.Currency{&f.USD, &f.EUR, &f.GBP, &f.JPY, &f.CHF} {
		require.NoError(t, db.Create(c).Error)
	}

	f.Company = entity.Company{Name: "Test Co", CurrencyID: f.USD.ID}
	require.NoError(t, db.Omit("Currency").Create(&f.Company).Error)

	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	rates := []entity.CurrencyRate{
		{CurrencyID: f.EUR.ID, CompanyID: f.Company.ID, Rate: decimal.RequireFromString("0.85"), EffectiveDate: day(2023, 1, 1)},
		{CurrencyID: f.EUR.ID, CompanyID: f.Company.ID, Rate: decimal.RequireFromString("0.92"), EffectiveDate: day(2024, 1, 1)},
		{CurrencyID: f.EUR.ID, CompanyID: f.Company.ID, Rate: decimal.RequireFromString("0.99"), EffectiveDate: day(2999, 1, 1)},
		{CurrencyID: f.GBP.ID, CompanyID: f.Company.ID, Rate: decimal.RequireFromString("0.79"), EffectiveDate: day(2024, 1, 1)},
		{CurrencyID: f.CHF.ID, CompanyID: f.Company.ID, Rate: decimal.RequireFromString("0.88"), EffectiveDate: day(2024, 1, 1)},
	}
	require.NoError(t, db.Create(&rates).Error)

	f.RateEditors = entity.Group{Name: entity.GroupRateEditors}
	require.NoError(t, db.Create(&f.RateEditors).Error)
	managers := entity.Group{Name: entity.GroupPosManager}
	require.NoError(t, db.Create(&managers).Error)

	hashed, err := utils.HashPassword(Password)
	require.NoError(t, err)
	f.Cashier = entity.User{Name: "Cashier", Email: "cashier@example.com", Password: hashed, CompanyID: f.Company.ID}
	require.NoError(t, db.Create(&f.Cashier).Error)
	f.Editor = entity.User{
		Name: "Supervisor", Email: "supervisor@example.com", Password: hashed, CompanyID: f.Company.ID,
		Groups: []entity.Group{f.RateEditors, managers},
	}
	require.NoError(t, db.Omit("Groups.*").Create(&f.Editor).Error)

	f.Cash = entity.PaymentMethod{Name: "Cash", CompanyID: f.Company.ID}
	require.NoError(t, db.Create(&f.Cash).Error)
	eurID := f.EUR.ID
	f.CashEUR = entity.PaymentMethod{Name: "Cash EUR", CompanyID: f.Company.ID, FixedCurrencyID: &eurID}
	require.NoError(t, db.Omit("FixedCurrency").Create(&f.CashEUR).Error)

	groupID := f.RateEditors.ID
	f.Config = entity.PosConfig{
		Name:                         "Main Shop",
		CompanyID:                    f.Company.ID,
		CurrencyID:                   f.USD.ID,
		MultiCurrencyEnabled:         true,
		Currencies:                   []entity.Currency{f.EUR, f.GBP},
		MultiCurrencyAllowRateEdit:   true,
		MultiCurrencyRateEditGroupID: &groupID,
	}
	require.NoError(t, db.Omit("Currency", "RateEditGroup", "Currencies.*").Create(&f.Config).Error)

	f.Session = entity.PosSession{
		Name:       "POS/00001",
		ConfigID:   f.Config.ID,
		CompanyID:  f.Company.ID,
		CurrencyID: f.USD.ID,
		State:      enum.SessionStateOpened,
		OpenedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.Omit("Config").Create(&f.Session).Error)

	return f
}
