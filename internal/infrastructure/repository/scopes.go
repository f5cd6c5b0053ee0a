package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey string

const (
	// CompanyIDKey is the context key for the caller's company ID
	CompanyIDKey ctxKey = "company_id"
	// SkipCompanyScopeKey is the context key for skipping the company scope (system jobs)
	SkipCompanyScopeKey ctxKey = "skip_company_scope"
)

// CompanyScope returns a GORM scope that filters by the caller's company.
// A context without company returns no rows.
func CompanyScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return companyScope(ctx, "company_id")
}

// CompanyScopeOn is CompanyScope with the column qualified by table, for joined queries.
func CompanyScopeOn(ctx context.Context, table string) func(db *gorm.DB) *gorm.DB {
	return companyScope(ctx, table+".company_id")
}

func companyScope(ctx context.Context, column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skipScope, ok := ctx.Value(SkipCompanyScopeKey).(bool); ok && skipScope {
			return db
		}

		companyID, ok := ctx.Value(CompanyIDKey).(uint)
		if !ok || companyID == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" = ?", companyID)
	}
}

// WithSkipCompanyScope adds skip company scope flag to context
func WithSkipCompanyScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipCompanyScopeKey, skip)
}

// WithCompany adds company ID to context
func WithCompany(ctx context.Context, companyID uint) context.Context {
	return context.WithValue(ctx, CompanyIDKey, companyID)
}

// GetCompanyID extracts company ID from context
func GetCompanyID(ctx context.Context) (uint, bool) {
	companyID, ok := ctx.Value(CompanyIDKey).(uint)
	return companyID, ok && companyID != 0
}
