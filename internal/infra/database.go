package infra

import (
	"fmt"
	"strings"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDatabase opens a GORM connection for the given driver, then runs
// Migrate. The sqlite driver serves local single-user installs and tests.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if db.Dialector.Name() == DriverSQLite {
		// one writer at a time, otherwise SQLITE_BUSY under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every table owned by the service, in creation order.
func Models() []any {
	return []any{
		&model.Category{},
		&model.Tag{},
		&model.Product{},
		&model.ProductTag{},
		&model.PriceHistory{},
		&model.Sale{},
		&model.SaleItem{},
		&model.CashTransaction{},
		&model.Quote{},
		&model.QuoteItem{},
		&model.Setting{},
		&model.SagaLog{},
	}
}

// Migrate creates or updates every table, then applies the idempotent
// patches AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches creates the expression and partial indexes. Both
// Postgres and SQLite accept this syntax, and IF NOT EXISTS makes re-runs a
// no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// names are unique regardless of case
		{"categories name ci", `CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_ci ON categories (lower(name))`},
		{"tags name ci", `CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name_ci ON tags (lower(name))`},
		// at most one sale-typed ledger row per sale
		{"cash sale reference", `CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_transactions_sale_ref
			ON cash_transactions (reference_id) WHERE type = 'sale'`},
		{"price history by product", `CREATE INDEX IF NOT EXISTS idx_price_histories_product_created
			ON price_histories (product_id, created_at)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
