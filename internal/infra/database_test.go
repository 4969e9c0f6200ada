package infra

import (
	"testing"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseSQLiteMigrates(t *testing.T) {
	db, err := NewDatabase(DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	// second run is a no-op
	require.NoError(t, Migrate(db))
}

func TestCategoryNamesUniqueIgnoringCase(t *testing.T) {
	db, err := NewDatabase(DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.Category{Name: "Drinks"}).Error)
	assert.Error(t, db.Create(&model.Category{Name: "DRINKS"}).Error)
}

func TestOneSaleTransactionPerReference(t *testing.T) {
	db, err := NewDatabase(DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	ref := uuid.New()
	row := func(typ model.CashTransactionType) *model.CashTransaction {
		return &model.CashTransaction{Date: time.Now().UTC(), Type: typ, Amount: decimal.NewFromInt(10), ReferenceID: &ref}
	}
	require.NoError(t, db.Create(row(model.CashSale)).Error)
	assert.Error(t, db.Create(row(model.CashSale)).Error)
	// the constraint only covers sale-typed rows
	assert.NoError(t, db.Create(row(model.CashExpense)).Error)
}

func TestNewDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := NewDatabase("oracle", "x")
	assert.ErrorContains(t, err, "unsupported database driver")
}
