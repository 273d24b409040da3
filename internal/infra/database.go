package infra

import (
	"fmt"

	"github.com/JamLaMin/rsw-webapp/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Dialect errors are translated so unique violations surface as
		// gorm.ErrDuplicatedKey — the open-sale race detection depends on it.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. Also used by the integration test suite.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Register{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot fully handle on its own. Each statement uses IF NOT EXISTS semantics
// so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one OPEN sale per register. AutoMigrate cannot express a
		// partial index; the open-or-create transaction relies on this to
		// turn a concurrent-open race into a unique violation.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_sales_open_register
		    ON sales (register_id)
		    WHERE status = 'OPEN'`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
