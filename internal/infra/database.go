package infra

import (
	"fmt"

	"github.com/pedropoiani/SimplesCaixa/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes mostly).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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

// RunMigrations applies AutoMigrate plus schema patches. Split out from
// NewDatabase so integration tests can run it against their own connection.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Configuracao{},
		&model.Caixa{},
		&model.Lancamento{},
		&model.Estorno{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one caixa may be open at a time; a partial unique index makes
		// the database enforce what the service layer serializes.
		{"partial unique index on open caixa", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_caixas_aberto_unico') THEN
    CREATE UNIQUE INDEX idx_caixas_aberto_unico ON caixas ((status)) WHERE status = 'aberto';
  END IF;
END $$`},
		// The realtime feeds and daily reports all filter / order by data_hora.
		{"lancamentos data_hora index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_lancamentos_data_hora') THEN
    CREATE INDEX idx_lancamentos_data_hora ON lancamentos (data_hora);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
