package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tatangdev/Mern-Invoice-App/internal/models"
)

// Options controls how Connect opens and prepares the database.
type Options struct {
	DSN string
	// Debug enables SQL statement logging.
	Debug bool
	// Migrations switches from AutoMigrate to the versioned SQL migrations
	// in ./migrations (postgres only).
	Migrations bool
}

// Connect opens the database (postgres for URL-style DSNs, sqlite otherwise)
// and brings the schema up to date. Duplicate-key errors are translated so
// callers can rely on gorm.ErrDuplicatedKey regardless of driver.
func Connect(opts Options) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("empty DATABASE_DSN")
	}

	logLevel := logger.Silent
	if opts.Debug {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	dialector := dialectorFor(opts.DSN)
	var conn *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}
		slog.Warn("retrying database connection", "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	if opts.Migrations {
		if err := runSQLMigrations(opts.DSN); err != nil {
			return nil, fmt.Errorf("sql migrations: %w", err)
		}
	} else if err := AutoMigrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// AutoMigrate creates or updates the schema for every model. The unique
// indexes on (user_id, name) for products and on invoice numbers are part of
// the model definitions and created here as well.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range []any{
		&models.User{}, &models.Product{}, &models.Invoice{}, &models.InvoiceItem{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func dialectorFor(dsn string) gorm.Dialector {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}
