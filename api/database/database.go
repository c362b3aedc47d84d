package database

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/rafa-porto/dev-connect/api/config"
	applog "github.com/rafa-porto/dev-connect/api/logger"
	"github.com/rafa-porto/dev-connect/api/models"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Models lists every table owned by this service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Bookmark{},
		&models.Message{},
		&models.Notification{},
		&models.Hashtag{},
		&models.Project{},
	}
}

func gormConfig(slow time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			zap.NewStdLog(applog.Get()),
			logger.Config{
				SlowThreshold:             slow,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		TranslateError: true,
	}
}

// Open connects to the configured database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return OpenSQLite(cfg.SQLitePath, cfg.DBSlowQuery)
	}

	// Postgres errors reach apperrors.Classify untranslated so constraint names survive.
	gcfg := gormConfig(cfg.DBSlowQuery)
	gcfg.TranslateError = false
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// OpenSQLite opens a sqlite database at path (":memory:" for a private in-memory one).
// sqlite allows a single writer, so the pool is pinned to one connection and concurrent
// transactions queue on it instead of failing with SQLITE_BUSY.
func OpenSQLite(path string, slow time.Duration) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(slow))
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate brings the schema up to date. Postgres runs the embedded goose migrations, which
// also carry the foreign keys and check constraints; sqlite uses gorm's AutoMigrate.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return db.AutoMigrate(Models()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(sqlDB, "migrations")
}

// MigrationsFS exposes the embedded migrations to the migrate command.
func MigrationsFS() embed.FS {
	return migrations
}
