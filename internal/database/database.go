// Package database handles database connections and migrations.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is the global database connection instance.
var DB *gorm.DB

var readDB *gorm.DB

// gormLogger sends GORM output through slog so queries carry request and
// trace ids. Missing records are an expected outcome and are not logged.
type gormLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

func newGormLogger(l *slog.Logger) logger.Interface {
	return &gormLogger{log: l, level: logger.Warn, slow: 200 * time.Millisecond}
}

func (g *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormLogger) printf(ctx context.Context, min logger.LogLevel, lvl slog.Level, format string, args []interface{}) {
	if g.level >= min {
		g.log.Log(ctx, lvl, fmt.Sprintf(format, args...))
	}
}

func (g *gormLogger) Info(ctx context.Context, format string, args ...interface{}) {
	g.printf(ctx, logger.Info, slog.LevelInfo, format, args)
}

func (g *gormLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	g.printf(ctx, logger.Warn, slog.LevelWarn, format, args)
}

func (g *gormLogger) Error(ctx context.Context, format string, args ...interface{}) {
	g.printf(ctx, logger.Error, slog.LevelError, format, args)
}

// Trace logs failed statements, statements slower than the threshold and,
// at Info level, every statement.
func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	took := time.Since(begin)

	var lvl slog.Level
	var msg string
	switch {
	case g.level <= logger.Silent:
		return
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= logger.Error:
		lvl, msg = slog.LevelError, "sql failed"
	case g.slow > 0 && took > g.slow && g.level >= logger.Warn:
		lvl, msg = slog.LevelWarn, "slow sql"
	case g.level >= logger.Info:
		lvl, msg = slog.LevelDebug, "sql"
	default:
		return
	}

	query, rows := fc()
	attrs := []slog.Attr{
		slog.String("sql", query),
		slog.Int64("rows", rows),
		slog.Duration("took", took),
	}
	if lvl == slog.LevelError {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	g.log.LogAttrs(ctx, lvl, msg, attrs...)
}

// ConnectOptions controls side effects of Connect.
type ConnectOptions struct {
	ApplySchema bool
}

// Connect opens the primary (and optional read replica) connection and applies the schema.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return ConnectWithOptions(cfg, ConnectOptions{ApplySchema: true})
}

// ConnectWithOptions opens the configured database and returns the gorm DB instance.
func ConnectWithOptions(cfg *config.Config, opts ConnectOptions) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: newGormLogger(middleware.Logger)}

	dbInstance, err := gorm.Open(dialector(cfg, false), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	middleware.Logger.Info("Database connected successfully", slog.String("driver", driverName(cfg)))

	if err := configurePool(dbInstance, cfg); err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}

	if opts.ApplySchema {
		if err := ApplySchema(context.Background(), dbInstance, cfg); err != nil {
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		middleware.Logger.Info("Database schema ready")
	}

	readDB = nil
	if driverName(cfg) == DriverPostgres && cfg.DBReadHost != "" {
		replica, err := gorm.Open(dialector(cfg, true), gormCfg)
		if err != nil {
			middleware.Logger.Warn("Read replica unavailable, using primary", slog.String("error", err.Error()))
		} else if err := configurePool(replica, cfg); err == nil {
			readDB = replica
			middleware.Logger.Info("Read replica connected", slog.String("host", cfg.DBReadHost))
		}
	}

	DB = dbInstance
	return DB, nil
}

// SetReadDB replaces the replica handle. Nil sends reads to the primary.
func SetReadDB(db *gorm.DB) {
	readDB = db
}

// GetReadDB returns the read replica, or nil when none is configured.
func GetReadDB() *gorm.DB {
	return readDB
}

// Close releases the primary and replica connections.
func Close() error {
	var errs []error
	for _, db := range []*gorm.DB{readDB, DB} {
		if db == nil {
			continue
		}
		if sqlDB, err := db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	readDB, DB = nil, nil
	return errors.Join(errs...)
}

func driverName(cfg *config.Config) string {
	if cfg.DBDriver == "" {
		return DriverPostgres
	}
	return cfg.DBDriver
}

func dialector(cfg *config.Config, replica bool) gorm.Dialector {
	if driverName(cfg) == DriverSQLite {
		return SQLite(cfg.SQLitePath)
	}
	return postgres.Open(postgresDSN(cfg, replica))
}

func postgresDSN(cfg *config.Config, replica bool) string {
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	host, port, user, password := cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword
	if replica {
		host, port, user, password = cfg.DBReadHost, cfg.DBReadPort, cfg.DBReadUser, cfg.DBReadPassword
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		port,
		user,
		password,
		cfg.DBName,
		sslMode,
	)
}

func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	maxOpen := cfg.DBMaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.DBMaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	lifetime := cfg.DBConnMaxLifetimeMinutes
	if lifetime <= 0 {
		lifetime = 5
	}

	// SQLite allows one writer; in-memory databases also vanish per connection.
	maxLifetime := time.Duration(lifetime) * time.Minute
	if driverName(cfg) == DriverSQLite {
		maxOpen, maxIdle, maxLifetime = 1, 1, 0
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	return nil
}

// Ping checks the primary connection, used by the readiness probe.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
