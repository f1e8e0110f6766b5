package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"blogapi/internal/config"
	"blogapi/internal/middleware"
	"blogapi/internal/models"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// PersistentModels are the tables GORM AutoMigrate owns.
func PersistentModels() []interface{} {
	return []interface{}{&models.User{}, &models.Post{}, &models.Comment{}}
}

// SchemaPlan says which schema steps a configuration runs.
type SchemaPlan struct {
	Mode        string
	SQL         bool
	AutoMigrate bool
}

// releaseEnv reports environments where AutoMigrate must not touch the schema.
func releaseEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// PlanSchema resolves DB_SCHEMA_MODE against the environment and driver.
// The embedded SQL is PostgreSQL only, so SQLite is always built by AutoMigrate.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{Mode: strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}

	switch plan.Mode {
	case SchemaModeHybrid, SchemaModeSQL, SchemaModeAuto:
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}

	if driverName(cfg) == DriverSQLite {
		plan.AutoMigrate = true
		return plan, nil
	}

	release := releaseEnv(cfg.Env)
	switch plan.Mode {
	case SchemaModeSQL:
		plan.SQL = true
	case SchemaModeAuto:
		if release {
			return plan, fmt.Errorf("DB_SCHEMA_MODE=auto is not allowed in %q", cfg.Env)
		}
		plan.AutoMigrate = true
	case SchemaModeHybrid:
		plan.SQL = true
		plan.AutoMigrate = !release
	}
	return plan, nil
}

// ApplySchema runs the steps PlanSchema selects: embedded SQL first, then AutoMigrate.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		catalog, err := EmbeddedMigrations()
		if err != nil {
			return err
		}
		n, err := NewMigrator(db, catalog).Up(ctx)
		if err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
		middleware.Logger.InfoContext(ctx, "sql migrations complete", slog.Int("applied", n))
	}

	if plan.AutoMigrate {
		middleware.Logger.InfoContext(ctx, "auto-migrating models",
			slog.String("mode", plan.Mode), slog.String("driver", driverName(cfg)))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// SchemaStatus is the plan plus migration progress, for the migrate CLI.
type SchemaStatus struct {
	SchemaPlan
	Environment string
	Applied     []int
	Pending     []Migration
}

// GetSchemaStatus reports what ApplySchema would do without changing anything.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{SchemaPlan: plan, Environment: cfg.Env}
	if !plan.SQL {
		return status, nil
	}

	catalog, err := EmbeddedMigrations()
	if err != nil {
		return nil, err
	}
	mg := NewMigrator(db, catalog)
	if status.Applied, err = mg.Applied(ctx); err != nil {
		return nil, err
	}
	if status.Pending, err = mg.Pending(ctx); err != nil {
		return nil, err
	}
	return status, nil
}
