package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"blogapi/internal/middleware"

	"gorm.io/gorm"
)

// migrationRecord is one row of the schema_migrations ledger.
type migrationRecord struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	Checksum  string    `gorm:"size:64"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

// Migrator applies and reverts a catalog of SQL migrations, recording
// progress in schema_migrations.
type Migrator struct {
	db      *gorm.DB
	catalog []Migration
}

// NewMigrator expects catalog ordered by version, as ParseMigrations returns it.
func NewMigrator(db *gorm.DB, catalog []Migration) *Migrator {
	return &Migrator{db: db, catalog: catalog}
}

func (m *Migrator) find(version int) (Migration, bool) {
	for _, mig := range m.catalog {
		if mig.Version == version {
			return mig, true
		}
	}
	return Migration{}, false
}

func (m *Migrator) records(ctx context.Context) (map[int]migrationRecord, error) {
	db := m.db.WithContext(ctx)
	out := make(map[int]migrationRecord)
	if !db.Migrator().HasTable(&migrationRecord{}) {
		return out, nil
	}

	var rows []migrationRecord
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	for _, r := range rows {
		out[r.Version] = r
	}
	return out, nil
}

// Applied lists recorded versions in ascending order.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	recs, err := m.records(ctx)
	if err != nil {
		return nil, err
	}
	versions := make([]int, 0, len(recs))
	for v := range recs {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions, nil
}

// Pending returns the catalog entries that have not run yet. The ledger must
// only hold versions this build knows, with unchanged up scripts.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	recs, err := m.records(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.verify(recs); err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range m.catalog {
		if _, done := recs[mig.Version]; !done {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

func (m *Migrator) verify(recs map[int]migrationRecord) error {
	versions := make([]int, 0, len(recs))
	for v := range recs {
		versions = append(versions, v)
	}
	sort.Ints(versions)

	var problems []string
	for _, v := range versions {
		mig, ok := m.find(v)
		if !ok {
			problems = append(problems, fmt.Sprintf("%06d is unknown to this build", v))
			continue
		}
		if sum := recs[v].Checksum; sum != "" && sum != mig.Checksum() {
			problems = append(problems, fmt.Sprintf("%s changed after it was applied", mig.ID()))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("schema_migrations out of sync: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Up runs every pending migration, each in its own transaction, and returns
// how many were applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationRecord{}); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, mig := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.Up).Error; err != nil {
				return err
			}
			return tx.Create(&migrationRecord{
				Version:  mig.Version,
				Name:     mig.Name,
				Checksum: mig.Checksum(),
			}).Error
		})
		if err != nil {
			return i, fmt.Errorf("apply %s: %w", mig.ID(), err)
		}
		middleware.Logger.InfoContext(ctx, "migration applied", slog.String("migration", mig.ID()))
	}
	return len(pending), nil
}

// Down reverts a single applied migration.
func (m *Migrator) Down(ctx context.Context, version int) error {
	mig, ok := m.find(version)
	if !ok {
		return fmt.Errorf("unknown migration version %d", version)
	}
	recs, err := m.records(ctx)
	if err != nil {
		return err
	}
	if _, done := recs[version]; !done {
		return fmt.Errorf("migration %s is not applied", mig.ID())
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.Down).Error; err != nil {
			return err
		}
		return tx.Delete(&migrationRecord{}, "version = ?", version).Error
	})
	if err != nil {
		return fmt.Errorf("revert %s: %w", mig.ID(), err)
	}
	middleware.Logger.InfoContext(ctx, "migration reverted", slog.String("migration", mig.ID()))
	return nil
}
