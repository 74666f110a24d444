package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"lotboard/internal/middleware"

	"gorm.io/gorm"
)

// Migration is a single versioned SQL schema change.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	if err := registerMigrations(migrationFS); err != nil {
		panic(fmt.Sprintf("invalid embedded migrations: %v", err))
	}
}

func registerMigrations(efs embed.FS) error {
	entries, err := efs.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		parts := strings.SplitN(base, "_", 2)
		if len(parts) != 2 {
			return fmt.Errorf("migration %q does not follow NNNNNN_name.up.sql", name)
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("migration %q has non-numeric version: %w", name, err)
		}

		up, err := efs.ReadFile(filepath.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("failed to read up migration %s: %w", name, err)
		}
		// The down script is optional; a migration without one cannot be rolled back.
		down, _ := efs.ReadFile(filepath.Join("migrations", base+".down.sql"))

		migrations = append(migrations, Migration{
			Version:    version,
			Name:       parts[1],
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return nil
}

// MigrationLog represents a record of an applied migration in the database.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

const ensureMigrationLogTableSQL = `
CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// RunMigrations applies all pending migrations in version order.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(ensureMigrationLogTableSQL).Error; err != nil {
		return fmt.Errorf("failed to ensure migration logs table: %w", err)
	}

	var versions []int
	if err := db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	appliedSet := make(map[int]bool, len(versions))
	for _, v := range versions {
		appliedSet[v] = true
	}

	for _, m := range migrations {
		if appliedSet[m.Version] {
			middleware.Logger.Debug("Migration already applied", slog.Int("version", m.Version), slog.String("name", m.Name))
			continue
		}

		middleware.Logger.Info("Applying migration", slog.Int("version", m.Version), slog.String("name", m.Name))
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.UpScript).Error; err != nil {
				return fmt.Errorf("failed to run SQL for migration %d (%s): %w", m.Version, m.Name, err)
			}
			return tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Status reports which migrations have been applied and which are pending.
func Status(ctx context.Context, db *gorm.DB) (applied []int, pending []Migration, err error) {
	if err := db.WithContext(ctx).Exec(ensureMigrationLogTableSQL).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to ensure migration logs table: %w", err)
	}
	if err := db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &applied).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}
	for _, m := range migrations {
		if !appliedSet[m.Version] {
			pending = append(pending, m)
		}
	}
	return applied, pending, nil
}

// RollbackMigration reverts a specific migration by version number.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	var target *Migration
	for i := range migrations {
		if migrations[i].Version == version {
			target = &migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration version %d not found", version)
	}
	if strings.TrimSpace(target.DownScript) == "" {
		return fmt.Errorf("migration %d (%s) has no down script", version, target.Name)
	}

	var count int64
	if err := db.WithContext(ctx).Model(&MigrationLog{}).Where("version = ?", version).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check applied migrations: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	middleware.Logger.Info("Rolling back migration", slog.Int("version", version), slog.String("name", target.Name))
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(target.DownScript).Error; err != nil {
			return fmt.Errorf("failed to run rollback SQL for migration %d (%s): %w", version, target.Name, err)
		}
		return tx.Where("version = ?", version).Delete(&MigrationLog{}).Error
	})
}
