// Package migration applies the embedded schema migrations at startup.
package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Apply runs every embedded migration that has not been recorded in
// schema_migrations yet, in filename order, each inside a transaction.
func Apply(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := embeddedMigrations.ReadDir(migrationsDir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var applied int64
		if err := db.WithContext(ctx).
			Table("schema_migrations").
			Where("name = ?", name).
			Count(&applied).Error; err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		script, err := embeddedMigrations.ReadFile(migrationsDir + "/" + name)
		if err != nil {
			return err
		}
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(script)).Error; err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
			return tx.Exec(
				`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
				name, time.Now().UTC(),
			).Error
		})
		if err != nil {
			return err
		}
	}
	return nil
}
