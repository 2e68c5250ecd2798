package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// boardIndexes back the lookups the board API runs on every request.
var boardIndexes = []index{
	// Task indexes for tree loading and sibling ordering
	{"tasks", "idx_tasks_project_id", "project_id"},
	{"tasks", "idx_tasks_parent_id", "parent_id"},
	{"tasks", "idx_tasks_task_group_id", "task_group_id"},
	{"tasks", "idx_tasks_project_order", "project_id, order_index"},

	{"task_groups", "idx_task_groups_project_id", "project_id"},
	{"activities", "idx_activities_project_created", "project_id, created_at"},

	// Organization members indexes
	{"organization_members", "idx_org_members_user_id", "user_id"},
	{"project_members", "idx_project_members_user_id", "user_id"},
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range boardIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
