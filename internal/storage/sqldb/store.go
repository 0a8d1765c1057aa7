// Package sqldb implements the storage ports on SQLite via sqlx.
package sqldb

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/leadrail/leadrail/internal/core/ports"
)

// Store is the SQL implementation of the pipeline, rule, activity, lead,
// form, and session stores. Every tenant-owned table carries an owner_id
// column, and every query method takes the caller's owner id as a mandatory
// filter.
type Store struct {
	db *sqlx.DB
}

var _ ports.StorageProvider = (*Store)(nil)

// New opens (or creates) the SQLite database at path and bootstraps the
// schema. Use ":memory:" for tests.
func New(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Required for the foreign keys below; SQLite defaults them off.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// DB returns the underlying sqlx.DB for advanced operations.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS forms (
id TEXT PRIMARY KEY,
owner_id TEXT NOT NULL,
name TEXT NOT NULL,
admin_email TEXT NOT NULL DEFAULT '',
plan TEXT NOT NULL DEFAULT 'free',
created_at TIMESTAMP NOT NULL,
updated_at TIMESTAMP NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS pipelines (
id TEXT PRIMARY KEY,
owner_id TEXT NOT NULL,
form_id TEXT NOT NULL,
name TEXT NOT NULL,
created_at TIMESTAMP NOT NULL,
updated_at TIMESTAMP NOT NULL,
UNIQUE (owner_id, form_id)
)`,
		`CREATE TABLE IF NOT EXISTS stages (
id TEXT PRIMARY KEY,
pipeline_id TEXT NOT NULL,
name TEXT NOT NULL,
position INTEGER NOT NULL,
created_at TIMESTAMP NOT NULL,
FOREIGN KEY (pipeline_id) REFERENCES pipelines(id) ON DELETE CASCADE
)`,
		`CREATE TABLE IF NOT EXISTS leads (
id TEXT PRIMARY KEY,
form_id TEXT NOT NULL,
owner_id TEXT NOT NULL,
stage_id TEXT NOT NULL DEFAULT '',
assigned_to TEXT NOT NULL DEFAULT '',
data TEXT NOT NULL DEFAULT '{}',
follow_up_by TIMESTAMP,
created_at TIMESTAMP NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS automation_rules (
id TEXT PRIMARY KEY,
form_id TEXT NOT NULL,
name TEXT NOT NULL DEFAULT '',
enabled INTEGER NOT NULL DEFAULT 1,
trigger_type TEXT NOT NULL,
trigger_stage_name TEXT NOT NULL DEFAULT '',
action TEXT NOT NULL,
subject TEXT NOT NULL,
body TEXT NOT NULL,
position INTEGER NOT NULL,
created_at TIMESTAMP NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS lead_activities (
id TEXT PRIMARY KEY,
lead_id TEXT NOT NULL,
type TEXT NOT NULL,
metadata TEXT,
created_at TIMESTAMP NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
key_hash TEXT PRIMARY KEY,
owner_id TEXT NOT NULL,
user_id TEXT NOT NULL,
email TEXT NOT NULL DEFAULT '',
username TEXT NOT NULL DEFAULT '',
role TEXT NOT NULL DEFAULT 'admin',
created_at TIMESTAMP NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_forms_owner ON forms(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pipelines_owner ON pipelines(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stages_pipeline ON stages(pipeline_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_owner_form ON leads(owner_id, form_id)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(stage_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rules_form ON automation_rules(form_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_lead ON lead_activities(lead_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_api_keys_owner ON api_keys(owner_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}
