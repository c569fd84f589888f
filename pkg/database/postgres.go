package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/config"
)

// DSN renders the lib/pq connection string.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		crn TEXT NOT NULL,
		term TEXT NOT NULL,
		subject TEXT NOT NULL,
		course_number TEXT NOT NULL,
		section TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		credits NUMERIC(4,2) NOT NULL DEFAULT 0,
		instructor_name TEXT,
		instructor_email TEXT,
		meetings JSONB NOT NULL DEFAULT '[]',
		enrollment_current INT NOT NULL DEFAULT 0,
		enrollment_max INT NOT NULL DEFAULT 0,
		waitlist_current INT NOT NULL DEFAULT 0,
		waitlist_max INT NOT NULL DEFAULT 0,
		delivery_method TEXT NOT NULL DEFAULT '',
		campus TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (term, crn)
	)`,
	`CREATE TABLE IF NOT EXISTS draft_schedules (
		id UUID PRIMARY KEY,
		term TEXT NOT NULL,
		name TEXT NOT NULL,
		version INT NOT NULL,
		status TEXT NOT NULL,
		crns TEXT[] NOT NULL DEFAULT '{}',
		locked_crns TEXT[] NOT NULL DEFAULT '{}',
		notes TEXT,
		created_by TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (term, name, version)
	)`,
}

// Migrate creates the tables the API reads and writes when they are missing.
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
