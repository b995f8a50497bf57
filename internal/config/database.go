package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS currencies (
			id VARCHAR(36) PRIMARY KEY,
			code VARCHAR(10) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			symbol VARCHAR(5)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			partner_name VARCHAR(255),
			role VARCHAR(10) NOT NULL DEFAULT 'USER',
			currency_id VARCHAR(36) REFERENCES currencies(id),
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			couple_names VARCHAR(255) NOT NULL,
			event_date DATE NOT NULL,
			total DOUBLE PRECISION NOT NULL DEFAULT 0,
			notes TEXT,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id VARCHAR(36) PRIMARY KEY,
			budget_id VARCHAR(36) NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			allocated DOUBLE PRECISION NOT NULL DEFAULT 0,
			spent DOUBLE PRECISION NOT NULL DEFAULT 0,
			color VARCHAR(32)
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id VARCHAR(36) PRIMARY KEY,
			budget_id VARCHAR(36) NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
			category_id VARCHAR(36) NOT NULL REFERENCES categories(id),
			name VARCHAR(255) NOT NULL,
			amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			projected DOUBLE PRECISION,
			date DATE NOT NULL,
			note TEXT,
			deleted BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS checklist_categories (
			id VARCHAR(36) PRIMARY KEY,
			budget_id VARCHAR(36) NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			deleted BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS checklist_items (
			id VARCHAR(36) PRIMARY KEY,
			budget_id VARCHAR(36) NOT NULL,
			category_id VARCHAR(36) NOT NULL REFERENCES checklist_categories(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			last_updated TIMESTAMP NOT NULL,
			deleted BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS timeline_events (
			id VARCHAR(36) PRIMARY KEY,
			budget_id VARCHAR(36) NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			date DATE NOT NULL,
			event_time VARCHAR(8) NOT NULL DEFAULT '00:00',
			note TEXT,
			deleted BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS default_budget_categories (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			allocated DOUBLE PRECISION NOT NULL DEFAULT 0,
			color VARCHAR(32),
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS default_budget_expenses (
			id VARCHAR(36) PRIMARY KEY,
			default_category_id VARCHAR(36) NOT NULL REFERENCES default_budget_categories(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS default_checklist_categories (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS default_checklist_items (
			id VARCHAR(36) PRIMARY KEY,
			default_category_id VARCHAR(36) NOT NULL REFERENCES default_checklist_categories(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS default_timeline_events (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_budgets_user_id ON budgets(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_categories_budget_id ON categories(budget_id)",
		"CREATE INDEX IF NOT EXISTS idx_expenses_budget_id ON expenses(budget_id)",
		"CREATE INDEX IF NOT EXISTS idx_expenses_category_id ON expenses(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_checklist_categories_budget_id ON checklist_categories(budget_id)",
		"CREATE INDEX IF NOT EXISTS idx_checklist_items_category_id ON checklist_items(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_timeline_events_budget_id ON timeline_events(budget_id)",
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
