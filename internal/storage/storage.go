package storage

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"cloudunify-backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

// EnsureSchema creates tables and indexes if they do not exist. Every
// statement is idempotent, so it is safe to run at startup and before each
// seed invocation.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func schemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(320) NOT NULL,
			password_hash VARCHAR(256),
			name VARCHAR(255),
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			organization_id UUID REFERENCES organizations(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS resources (
			id UUID PRIMARY KEY,
			provider VARCHAR(16) NOT NULL,
			type VARCHAR(128) NOT NULL,
			name VARCHAR(255) NOT NULL,
			tags JSONB NOT NULL DEFAULT '{}'::jsonb,
			cost NUMERIC(12,2) NOT NULL DEFAULT 0,
			status VARCHAR(32) NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ix_users_email ON users (email)`,
		`CREATE INDEX IF NOT EXISTS ix_users_org_id ON users (organization_id)`,
		`CREATE INDEX IF NOT EXISTS ix_organizations_name ON organizations (name)`,
		`CREATE INDEX IF NOT EXISTS ix_resources_provider ON resources (provider)`,
		`CREATE INDEX IF NOT EXISTS ix_resources_status ON resources (status)`,
		`CREATE INDEX IF NOT EXISTS ix_resources_tags_gin ON resources USING GIN (tags)`,
	}
}

// SeedCounts returns current row counts per entity plus their sum.
func (s *Storage) SeedCounts(ctx context.Context) (models.SeedCounts, error) {
	var counts models.SeedCounts
	queries := []struct {
		table string
		dest  *int
	}{
		{"organizations", &counts.Organizations},
		{"users", &counts.Users},
		{"resources", &counts.Resources},
	}
	for _, q := range queries {
		if err := s.db.GetContext(ctx, q.dest, `SELECT COUNT(*) FROM `+q.table); err != nil {
			return models.SeedCounts{}, err
		}
	}
	counts.Total = counts.Organizations + counts.Users + counts.Resources
	return counts, nil
}
