package storage

import (
	"context"
	"database/sql"
	"errors"

	"cloudunify-backend/internal/models"
)

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, name, role, organization_id, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, name, role, organization_id, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns users, optionally filtered to one organization.
func (s *Storage) ListUsers(ctx context.Context, orgID string) ([]models.User, error) {
	users := make([]models.User, 0)

	if orgID != "" {
		query := `
			SELECT id, email, name, role, organization_id, password_hash, created_at
			FROM users
			WHERE organization_id = $1
			ORDER BY created_at DESC, email ASC
		`
		if err := s.db.SelectContext(ctx, &users, query, orgID); err != nil {
			return nil, err
		}
		return users, nil
	}

	query := `
		SELECT id, email, name, role, organization_id, password_hash, created_at
		FROM users
		ORDER BY created_at DESC, email ASC
	`
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}
