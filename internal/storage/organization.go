package storage

import (
	"context"

	"cloudunify-backend/internal/models"
)

func (s *Storage) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)
	query := `
		SELECT id, name, created_at
		FROM organizations
		ORDER BY name ASC
	`
	if err := s.db.SelectContext(ctx, &orgs, query); err != nil {
		return nil, err
	}
	return orgs, nil
}
