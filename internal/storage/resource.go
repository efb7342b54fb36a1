package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloudunify-backend/internal/models"
)

type ResourceFilter struct {
	Provider string
	Status   string
	Page     int
	PageSize int
}

// ListResources returns resources with optional provider/status filters and
// 1-based pagination.
func (s *Storage) ListResources(ctx context.Context, filter ResourceFilter) ([]models.Resource, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	query := `
		SELECT id, provider, type, name, tags, cost, status, created_at
		FROM resources
	`
	var conds []string
	var args []any
	if filter.Provider != "" {
		args = append(args, filter.Provider)
		conds = append(conds, fmt.Sprintf("provider = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, pageSize)
	query += fmt.Sprintf(" ORDER BY created_at DESC, name ASC LIMIT $%d", len(args))
	args = append(args, (page-1)*pageSize)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	resources := make([]models.Resource, 0)
	if err := s.db.SelectContext(ctx, &resources, query, args...); err != nil {
		return nil, err
	}

	for i := range resources {
		if len(resources[i].TagsJSON) == 0 {
			resources[i].Tags = map[string]any{}
			continue
		}
		if err := json.Unmarshal(resources[i].TagsJSON, &resources[i].Tags); err != nil {
			return nil, err
		}
	}
	return resources, nil
}
