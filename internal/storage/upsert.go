package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloudunify-backend/internal/models"
)

// upsertSpec declares a set-based insert-or-update: which table and columns
// to insert, which column(s) identify an existing row, and the SET
// expressions applied when a conflict is found. Columns left out of updateSet
// keep their stored value on conflict.
type upsertSpec struct {
	table       string
	columns     []string
	conflictKey []string
	updateSet   []string
}

// buildUpsertQuery renders a multi-row INSERT ... ON CONFLICT ... DO UPDATE
// statement for n rows. The RETURNING clause exposes (xmax = 0), which is
// true only for rows created by this statement, so inserted and updated rows
// can be told apart without a separate existence check.
func buildUpsertQuery(spec upsertSpec, n int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(spec.table)
	b.WriteString(" (")
	b.WriteString(strings.Join(spec.columns, ", "))
	b.WriteString(") VALUES ")

	placeholder := 1
	for row := 0; row < n; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for col := range spec.columns {
			if col > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", placeholder)
			placeholder++
		}
		b.WriteString(")")
	}

	b.WriteString(" ON CONFLICT (")
	b.WriteString(strings.Join(spec.conflictKey, ", "))
	b.WriteString(") DO UPDATE SET ")
	b.WriteString(strings.Join(spec.updateSet, ", "))
	b.WriteString(" RETURNING (xmax = 0) AS inserted")
	return b.String()
}

// upsert executes the statement for a batch of value rows and reports how
// many rows were newly inserted vs updated in place. An empty batch is a
// no-op, not an error.
func (s *Storage) upsert(ctx context.Context, spec upsertSpec, rows [][]any) (inserted, updated int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	args := make([]any, 0, len(rows)*len(spec.columns))
	for _, row := range rows {
		args = append(args, row...)
	}

	result, err := s.db.QueryContext(ctx, buildUpsertQuery(spec, len(rows)), args...)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert %s: %w", spec.table, err)
	}
	defer result.Close()

	for result.Next() {
		var wasInsert bool
		if err := result.Scan(&wasInsert); err != nil {
			return 0, 0, fmt.Errorf("upsert %s: %w", spec.table, err)
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}
	if err := result.Err(); err != nil {
		return 0, 0, fmt.Errorf("upsert %s: %w", spec.table, err)
	}

	return inserted, updated, nil
}

// UpsertOrganizations merges organizations on id. Only the name is updated
// on conflict; created_at keeps its stored value.
func (s *Storage) UpsertOrganizations(ctx context.Context, records []models.OrganizationSeed) (int, int, error) {
	spec := upsertSpec{
		table:       "organizations",
		columns:     []string{"id", "name", "created_at"},
		conflictKey: []string{"id"},
		updateSet:   []string{"name = EXCLUDED.name"},
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.ID, r.Name, r.CreatedAt})
	}
	return s.upsert(ctx, spec, rows)
}

var userColumns = []string{"id", "email", "name", "role", "organization_id", "password_hash", "created_at"}

// UpsertUsersByID merges users on id. A null incoming password_hash keeps
// the stored hash; it is never erased by an absent credential.
func (s *Storage) UpsertUsersByID(ctx context.Context, records []models.UserSeed) (int, int, error) {
	spec := upsertSpec{
		table:       "users",
		columns:     userColumns,
		conflictKey: []string{"id"},
		updateSet: []string{
			"email = EXCLUDED.email",
			"name = EXCLUDED.name",
			"role = EXCLUDED.role",
			"organization_id = EXCLUDED.organization_id",
			"password_hash = COALESCE(EXCLUDED.password_hash, users.password_hash)",
		},
	}
	return s.upsert(ctx, spec, userRows(records))
}

// UpsertUsersByEmail merges users on email for records without a
// caller-supplied id. Email is the conflict key, so it is not updated.
func (s *Storage) UpsertUsersByEmail(ctx context.Context, records []models.UserSeed) (int, int, error) {
	spec := upsertSpec{
		table:       "users",
		columns:     userColumns,
		conflictKey: []string{"email"},
		updateSet: []string{
			"name = EXCLUDED.name",
			"role = EXCLUDED.role",
			"organization_id = EXCLUDED.organization_id",
			"password_hash = COALESCE(EXCLUDED.password_hash, users.password_hash)",
		},
	}
	return s.upsert(ctx, spec, userRows(records))
}

func userRows(records []models.UserSeed) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{r.ID, r.Email, r.Name, r.Role, r.OrganizationID, r.PasswordHash, r.CreatedAt})
	}
	return rows
}

// UpsertResources merges resources on id, replacing all mutable columns
// from the incoming record.
func (s *Storage) UpsertResources(ctx context.Context, records []models.ResourceSeed) (int, int, error) {
	spec := upsertSpec{
		table:       "resources",
		columns:     []string{"id", "provider", "type", "name", "tags", "cost", "status", "created_at"},
		conflictKey: []string{"id"},
		updateSet: []string{
			"provider = EXCLUDED.provider",
			"type = EXCLUDED.type",
			"name = EXCLUDED.name",
			"tags = EXCLUDED.tags",
			"cost = EXCLUDED.cost",
			"status = EXCLUDED.status",
		},
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		tags := r.Tags
		if tags == nil {
			tags = map[string]any{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return 0, 0, fmt.Errorf("marshal resource tags: %w", err)
		}
		rows = append(rows, []any{r.ID, r.Provider, r.Type, r.Name, tagsJSON, r.Cost, r.Status, r.CreatedAt})
	}
	return s.upsert(ctx, spec, rows)
}
