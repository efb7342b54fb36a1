package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cloudunify-backend/internal/models"
)

// Entities is the fixed seeding order: users may reference organizations, so
// organizations go first.
var Entities = []string{"organizations", "users", "resources"}

// maxReportedErrors caps the errors echoed back to the caller; the skipped
// count always reflects the true total.
const maxReportedErrors = 10

// Store is the storage gateway the orchestrator writes through. Each upsert
// is one atomic set-based statement reporting inserted vs updated rows.
type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertOrganizations(ctx context.Context, records []models.OrganizationSeed) (inserted, updated int, err error)
	UpsertUsersByID(ctx context.Context, records []models.UserSeed) (inserted, updated int, err error)
	UpsertUsersByEmail(ctx context.Context, records []models.UserSeed) (inserted, updated int, err error)
	UpsertResources(ctx context.Context, records []models.ResourceSeed) (inserted, updated int, err error)
	SeedCounts(ctx context.Context) (models.SeedCounts, error)
}

type Seeder struct {
	store Store
}

func NewSeeder(store Store) *Seeder {
	return &Seeder{store: store}
}

func IsSupportedEntity(entity string) bool {
	for _, e := range Entities {
		if e == entity {
			return true
		}
	}
	return false
}

// SeedAllBody optionally overrides the record source per entity; entities
// without an override load from fixture files.
type SeedAllBody struct {
	Organizations []models.SeedRecord `json:"organizations"`
	Users         []models.SeedRecord `json:"users"`
	Resources     []models.SeedRecord `json:"resources"`
}

// Seed validates and upserts one entity's records. A non-empty records slice
// is used as-is; otherwise records are discovered from fixture files.
// Validation failures are collected per record; a storage failure aborts the
// entity and propagates.
func (s *Seeder) Seed(ctx context.Context, entity string, records []models.SeedRecord) (models.SeedResult, error) {
	if !IsSupportedEntity(entity) {
		return models.SeedResult{
			Errors: []models.RecordError{{Index: -1, Error: "Unsupported entity: " + entity}},
		}, nil
	}

	if err := s.store.EnsureSchema(ctx); err != nil {
		return models.SeedResult{}, fmt.Errorf("ensure schema: %w", err)
	}

	source := records
	if len(source) == 0 {
		source = LoadEntityFixtures(entity)
	}

	var inserted, updated int
	var errs []models.RecordError
	var err error

	switch entity {
	case "organizations":
		var valid []models.OrganizationSeed
		valid, errs = ValidateOrganizations(source)
		inserted, updated, err = s.store.UpsertOrganizations(ctx, valid)
	case "users":
		var valid []models.UserSeed
		valid, errs = ValidateUsers(source)
		byID, byEmail := partitionUsers(valid)
		var i1, u1, i2, u2 int
		i1, u1, err = s.store.UpsertUsersByID(ctx, byID)
		if err == nil {
			i2, u2, err = s.store.UpsertUsersByEmail(ctx, byEmail)
		}
		inserted, updated = i1+i2, u1+u2
	case "resources":
		var valid []models.ResourceSeed
		valid, errs = ValidateResources(source)
		inserted, updated, err = s.store.UpsertResources(ctx, valid)
	}
	if err != nil {
		return models.SeedResult{}, err
	}

	reported := errs
	if len(reported) > maxReportedErrors {
		reported = reported[:maxReportedErrors]
	}
	return models.SeedResult{
		Inserted: inserted,
		Updated:  updated,
		Skipped:  len(errs),
		Errors:   reported,
	}, nil
}

// partitionUsers splits normalized users by conflict key. Records without a
// caller-supplied id are assigned a generated one and merged by email, so
// repeat loads that do not track internal ids still converge.
func partitionUsers(users []models.UserSeed) (byID, byEmail []models.UserSeed) {
	byID = make([]models.UserSeed, 0, len(users))
	byEmail = make([]models.UserSeed, 0, len(users))
	for _, u := range users {
		if u.HasCallerID {
			byID = append(byID, u)
			continue
		}
		u.ID = uuid.New().String()
		byEmail = append(byEmail, u)
	}
	return byID, byEmail
}

// SeedAll seeds organizations, then users, then resources, aggregating
// per-entity results plus overall totals. A storage failure stops the run;
// entities already seeded stay committed.
func (s *Seeder) SeedAll(ctx context.Context, body SeedAllBody) (models.SeedAllResult, error) {
	var result models.SeedAllResult

	overrides := map[string][]models.SeedRecord{
		"organizations": body.Organizations,
		"users":         body.Users,
		"resources":     body.Resources,
	}
	targets := map[string]*models.SeedResult{
		"organizations": &result.Organizations,
		"users":         &result.Users,
		"resources":     &result.Resources,
	}

	for _, entity := range Entities {
		res, err := s.Seed(ctx, entity, overrides[entity])
		if err != nil {
			return models.SeedAllResult{}, fmt.Errorf("seed %s: %w", entity, err)
		}
		*targets[entity] = res
		result.Total.Inserted += res.Inserted
		result.Total.Updated += res.Updated
		result.Total.Skipped += res.Skipped
	}
	return result, nil
}

// Verify returns current row counts per entity plus their sum. It performs
// no mutation beyond the idempotent schema check.
func (s *Seeder) Verify(ctx context.Context) (models.SeedVerifyResult, error) {
	if err := s.store.EnsureSchema(ctx); err != nil {
		return models.SeedVerifyResult{}, fmt.Errorf("ensure schema: %w", err)
	}
	counts, err := s.store.SeedCounts(ctx)
	if err != nil {
		return models.SeedVerifyResult{}, err
	}
	return models.SeedVerifyResult{OK: true, Counts: counts}, nil
}
