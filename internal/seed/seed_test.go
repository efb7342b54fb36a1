package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"cloudunify-backend/internal/models"
)

type fakeStore struct {
	ensureCalls  int
	ensureErr    error
	upsertErr    error
	orgs         []models.OrganizationSeed
	usersByID    []models.UserSeed
	usersByEmail []models.UserSeed
	resources    []models.ResourceSeed
	counts       models.SeedCounts
	countsErr    error
}

func (f *fakeStore) EnsureSchema(context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeStore) UpsertOrganizations(_ context.Context, records []models.OrganizationSeed) (int, int, error) {
	if f.upsertErr != nil {
		return 0, 0, f.upsertErr
	}
	f.orgs = append(f.orgs, records...)
	return len(records), 0, nil
}

func (f *fakeStore) UpsertUsersByID(_ context.Context, records []models.UserSeed) (int, int, error) {
	if f.upsertErr != nil {
		return 0, 0, f.upsertErr
	}
	f.usersByID = append(f.usersByID, records...)
	return len(records), 0, nil
}

func (f *fakeStore) UpsertUsersByEmail(_ context.Context, records []models.UserSeed) (int, int, error) {
	if f.upsertErr != nil {
		return 0, 0, f.upsertErr
	}
	f.usersByEmail = append(f.usersByEmail, records...)
	return len(records), 0, nil
}

func (f *fakeStore) UpsertResources(_ context.Context, records []models.ResourceSeed) (int, int, error) {
	if f.upsertErr != nil {
		return 0, 0, f.upsertErr
	}
	f.resources = append(f.resources, records...)
	return len(records), 0, nil
}

func (f *fakeStore) SeedCounts(context.Context) (models.SeedCounts, error) {
	return f.counts, f.countsErr
}

func TestSeedUnsupportedEntity(t *testing.T) {
	store := &fakeStore{}
	seeder := NewSeeder(store)

	result, err := seeder.Seed(context.Background(), "widgets", nil)
	require.NoError(t, err)
	require.Equal(t, 0, result.Inserted)
	require.Equal(t, 0, result.Updated)
	require.Equal(t, 0, result.Skipped)
	require.Len(t, result.Errors, 1)
	require.Equal(t, -1, result.Errors[0].Index)
	require.Equal(t, "Unsupported entity: widgets", result.Errors[0].Error)

	// No store interaction at all.
	require.Zero(t, store.ensureCalls)
	require.Empty(t, store.orgs)
}

func TestSeedUsersCountsAndErrors(t *testing.T) {
	store := &fakeStore{}
	seeder := NewSeeder(store)

	records := []models.SeedRecord{
		{"email": "a@b.com", "name": "A"},
		{"email": "broken", "name": "B"},
		{"email": "c@d.com", "name": "C"},
	}

	result, err := seeder.Seed(context.Background(), "users", records)
	require.NoError(t, err)
	require.Equal(t, 2, result.Inserted)
	require.Equal(t, 0, result.Updated)
	require.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 1, result.Errors[0].Index)
	require.Equal(t, 1, store.ensureCalls)
}

func TestSeedUserPartitioning(t *testing.T) {
	store := &fakeStore{}
	seeder := NewSeeder(store)

	id := uuid.New().String()
	records := []models.SeedRecord{
		{"email": "a@b.com", "name": "A", "id": id},
		{"email": "b@b.com", "name": "B"},
	}

	_, err := seeder.Seed(context.Background(), "users", records)
	require.NoError(t, err)

	require.Len(t, store.usersByID, 1)
	require.Equal(t, id, store.usersByID[0].ID)

	// Records without a caller id receive a generated one and go through
	// the by-email path.
	require.Len(t, store.usersByEmail, 1)
	_, parseErr := uuid.Parse(store.usersByEmail[0].ID)
	require.NoError(t, parseErr)
}

func TestSeedErrorsCappedSkippedExact(t *testing.T) {
	store := &fakeStore{}
	seeder := NewSeeder(store)

	records := make([]models.SeedRecord, 12)
	for i := range records {
		records[i] = models.SeedRecord{}
	}

	result, err := seeder.Seed(context.Background(), "organizations", records)
	require.NoError(t, err)
	require.Equal(t, 12, result.Skipped)
	require.Len(t, result.Errors, 10)
	require.Equal(t, 0, result.Errors[0].Index)
	require.Equal(t, 9, result.Errors[9].Index)
}

func TestSeedStorageErrorPropagates(t *testing.T) {
	store := &fakeStore{upsertErr: errors.New("connection refused")}
	seeder := NewSeeder(store)

	_, err := seeder.Seed(context.Background(), "organizations", []models.SeedRecord{{"name": "Acme"}})
	require.Error(t, err)
	require.ErrorContains(t, err, "connection refused")
}

func TestSeedEmptyWithoutFixtures(t *testing.T) {
	t.Setenv("SEED_DATA_DIR", t.TempDir())

	store := &fakeStore{}
	seeder := NewSeeder(store)

	result, err := seeder.Seed(context.Background(), "resources", nil)
	require.NoError(t, err)
	require.Equal(t, models.SeedResult{Inserted: 0, Updated: 0, Skipped: 0, Errors: []models.RecordError{}}, result)
}

func TestSeedFallsBackToFixtures(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SEED_DATA_DIR", dir)
	writeFixture(t, dir, "organizations.json", `[{"name":"Acme"},{"name":"Globex"}]`)

	store := &fakeStore{}
	seeder := NewSeeder(store)

	result, err := seeder.Seed(context.Background(), "organizations", nil)
	require.NoError(t, err)
	require.Equal(t, 2, result.Inserted)
	require.Len(t, store.orgs, 2)
}

func TestSeedAllOrderAndTotals(t *testing.T) {
	t.Setenv("SEED_DATA_DIR", t.TempDir())

	store := &fakeStore{}
	seeder := NewSeeder(store)

	body := SeedAllBody{
		Organizations: []models.SeedRecord{{"name": "Acme"}},
		Users: []models.SeedRecord{
			{"email": "a@b.com", "name": "A", "password": "x"},
			{"email": "nope", "name": "B"},
		},
	}

	result, err := seeder.SeedAll(context.Background(), body)
	require.NoError(t, err)

	require.Equal(t, 1, result.Organizations.Inserted)
	require.Equal(t, 1, result.Users.Inserted)
	require.Equal(t, 1, result.Users.Skipped)
	require.Equal(t, 0, result.Resources.Inserted)

	require.Equal(t, 2, result.Total.Inserted)
	require.Equal(t, 0, result.Total.Updated)
	require.Equal(t, 1, result.Total.Skipped)
}

func TestSeedAllStopsOnStorageError(t *testing.T) {
	t.Setenv("SEED_DATA_DIR", t.TempDir())

	store := &fakeStore{upsertErr: errors.New("boom")}
	seeder := NewSeeder(store)

	_, err := seeder.SeedAll(context.Background(), SeedAllBody{
		Organizations: []models.SeedRecord{{"name": "Acme"}},
	})
	require.Error(t, err)
	require.ErrorContains(t, err, "seed organizations")
}

func TestVerify(t *testing.T) {
	store := &fakeStore{counts: models.SeedCounts{Organizations: 2, Users: 3, Resources: 4, Total: 9}}
	seeder := NewSeeder(store)

	result, err := seeder.Verify(context.Background())
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, 9, result.Counts.Total)
	require.Equal(t, result.Counts.Organizations+result.Counts.Users+result.Counts.Resources, result.Counts.Total)
}
