package seed

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cloudunify-backend/internal/models"
)

func TestNormalizeResourceStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{name: "canonical active", input: "active", expected: "active"},
		{name: "canonical uppercased", input: "Inactive", expected: "inactive"},
		{name: "running maps to active", input: "running", expected: "active"},
		{name: "started maps to active", input: "STARTED", expected: "active"},
		{name: "stopped maps to inactive", input: "stopped", expected: "inactive"},
		{name: "stopping maps to inactive", input: "stopping", expected: "inactive"},
		{name: "terminated maps to deleted", input: "terminated", expected: "deleted"},
		{name: "removed maps to deleted", input: "removed", expected: "deleted"},
		{name: "unknown passes through unchanged", input: "bogus", expected: "bogus"},
		{name: "unknown keeps original casing", input: "Bogus", expected: "Bogus"},
		{name: "empty becomes nil", input: "", expected: nil},
		{name: "non-string passes through", input: float64(5), expected: float64(5)},
		{name: "nil stays nil", input: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, normalizeResourceStatus(tt.input))
		})
	}
}

func TestValidateOrganizations(t *testing.T) {
	existingID := uuid.New().String()
	records := []models.SeedRecord{
		{"name": "Acme", "id": existingID},
		{"name": "Globex", "id": "not-a-uuid"},
		{"id": uuid.New().String()},
		{"name": ""},
		{"name": float64(7)},
	}

	valid, errs := ValidateOrganizations(records)

	require.Len(t, valid, 2)
	require.Equal(t, existingID, valid[0].ID)
	require.Equal(t, "Acme", valid[0].Name)
	require.False(t, valid[0].CreatedAt.IsZero())

	// Malformed id is replaced with a generated one.
	require.NotEqual(t, "not-a-uuid", valid[1].ID)
	_, err := uuid.Parse(valid[1].ID)
	require.NoError(t, err)

	require.Len(t, errs, 3)
	require.Equal(t, 2, errs[0].Index)
	require.Equal(t, 3, errs[1].Index)
	require.Equal(t, 4, errs[2].Index)
	require.Equal(t, "Invalid organization.name", errs[0].Error)
}

func TestValidateUsersEmailAndIndex(t *testing.T) {
	records := []models.SeedRecord{
		{"email": "A@B.com", "name": "A"},
		{"email": "not-an-email", "name": "B"},
		{"email": "c@d.io", "name": "C"},
	}

	valid, errs := ValidateUsers(records)

	require.Len(t, valid, 2)
	require.Equal(t, "a@b.com", valid[0].Email)
	require.Len(t, errs, 1)
	require.Equal(t, 1, errs[0].Index)
	require.Equal(t, "Invalid user.email", errs[0].Error)
}

func TestValidateUsersRole(t *testing.T) {
	tests := []struct {
		name     string
		record   models.SeedRecord
		wantRole string
		wantErr  string
	}{
		{
			name:     "absent role defaults",
			record:   models.SeedRecord{"email": "a@b.com", "name": "A"},
			wantRole: "user",
		},
		{
			name:     "empty role defaults",
			record:   models.SeedRecord{"email": "a@b.com", "name": "A", "role": ""},
			wantRole: "user",
		},
		{
			name:     "explicit role kept",
			record:   models.SeedRecord{"email": "a@b.com", "name": "A", "role": "admin"},
			wantRole: "admin",
		},
		{
			name:    "non-string role rejected",
			record:  models.SeedRecord{"email": "a@b.com", "name": "A", "role": float64(5)},
			wantErr: "Invalid user.role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := ValidateUsers([]models.SeedRecord{tt.record})
			if tt.wantErr != "" {
				require.Empty(t, valid)
				require.Len(t, errs, 1)
				require.Equal(t, tt.wantErr, errs[0].Error)
				return
			}
			require.Len(t, valid, 1)
			require.Empty(t, errs)
			require.Equal(t, tt.wantRole, valid[0].Role)
		})
	}
}

func TestValidateUsersCredentials(t *testing.T) {
	hash := "$2a$10$precomputedhashvalue"
	records := []models.SeedRecord{
		{"email": "a@b.com", "name": "A", "passwordHash": hash, "password": "ignored"},
		{"email": "b@b.com", "name": "B", "password": "s3cret"},
		{"email": "c@b.com", "name": "C"},
	}

	valid, errs := ValidateUsers(records)
	require.Empty(t, errs)
	require.Len(t, valid, 3)

	// passwordHash wins over password and is used verbatim.
	require.NotNil(t, valid[0].PasswordHash)
	require.Equal(t, hash, *valid[0].PasswordHash)

	// password is hashed with bcrypt.
	require.NotNil(t, valid[1].PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(*valid[1].PasswordHash), []byte("s3cret")))

	// Neither supplied leaves the credential unset.
	require.Nil(t, valid[2].PasswordHash)
}

func TestValidateUsersCallerID(t *testing.T) {
	id := uuid.New().String()
	orgID := uuid.New().String()
	records := []models.SeedRecord{
		{"email": "a@b.com", "name": "A", "id": id, "organizationId": orgID},
		{"email": "b@b.com", "name": "B", "id": "garbage", "organizationId": "garbage"},
		{"email": "c@b.com", "name": "C"},
	}

	valid, errs := ValidateUsers(records)
	require.Empty(t, errs)
	require.Len(t, valid, 3)

	require.True(t, valid[0].HasCallerID)
	require.Equal(t, id, valid[0].ID)
	require.NotNil(t, valid[0].OrganizationID)
	require.Equal(t, orgID, *valid[0].OrganizationID)

	// Garbage ids count as absent, not as errors.
	require.False(t, valid[1].HasCallerID)
	require.Empty(t, valid[1].ID)
	require.Nil(t, valid[1].OrganizationID)

	require.False(t, valid[2].HasCallerID)
}

func TestValidateResources(t *testing.T) {
	records := []models.SeedRecord{
		{"provider": "AWS", "type": "ec2", "name": "web-1", "status": "running", "tags": map[string]any{"env": "prod"}, "cost": 12.5},
		{"provider": "aws", "type": "ec2", "name": "web-2", "status": "active"},
		{"provider": "Azure", "type": "vm", "name": "db-1", "status": "bogus", "cost": "33.25"},
		{"provider": "GCP", "type": "", "name": "x", "status": "active"},
		{"provider": "GCP", "type": "gce", "name": "", "status": "active"},
		{"provider": "GCP", "type": "gce", "name": "y"},
	}

	valid, errs := ValidateResources(records)

	require.Len(t, valid, 2)
	require.Equal(t, "active", valid[0].Status)
	require.Equal(t, map[string]any{"env": "prod"}, valid[0].Tags)
	require.Equal(t, 12.5, valid[0].Cost)

	// Unknown status passes through; string cost is coerced.
	require.Equal(t, "bogus", valid[1].Status)
	require.Equal(t, 33.25, valid[1].Cost)
	require.Equal(t, map[string]any{}, valid[1].Tags)

	require.Len(t, errs, 4)
	require.Equal(t, 1, errs[0].Index) // lowercase provider rejected
	require.Contains(t, errs[0].Error, "Invalid resource.provider")
	require.Equal(t, "Invalid resource.type", errs[1].Error)
	require.Equal(t, "Invalid resource.name", errs[2].Error)
	require.Equal(t, "Invalid resource.status", errs[3].Error)
}

func TestCostValue(t *testing.T) {
	require.Equal(t, 12.5, costValue(12.5))
	require.Equal(t, 7.0, costValue(7))
	require.Equal(t, 3.25, costValue("3.25"))
	require.Equal(t, 0.0, costValue("not-a-number"))
	require.Equal(t, 0.0, costValue(nil))
}
