package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cloudunify-backend/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	orgID := "5f0f0f0f-0f0f-4f0f-8f0f-0f0f0f0f0f0f"
	user := &models.User{
		ID:             "11111111-2222-4333-8444-555555555555",
		Email:          "a@b.com",
		Role:           "admin",
		OrganizationID: &orgID,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.OrganizationID)
	require.Equal(t, orgID, *claims.OrganizationID)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(&models.User{ID: "u1", Email: "a@b.com", Role: "user"})
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	require.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken(&models.User{ID: "u1", Email: "a@b.com", Role: "user"})
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ParseToken(token)
	require.Error(t, err)
}

func TestGenerateTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := GenerateToken(&models.User{ID: "u1"})
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestTokenTTL(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", time.Hour},
		{"3600", time.Hour},
		{"90s", 90 * time.Second},
		{"15m", 15 * time.Minute},
		{"2h", 2 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"garbage", time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("JWT_EXPIRES_IN", tt.value)
			require.Equal(t, tt.expected, tokenTTL())
		})
	}
}
