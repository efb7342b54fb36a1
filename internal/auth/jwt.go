package auth

import (
	"errors"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cloudunify-backend/internal/models"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

const (
	defaultIssuer   = "cloudunify-pro"
	defaultAudience = "cloudunify-pro-frontend"
)

func tokenSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return []byte(secret), nil
}

func tokenIssuer() string {
	if iss := os.Getenv("JWT_ISSUER"); iss != "" {
		return iss
	}
	return defaultIssuer
}

func tokenAudience() string {
	if aud := os.Getenv("JWT_AUDIENCE"); aud != "" {
		return aud
	}
	return defaultAudience
}

var expiresPattern = regexp.MustCompile(`^\s*(\d+)\s*([smhd])?\s*$`)

// tokenTTL parses JWT_EXPIRES_IN values like "3600", "15m", "2h", "7d",
// defaulting to one hour.
func tokenTTL() time.Duration {
	m := expiresPattern.FindStringSubmatch(os.Getenv("JWT_EXPIRES_IN"))
	if m == nil {
		return time.Hour
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Hour
	}
	switch m[2] {
	case "m":
		return time.Duration(value) * time.Minute
	case "h":
		return time.Duration(value) * time.Hour
	case "d":
		return time.Duration(value) * 24 * time.Hour
	default:
		return time.Duration(value) * time.Second
	}
}

type Claims struct {
	Email          string  `json:"email,omitempty"`
	Role           string  `json:"role,omitempty"`
	OrganizationID *string `json:"organizationId,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(user *models.User) (string, error) {
	secret, err := tokenSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer(),
			Audience:  jwt.ClaimStrings{tokenAudience()},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(tokenString string) (*Claims, error) {
	secret, err := tokenSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer()), jwt.WithAudience(tokenAudience()))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
