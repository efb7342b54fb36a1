package seed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cloudunify-backend/internal/models"
)

// Local-part@domain with at least one dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isUUIDString(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// timestampValue parses createdAt-style inputs, falling back to the current
// time for absent or unparsable values.
func timestampValue(v any) time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

// costValue coerces cost to a float, defaulting to 0 on absence or
// unparsable input.
func costValue(v any) float64 {
	switch c := v.(type) {
	case float64:
		return c
	case int:
		return float64(c)
	case string:
		if f, err := strconv.ParseFloat(c, 64); err == nil {
			return f
		}
	}
	return 0
}

// normalizeResourceStatus folds common provider vocabulary onto the three
// canonical states. Unrecognized values pass through unchanged; absent or
// empty values become nil and fail the required-status check downstream.
func normalizeResourceStatus(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if s == "" {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "inactive", "deleted":
		return strings.ToLower(strings.TrimSpace(s))
	case "running", "started", "start":
		return "active"
	case "stopped", "stopping", "stop":
		return "inactive"
	case "terminated", "terminating", "deleting", "removed":
		return "deleted"
	}
	return s
}

// ValidateOrganizations checks each record in input order and returns the
// normalized records alongside per-record errors carrying the original index.
func ValidateOrganizations(records []models.SeedRecord) ([]models.OrganizationSeed, []models.RecordError) {
	valid := make([]models.OrganizationSeed, 0, len(records))
	errs := []models.RecordError{}

	for idx, rec := range records {
		name, ok := stringValue(rec["name"])
		if !ok || name == "" {
			errs = append(errs, models.RecordError{Index: idx, Error: "Invalid organization.name"})
			continue
		}

		id := uuid.New().String()
		if isUUIDString(rec["id"]) {
			id = rec["id"].(string)
		}

		valid = append(valid, models.OrganizationSeed{
			ID:        id,
			Name:      name,
			CreatedAt: timestampValue(rec["createdAt"]),
		})
	}
	return valid, errs
}

// ValidateUsers normalizes user records. Emails are lowercased; the role
// defaults to "user" only when absent or empty, never when present with a
// non-string value. Credentials resolve passwordHash verbatim, then a bcrypt
// hash of password, then stay unset so the upsert merge keeps any stored hash.
func ValidateUsers(records []models.SeedRecord) ([]models.UserSeed, []models.RecordError) {
	valid := make([]models.UserSeed, 0, len(records))
	errs := []models.RecordError{}

	for idx, rec := range records {
		email, ok := stringValue(rec["email"])
		if !ok || !emailPattern.MatchString(email) {
			errs = append(errs, models.RecordError{Index: idx, Error: "Invalid user.email"})
			continue
		}
		name, ok := stringValue(rec["name"])
		if !ok || name == "" {
			errs = append(errs, models.RecordError{Index: idx, Error: "Invalid user.name"})
			continue
		}

		role := "user"
		if raw, present := rec["role"]; present && raw != nil {
			s, ok := stringValue(raw)
			if !ok {
				errs = append(errs, models.RecordError{Index: idx, Error: "Invalid user.role"})
				continue
			}
			if s != "" {
				role = s
			}
		}

		hadID := isUUIDString(rec["id"])
		user := models.UserSeed{
			Email:       strings.ToLower(email),
			Name:        name,
			Role:        role,
			CreatedAt:   timestampValue(rec["createdAt"]),
			HasCallerID: hadID,
		}
		if hadID {
			user.ID = rec["id"].(string)
		}
		if isUUIDString(rec["organizationId"]) {
			orgID := rec["organizationId"].(string)
			user.OrganizationID = &orgID
		}

		if hash, ok := stringValue(rec["passwordHash"]); ok && hash != "" {
			user.PasswordHash = &hash
		} else if plain, ok := stringValue(rec["password"]); ok && plain != "" {
			if hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost); err == nil {
				value := string(hashed)
				user.PasswordHash = &value
			}
		}

		valid = append(valid, user)
	}
	return valid, errs
}

// ValidateResources normalizes resource records. The provider must match one
// of the supported literals exactly; status goes through the normalization
// table and must end up a non-empty string.
func ValidateResources(records []models.SeedRecord) ([]models.ResourceSeed, []models.RecordError) {
	valid := make([]models.ResourceSeed, 0, len(records))
	errs := []models.RecordError{}

	for idx, rec := range records {
		provider, ok := stringValue(rec["provider"])
		if !ok || (provider != models.ProviderAWS && provider != models.ProviderAzure && provider != models.ProviderGCP) {
			errs = append(errs, models.RecordError{
				Index: idx,
				Error: fmt.Sprintf("Invalid resource.provider (must be '%s'|'%s'|'%s')", models.ProviderAWS, models.ProviderAzure, models.ProviderGCP),
			})
			continue
		}
		rtype, ok := stringValue(rec["type"])
		if !ok || rtype == "" {
			errs = append(errs, models.RecordError{Index: idx, Error: "Invalid resource.type"})
			continue
		}
		name, ok := stringValue(rec["name"])
		if !ok || name == "" {
			errs = append(errs, models.RecordError{Index: idx, Error: "Invalid resource.name"})
			continue
		}
		status, ok := normalizeResourceStatus(rec["status"]).(string)
		if !ok || status == "" {
			errs = append(errs, models.RecordError{Index: idx, Error: "Invalid resource.status"})
			continue
		}

		id := uuid.New().String()
		if isUUIDString(rec["id"]) {
			id = rec["id"].(string)
		}
		tags, ok := rec["tags"].(map[string]any)
		if !ok {
			tags = map[string]any{}
		}

		valid = append(valid, models.ResourceSeed{
			ID:        id,
			Provider:  provider,
			Type:      rtype,
			Name:      name,
			Tags:      tags,
			Cost:      costValue(rec["cost"]),
			Status:    status,
			CreatedAt: timestampValue(rec["createdAt"]),
		})
	}
	return valid, errs
}
