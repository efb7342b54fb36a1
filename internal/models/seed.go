package models

import "time"

// SeedRecord is a raw candidate record from a request body, fixture file, or
// inventory snapshot. It carries no guarantees; the seed validator turns it
// into one of the normalized shapes below or rejects it.
type SeedRecord map[string]any

type RecordError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type SeedResult struct {
	Inserted int           `json:"inserted"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Errors   []RecordError `json:"errors"`
}

type SeedTotals struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

type SeedAllResult struct {
	Organizations SeedResult `json:"organizations"`
	Users         SeedResult `json:"users"`
	Resources     SeedResult `json:"resources"`
	Total         SeedTotals `json:"total"`
}

type SeedCounts struct {
	Organizations int `json:"organizations"`
	Users         int `json:"users"`
	Resources     int `json:"resources"`
	Total         int `json:"total"`
}

type SeedVerifyResult struct {
	OK     bool       `json:"ok"`
	Counts SeedCounts `json:"counts"`
}

type OrganizationSeed struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type UserSeed struct {
	// ID is empty for records without a caller-supplied id until the key
	// resolver assigns a generated one.
	ID             string
	Email          string
	Name           string
	Role           string
	OrganizationID *string
	PasswordHash   *string
	CreatedAt      time.Time
	// HasCallerID records whether the input carried a valid uuid-shaped id.
	// It decides the conflict key: id when true, email when false.
	HasCallerID bool
}

type ResourceSeed struct {
	ID        string
	Provider  string
	Type      string
	Name      string
	Tags      map[string]any
	Cost      float64
	Status    string
	CreatedAt time.Time
}
