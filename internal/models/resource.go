package models

import "time"

// Supported cloud providers, matched case-sensitively.
const (
	ProviderAWS   = "AWS"
	ProviderAzure = "Azure"
	ProviderGCP   = "GCP"
)

type Resource struct {
	ID        string         `json:"id" db:"id"`
	Provider  string         `json:"provider" db:"provider"`
	Type      string         `json:"type" db:"type"`
	Name      string         `json:"name" db:"name"`
	Tags      map[string]any `json:"tags" db:"-"`
	TagsJSON  []byte         `json:"-" db:"tags"`
	Cost      float64        `json:"cost" db:"cost"`
	Status    string         `json:"status" db:"status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
