package seed

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cloudunify-backend/internal/models"
)

const fixtureDirName = ".seeddata"

// maxFixtureSearchDepth bounds the upward walk from the working directory.
const maxFixtureSearchDepth = 6

// findFixtureRoot resolves the fixture directory: an explicit SEED_DATA_DIR,
// then a .seeddata directory found walking upward from the working
// directory. Returns "" when no directory exists.
func findFixtureRoot() string {
	if explicit := os.Getenv("SEED_DATA_DIR"); explicit != "" {
		if info, err := os.Stat(explicit); err == nil && info.IsDir() {
			return explicit
		}
		return ""
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < maxFixtureSearchDepth; i++ {
		candidate := filepath.Join(dir, fixtureDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// LoadEntityFixtures gathers records for an entity from every JSON fixture
// file whose name contains the entity as a case-insensitive substring.
// Unreadable or malformed files are logged and skipped so partial data stays
// available.
func LoadEntityFixtures(entity string) []models.SeedRecord {
	root := findFixtureRoot()
	if root == "" {
		return nil
	}

	entityLower := strings.ToLower(entity)
	var items []models.SeedRecord
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, ".json") || !strings.Contains(name, entityLower) {
			return nil
		}
		records, err := parseFixtureFile(path)
		if err != nil {
			log.Printf("WARN Skipping seed fixture %s: %v", path, err)
			return nil
		}
		items = append(items, records...)
		return nil
	})
	return items
}

// parseFixtureFile reads one fixture file, accepting either a bare array of
// records or an object with an items array. Non-object elements are dropped;
// any other shape yields no records.
func parseFixtureFile(path string) ([]models.SeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	switch v := parsed.(type) {
	case []any:
		return recordElements(v), nil
	case map[string]any:
		if items, ok := v["items"].([]any); ok {
			return recordElements(items), nil
		}
	}
	return nil, nil
}

func recordElements(elements []any) []models.SeedRecord {
	records := make([]models.SeedRecord, 0, len(elements))
	for _, e := range elements {
		if m, ok := e.(map[string]any); ok {
			records = append(records, models.SeedRecord(m))
		}
	}
	return records
}
