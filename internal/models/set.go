package models

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Set is a release batch of products sharing a name and release date.
// Externally supplied and immutable from the tracker's perspective.
type Set struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type setCatalogFile struct {
	Sets []Set `json:"sets"`
}

// LoadSets reads the set catalog from a JSON file of the form
// {"sets": [{"name": ..., "date": ...}]}. A missing file yields an empty
// catalog rather than an error.
func LoadSets(path string) ([]Set, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read set catalog: %w", err)
	}
	var file setCatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse set catalog: %w", err)
	}
	return file.Sets, nil
}

// FindSet returns the catalog entry with the given name, or nil.
func FindSet(sets []Set, name string) *Set {
	for i := range sets {
		if sets[i].Name == name {
			return &sets[i]
		}
	}
	return nil
}

// SetSlug converts a set name into a url-safe path segment, e.g.
// "SWSH05: Battle Styles" -> "swsh05-battle-styles".
func SetSlug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FindSetBySlug returns the catalog entry whose slug matches, or nil.
func FindSetBySlug(sets []Set, slug string) *Set {
	for i := range sets {
		if SetSlug(sets[i].Name) == slug {
			return &sets[i]
		}
	}
	return nil
}
