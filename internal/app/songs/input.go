package songs

import (
	"strings"

	"melodia/internal/apperr"
	"melodia/internal/models"
)

// Ref points at an artist or album either by id or by name. When both are
// set the id wins and the name is ignored.
type Ref struct {
	ID   *int64
	Name *string
}

// ByID references an existing row.
func ByID(id int64) Ref {
	return Ref{ID: &id}
}

// ByName references a row by natural key, creating it when absent.
func ByName(name string) Ref {
	return Ref{Name: &name}
}

// Given reports whether the reference carries a value.
func (r Ref) Given() bool {
	return r.ID != nil || r.Name != nil
}

// Input holds the fields for a new song.
type Input struct {
	Name     string
	Artist   Ref
	Album    Ref
	GenreID  *int64
	Likes    *int
	AudioURL string
	CoverURL *string
}

// Patch lists the fields to change. Nil fields and empty refs keep the
// stored value. An empty CoverURL clears the song's own cover.
type Patch struct {
	Name     *string
	Artist   Ref
	Album    Ref
	GenreID  *int64
	Likes    *int
	AudioURL *string
	CoverURL *string
}

// Result is a committed update. Stale lists the file references the update
// replaced; the caller owns deleting them.
type Result struct {
	Song  models.Song
	Stale []string
}

// Filter narrows Search. Every field is an optional case-insensitive
// substring; set fields are ANDed.
type Filter struct {
	Name   string
	Artist string
	Album  string
	Genre  string
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperr.NewValidation(field, "is required")
	}
	return value, nil
}

func checkLikes(likes *int) error {
	if likes != nil && *likes < 0 {
		return apperr.NewValidation("likes", "must not be negative")
	}
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
