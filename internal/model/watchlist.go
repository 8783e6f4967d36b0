package model

import (
	"fmt"
	"strings"
	"time"
)

// ContentKind classifies a watchlist entry
type ContentKind string

const (
	ContentKindMovie ContentKind = "movie"
	ContentKindShow  ContentKind = "show"
)

// Valid reports whether k is a known content kind
func (k ContentKind) Valid() bool {
	return k == ContentKindMovie || k == ContentKindShow
}

// EntryKey identifies an entry within a single account's watchlist
type EntryKey struct {
	ContentID int64
	Kind      ContentKind
}

func (k EntryKey) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ContentID)
}

// WatchlistEntry is one media item saved by an account.
// Field names on the wire match the catalog the frontend reads from.
type WatchlistEntry struct {
	ContentID   int64       `json:"id" bson:"id"`
	Kind        ContentKind `json:"contentType" bson:"contentType"`
	Title       string      `json:"title" bson:"title"`
	ReleaseDate string      `json:"release_date,omitempty" bson:"release_date,omitempty"`
	Overview    string      `json:"overview,omitempty" bson:"overview,omitempty"`
	PosterPath  string      `json:"poster_path,omitempty" bson:"poster_path,omitempty"`
	Genre       []string    `json:"genre,omitempty" bson:"genre,omitempty"`
	AddedAt     time.Time   `json:"added_at" bson:"added_at"`
}

// Key returns the uniqueness key of the entry
func (e WatchlistEntry) Key() EntryKey {
	return EntryKey{ContentID: e.ContentID, Kind: e.Kind}
}

// Clone returns a copy that shares no slices with e
func (e WatchlistEntry) Clone() WatchlistEntry {
	if e.Genre != nil {
		e.Genre = append([]string(nil), e.Genre...)
	}
	return e
}

// Validate checks the fields every stored entry must carry
func (e WatchlistEntry) Validate() error {
	if e.ContentID <= 0 {
		return fmt.Errorf("%w: id must be a positive integer", ErrInvalidEntry)
	}
	if e.Kind == "" {
		return fmt.Errorf("%w: contentType is required", ErrInvalidEntry)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: contentType must be %q or %q", ErrInvalidEntry, ContentKindMovie, ContentKindShow)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEntry)
	}
	return nil
}
