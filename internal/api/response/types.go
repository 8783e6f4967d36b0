package response

import (
	"time"

	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/services/auth"
)

// Account represents an account in API responses. The password hash is
// never part of it.
type Account struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Avatar    *int    `json:"avatar"`
	Watchlist []Entry `json:"watchlist"`
	CreatedAt string  `json:"created_at"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:        string(a.ID),
		Name:      a.Name,
		Email:     a.Email,
		Avatar:    a.Avatar,
		Watchlist: EntriesFromModel(a.Watchlist),
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Token is the response to a successful login
type Token struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// TokenFromAuth converts an auth.Token to a response Token
func TokenFromAuth(t *auth.Token) Token {
	return Token{
		Token:     t.Value,
		ExpiresAt: t.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// Profile is the response for GET /api/profile
type Profile struct {
	Name   string `json:"name"`
	Avatar *int   `json:"avatar"`
}

// ProfileFromModel converts a model.Profile to a response Profile
func ProfileFromModel(p *model.Profile) Profile {
	return Profile{Name: p.Name, Avatar: p.Avatar}
}

// AvatarUpdated is the response for PATCH /api/update-avatar
type AvatarUpdated struct {
	Message string `json:"message"`
	Avatar  int    `json:"avatar"`
}

// Entry represents a watchlist entry in API responses
type Entry struct {
	ID          int64    `json:"id"`
	ContentType string   `json:"contentType"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Genre       []string `json:"genre"`
	AddedAt     string   `json:"added_at,omitempty"`
}

// EntryFromModel converts a model.WatchlistEntry to a response Entry
func EntryFromModel(e model.WatchlistEntry) Entry {
	out := Entry{
		ID:          e.ContentID,
		ContentType: string(e.Kind),
		Title:       e.Title,
		ReleaseDate: e.ReleaseDate,
		Overview:    e.Overview,
		PosterPath:  e.PosterPath,
		Genre:       e.Genre,
	}
	if out.Genre == nil {
		out.Genre = []string{}
	}
	if !e.AddedAt.IsZero() {
		out.AddedAt = e.AddedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// EntriesFromModel converts entries preserving order; never nil
func EntriesFromModel(entries []model.WatchlistEntry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = EntryFromModel(e)
	}
	return out
}

// Watchlist is the response for GET /api/watchlist
type Watchlist struct {
	Watchlist []Entry `json:"watchlist"`
}

// Message is a plain acknowledgement
type Message struct {
	Message string `json:"message"`
}

// Health is the response for GET /api/health
type Health struct {
	Status string `json:"status"`
}
