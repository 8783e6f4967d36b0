package model

import (
	"strings"
	"time"
)

// AccountID uniquely identifies an account across the system
type AccountID string

// Account is a registered user and the watchlist they own
type Account struct {
	ID           AccountID        `json:"id" bson:"_id"`
	Name         string           `json:"name" bson:"name"`
	Email        string           `json:"email" bson:"email"`                 // normalized, unique
	PasswordHash string           `json:"password_hash" bson:"password_hash"` // bcrypt hash
	Avatar       *int             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Watchlist    []WatchlistEntry `json:"watchlist" bson:"watchlist"`
	CreatedAt    time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" bson:"updated_at"`
}

// Profile is the public part of an account shown in the navigation bar
type Profile struct {
	Name   string
	Avatar *int
}

// NormalizeEmail returns the canonical form used for uniqueness checks
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Clone returns a deep copy so callers can't mutate stored state
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.Avatar != nil {
		v := *a.Avatar
		c.Avatar = &v
	}
	c.Watchlist = make([]WatchlistEntry, len(a.Watchlist))
	for i, e := range a.Watchlist {
		c.Watchlist[i] = e.Clone()
	}
	return &c
}

// HasEntry reports whether the watchlist already holds an entry with the key
func (a *Account) HasEntry(key EntryKey) bool {
	for _, e := range a.Watchlist {
		if e.Key() == key {
			return true
		}
	}
	return false
}

// RemoveEntry drops every entry matching key, returning whether anything changed
func (a *Account) RemoveEntry(key EntryKey) bool {
	kept := a.Watchlist[:0]
	removed := false
	for _, e := range a.Watchlist {
		if e.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	a.Watchlist = kept
	return removed
}
