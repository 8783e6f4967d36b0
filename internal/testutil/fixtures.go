package testutil

import (
	"time"

	"github.com/mcoot/watchlist/internal/model"
)

// FixedTime is the creation time stamped on fixture accounts
var FixedTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewAccount returns an account with an empty watchlist and no avatar
func NewAccount(id model.AccountID, name, email string) *model.Account {
	return &model.Account{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$fixture",
		Watchlist:    []model.WatchlistEntry{},
		CreatedAt:    FixedTime,
		UpdatedAt:    FixedTime,
	}
}

// Movie returns a minimal valid movie entry
func Movie(id int64, title string) model.WatchlistEntry {
	return model.WatchlistEntry{ContentID: id, Kind: model.ContentKindMovie, Title: title}
}

// Show returns a minimal valid show entry
func Show(id int64, title string) model.WatchlistEntry {
	return model.WatchlistEntry{ContentID: id, Kind: model.ContentKindShow, Title: title}
}
