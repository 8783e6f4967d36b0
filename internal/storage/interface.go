package storage

import (
	"context"

	"github.com/mcoot/watchlist/internal/model"
)

// Storage defines the interface for account persistence.
//
// Watchlist and avatar mutations are single atomic operations on the account
// document: implementations must never expose a read-modify-write window in
// which a concurrent add or remove can be lost.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	SaveAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, id model.AccountID) error

	// Watchlist operations
	AddWatchlistEntry(ctx context.Context, id model.AccountID, entry model.WatchlistEntry) error
	RemoveWatchlistEntry(ctx context.Context, id model.AccountID, key model.EntryKey) error

	// Profile operations
	SetAvatar(ctx context.Context, id model.AccountID, avatar int) error
}
