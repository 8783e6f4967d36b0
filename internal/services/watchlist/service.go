package watchlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/watchlist/internal/dependencies/clock"
	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/storage"
)

// Service mediates reads and writes of an account's watchlist and profile.
// Callers pass an account ID already resolved by the credential gate.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new watchlist Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// AddEntry appends entry to the account's watchlist unless an entry with the
// same content ID and kind is already present
func (s *Service) AddEntry(ctx context.Context, accountID model.AccountID, entry model.WatchlistEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	entry = entry.Clone()
	entry.AddedAt = s.clock.Now()

	if err := s.storage.AddWatchlistEntry(ctx, accountID, entry); err != nil {
		return err
	}

	s.logger.Debug("watchlist entry added",
		slog.String("account_id", string(accountID)),
		slog.String("entry", entry.Key().String()),
	)
	return nil
}

// RemoveEntry drops the entry matching contentID and kind. Removing an absent
// entry succeeds.
func (s *Service) RemoveEntry(ctx context.Context, accountID model.AccountID, contentID int64, kind model.ContentKind) error {
	if contentID <= 0 || kind == "" {
		return fmt.Errorf("%w: id and contentType are required", model.ErrInvalidRequest)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: contentType must be %q or %q", model.ErrInvalidRequest, model.ContentKindMovie, model.ContentKindShow)
	}

	key := model.EntryKey{ContentID: contentID, Kind: kind}
	if err := s.storage.RemoveWatchlistEntry(ctx, accountID, key); err != nil {
		return err
	}

	s.logger.Debug("watchlist entry removed",
		slog.String("account_id", string(accountID)),
		slog.String("entry", key.String()),
	)
	return nil
}

// ListEntries returns the watchlist oldest first
func (s *Service) ListEntries(ctx context.Context, accountID model.AccountID) ([]model.WatchlistEntry, error) {
	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Watchlist == nil {
		return []model.WatchlistEntry{}, nil
	}
	return account.Watchlist, nil
}

// SetAvatar stores the avatar selector for the account
func (s *Service) SetAvatar(ctx context.Context, accountID model.AccountID, avatar int) error {
	return s.storage.SetAvatar(ctx, accountID, avatar)
}

// GetProfile returns the account's display name and avatar
func (s *Service) GetProfile(ctx context.Context, accountID model.AccountID) (*model.Profile, error) {
	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &model.Profile{Name: account.Name, Avatar: account.Avatar}, nil
}
