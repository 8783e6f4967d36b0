package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts   map[model.AccountID]*model.Account
	emailIndex map[string]model.AccountID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:   make(map[model.AccountID]*model.Account),
		emailIndex: make(map[string]model.AccountID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := model.NormalizeEmail(account.Email)
	if _, taken := s.emailIndex[email]; taken {
		return model.ErrDuplicateEmail
	}

	stored := account.Clone()
	stored.Email = email
	s.accounts[stored.ID] = stored
	s.emailIndex[email] = stored.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[model.NormalizeEmail(email)]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[account.ID]
	if !ok {
		return model.ErrAccountNotFound
	}

	stored := account.Clone()
	// Email is immutable once registered
	stored.Email = existing.Email
	s.accounts[stored.ID] = stored
	return nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[id]; ok {
		delete(s.emailIndex, account.Email)
		delete(s.accounts, id)
	}
	return nil
}

// Watchlist operations

func (s *Storage) AddWatchlistEntry(ctx context.Context, id model.AccountID, entry model.WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return model.ErrAccountNotFound
	}
	if account.HasEntry(entry.Key()) {
		return model.ErrDuplicateEntry
	}

	account.Watchlist = append(account.Watchlist, entry.Clone())
	account.UpdatedAt = time.Now()
	return nil
}

func (s *Storage) RemoveWatchlistEntry(ctx context.Context, id model.AccountID, key model.EntryKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return model.ErrAccountNotFound
	}
	if account.RemoveEntry(key) {
		account.UpdatedAt = time.Now()
	}
	return nil
}

// Profile operations

func (s *Storage) SetAvatar(ctx context.Context, id model.AccountID, avatar int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return model.ErrAccountNotFound
	}
	account.Avatar = &avatar
	account.UpdatedAt = time.Now()
	return nil
}
