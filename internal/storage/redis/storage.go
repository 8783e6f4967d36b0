package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each account is one JSON document; mutations run as WATCH/MULTI
// transactions so concurrent writers never overwrite each other.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	stored := account.Clone()
	stored.Email = model.NormalizeEmail(account.Email)
	if stored.Watchlist == nil {
		stored.Watchlist = []model.WatchlistEntry{}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	indexKey := emailIndexKey(stored.Email)

	return s.retryTx(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, indexKey).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return model.ErrDuplicateEmail
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, accountKey(stored.ID), data, 0)
			pipe.Set(ctx, indexKey, string(stored.ID), 0)
			return nil
		})
		return err
	}, indexKey)
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	return getAccount(ctx, s.client, id)
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	// Look up account ID from email index
	id, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.AccountID(id))
}

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	return s.updateAccount(ctx, account.ID, func(existing *model.Account) error {
		email := existing.Email
		*existing = *account.Clone()
		existing.Email = email
		return nil
	})
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.AccountID) error {
	key := accountKey(id)

	return s.retryTx(ctx, func(tx *redis.Tx) error {
		account, err := getAccount(ctx, tx, id)
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.Del(ctx, emailIndexKey(account.Email))
			return nil
		})
		return err
	}, key)
}

// Watchlist operations

func (s *Storage) AddWatchlistEntry(ctx context.Context, id model.AccountID, entry model.WatchlistEntry) error {
	return s.updateAccount(ctx, id, func(account *model.Account) error {
		if account.HasEntry(entry.Key()) {
			return model.ErrDuplicateEntry
		}
		account.Watchlist = append(account.Watchlist, entry.Clone())
		return nil
	})
}

func (s *Storage) RemoveWatchlistEntry(ctx context.Context, id model.AccountID, key model.EntryKey) error {
	return s.updateAccount(ctx, id, func(account *model.Account) error {
		account.RemoveEntry(key)
		return nil
	})
}

// Profile operations

func (s *Storage) SetAvatar(ctx context.Context, id model.AccountID, avatar int) error {
	return s.updateAccount(ctx, id, func(account *model.Account) error {
		account.Avatar = &avatar
		return nil
	})
}

// updateAccount applies mutate to the stored document inside an optimistic
// transaction. mutate may run more than once if the key changes underneath.
func (s *Storage) updateAccount(ctx context.Context, id model.AccountID, mutate func(*model.Account) error) error {
	key := accountKey(id)

	return s.retryTx(ctx, func(tx *redis.Tx) error {
		account, err := getAccount(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := mutate(account); err != nil {
			return err
		}
		account.ID = id
		account.UpdatedAt = time.Now()

		data, err := json.Marshal(account)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
}

// retryTx runs fn under WATCH on keys, retrying while another client wins the race
func (s *Storage) retryTx(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < s.cfg.MaxTxRetries; attempt++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: gave up after %d attempts", model.ErrConcurrentUpdate, s.cfg.MaxTxRetries)
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getAccount(ctx context.Context, c getter, id model.AccountID) (*model.Account, error) {
	data, err := c.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	if account.Watchlist == nil {
		account.Watchlist = []model.WatchlistEntry{}
	}
	return &account, nil
}
