package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/storage"
)

// Storage is a MongoDB-backed implementation of the storage interface.
// Watchlist mutations are single-document update operators, which MongoDB
// applies atomically.
type Storage struct {
	client   *mongo.Client
	accounts *mongo.Collection
}

// New connects to MongoDB and ensures the collection's indexes exist
func New(ctx context.Context, cfg Config) (*Storage, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := NewWithClient(client, cfg)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewWithClient creates a storage over an existing client without touching indexes
func NewWithClient(client *mongo.Client, cfg Config) *Storage {
	if cfg.Collection == "" {
		cfg.Collection = DefaultConfig().Collection
	}
	return &Storage{
		client:   client,
		accounts: client.Database(cfg.Database).Collection(cfg.Collection),
	}
}

// Close disconnects the client
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	doc := account.Clone()
	doc.Email = model.NormalizeEmail(account.Email)
	// $push needs an array to append to
	if doc.Watchlist == nil {
		doc.Watchlist = []model.WatchlistEntry{}
	}

	if _, err := s.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	return s.findOne(ctx, bson.M{"_id": string(id)})
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.findOne(ctx, bson.M{"email": model.NormalizeEmail(email)})
}

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	watchlist := account.Watchlist
	if watchlist == nil {
		watchlist = []model.WatchlistEntry{}
	}

	res, err := s.accounts.UpdateOne(ctx,
		bson.M{"_id": string(account.ID)},
		bson.M{"$set": bson.M{
			"name":          account.Name,
			"password_hash": account.PasswordHash,
			"avatar":        account.Avatar,
			"watchlist":     watchlist,
			"updated_at":    time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.AccountID) error {
	if _, err := s.accounts.DeleteOne(ctx, bson.M{"_id": string(id)}); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// Watchlist operations

func (s *Storage) AddWatchlistEntry(ctx context.Context, id model.AccountID, entry model.WatchlistEntry) error {
	// The filter only matches when no entry with the same key exists, so the
	// uniqueness check and the append happen in one atomic update
	filter := bson.M{
		"_id": string(id),
		"watchlist": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"id":          entry.ContentID,
			"contentType": entry.Kind,
		}}},
	}
	update := bson.M{
		"$push": bson.M{"watchlist": entry},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	res, err := s.accounts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the account is gone or the entry is present
	exists, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrAccountNotFound
	}
	return model.ErrDuplicateEntry
}

func (s *Storage) RemoveWatchlistEntry(ctx context.Context, id model.AccountID, key model.EntryKey) error {
	res, err := s.accounts.UpdateOne(ctx,
		bson.M{"_id": string(id)},
		bson.M{"$pull": bson.M{"watchlist": bson.M{
			"id":          key.ContentID,
			"contentType": key.Kind,
		}}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

// Profile operations

func (s *Storage) SetAvatar(ctx context.Context, id model.AccountID, avatar int) error {
	res, err := s.accounts.UpdateOne(ctx,
		bson.M{"_id": string(id)},
		bson.M{"$set": bson.M{"avatar": avatar, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set avatar: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) findOne(ctx context.Context, filter bson.M) (*model.Account, error) {
	var account model.Account
	if err := s.accounts.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account.Watchlist == nil {
		account.Watchlist = []model.WatchlistEntry{}
	}
	return &account, nil
}

func (s *Storage) exists(ctx context.Context, id model.AccountID) (bool, error) {
	n, err := s.accounts.CountDocuments(ctx, bson.M{"_id": string(id)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n > 0, nil
}
