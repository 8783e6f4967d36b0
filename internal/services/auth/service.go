package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/watchlist/internal/dependencies/clock"
	"github.com/mcoot/watchlist/internal/dependencies/random"
	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/storage"
	"github.com/mcoot/watchlist/internal/token"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("missing or invalid credential")
)

const bearerPrefix = "Bearer "

// Token is an issued bearer credential
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Service handles signup, login and credential verification
type Service struct {
	storage storage.Storage
	tokens  *token.JWT
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	bcryptCost int
}

// Config holds configuration for the auth service
type Config struct {
	SecretKey string
	TokenTTL  time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost; tests lower it
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SecretKey:  "devsecret",
		TokenTTL:   token.DefaultTTL,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = token.DefaultTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		storage:    storage,
		tokens:     token.NewJWT(cfg.SecretKey, cfg.TokenTTL, clk),
		clock:      clk,
		random:     rnd,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// Signup registers a new account with an empty watchlist and no avatar
func (s *Service) Signup(ctx context.Context, name, email, password string) (*model.Account, error) {
	name = strings.TrimSpace(name)
	email = model.NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", model.ErrInvalidRequest)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email address is not valid", model.ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	account := &model.Account{
		ID:           model.AccountID(s.random.ID()),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Watchlist:    []model.WatchlistEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created", slog.String("account_id", string(account.ID)))
	return account, nil
}

// Login checks the email and password and issues a bearer credential
func (s *Service) Login(ctx context.Context, email, password string) (*Token, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", model.ErrInvalidRequest)
	}

	account, err := s.storage.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	value, expiresAt, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	return &Token{Value: value, ExpiresAt: expiresAt}, nil
}

// VerifyCredential resolves an Authorization header value to the account it
// was issued for. Every failure is ErrUnauthorized.
func (s *Service) VerifyCredential(header string) (model.AccountID, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrUnauthorized
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return "", ErrUnauthorized
	}

	id, err := s.tokens.Parse(raw)
	if err != nil {
		s.logger.Debug("credential rejected", slog.String("error", err.Error()))
		return "", ErrUnauthorized
	}
	return id, nil
}
