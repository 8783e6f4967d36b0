package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/watchlist/internal/dependencies/mocks"
	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/services/auth"
	"github.com/mcoot/watchlist/internal/storage/memory"
	"github.com/mcoot/watchlist/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// SignupAndLogin creates an account and returns it with an Authorization
// header value for it
func (t *TestApp) SignupAndLogin(ctx context.Context, name, email, password string) (*model.Account, string, error) {
	account, err := t.AuthService.Signup(ctx, name, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := t.AuthService.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	return account, "Bearer " + token.Value, nil
}
