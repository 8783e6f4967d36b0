// Package storagetest holds the behavioural contract every storage backend
// must satisfy. Backend packages embed Suite and supply a fresh Storage.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/storage"
)

// Suite runs the shared storage contract against Storage
type Suite struct {
	suite.Suite

	// NewStorage must return an empty storage for each test
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

func (s *Suite) newAccount(id, email string) *model.Account {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Account{
		ID:           model.AccountID(id),
		Name:         "Ann",
		Email:        email,
		PasswordHash: "hash",
		Watchlist:    []model.WatchlistEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *Suite) createAccount(id, email string) *model.Account {
	account := s.newAccount(id, email)
	s.Require().NoError(s.Storage.CreateAccount(s.Ctx, account))
	return account
}

func dune() model.WatchlistEntry {
	return model.WatchlistEntry{
		ContentID:   42,
		Kind:        model.ContentKindMovie,
		Title:       "Dune",
		ReleaseDate: "2021-10-22",
		Genre:       []string{"sci-fi", "drama"},
		AddedAt:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

// Account tests

func (s *Suite) TestCreateAndGetAccount() {
	s.createAccount("acc-1", "ann@x.com")

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acc-1"), retrieved.ID)
	s.Equal("Ann", retrieved.Name)
	s.Equal("ann@x.com", retrieved.Email)
	s.Equal("hash", retrieved.PasswordHash)
	s.Nil(retrieved.Avatar)
	s.Empty(retrieved.Watchlist)
}

func (s *Suite) TestGetAccountNotFound() {
	_, err := s.Storage.GetAccount(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestGetAccountByEmailIsCaseInsensitive() {
	s.createAccount("acc-1", "ann@x.com")

	retrieved, err := s.Storage.GetAccountByEmail(s.Ctx, "ANN@X.com")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acc-1"), retrieved.ID)
}

func (s *Suite) TestGetAccountByEmailNotFound() {
	_, err := s.Storage.GetAccountByEmail(s.Ctx, "nobody@x.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestCreateAccountRejectsDuplicateEmail() {
	s.createAccount("acc-1", "ann@x.com")

	err := s.Storage.CreateAccount(s.Ctx, s.newAccount("acc-2", "Ann@X.COM"))
	s.ErrorIs(err, model.ErrDuplicateEmail)

	_, err = s.Storage.GetAccount(s.Ctx, "acc-2")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestReturnedAccountIsDetached() {
	s.createAccount("acc-1", "ann@x.com")

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	retrieved.Name = "Mutated"
	retrieved.Watchlist = append(retrieved.Watchlist, dune())

	again, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal("Ann", again.Name)
	s.Empty(again.Watchlist)
}

func (s *Suite) TestSaveAccountReplacesDocument() {
	account := s.createAccount("acc-1", "ann@x.com")

	avatar := 4
	account.Name = "Annie"
	account.Avatar = &avatar
	account.Watchlist = []model.WatchlistEntry{dune()}
	s.Require().NoError(s.Storage.SaveAccount(s.Ctx, account))

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal("Annie", retrieved.Name)
	s.Require().NotNil(retrieved.Avatar)
	s.Equal(4, *retrieved.Avatar)
	s.Require().Len(retrieved.Watchlist, 1)
	s.Equal(dune().Key(), retrieved.Watchlist[0].Key())
	s.Equal([]string{"sci-fi", "drama"}, retrieved.Watchlist[0].Genre)
}

func (s *Suite) TestSaveAccountNotFound() {
	err := s.Storage.SaveAccount(s.Ctx, s.newAccount("ghost", "ghost@x.com"))
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestDeleteAccount() {
	s.createAccount("acc-1", "ann@x.com")

	s.Require().NoError(s.Storage.DeleteAccount(s.Ctx, "acc-1"))

	_, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.ErrorIs(err, model.ErrAccountNotFound)
	_, err = s.Storage.GetAccountByEmail(s.Ctx, "ann@x.com")
	s.ErrorIs(err, model.ErrAccountNotFound)

	// The email becomes available again
	s.NoError(s.Storage.CreateAccount(s.Ctx, s.newAccount("acc-2", "ann@x.com")))
}

func (s *Suite) TestDeleteAccountNoopForUnknownID() {
	s.NoError(s.Storage.DeleteAccount(s.Ctx, "nonexistent"))
}

// Watchlist tests

func (s *Suite) TestAddWatchlistEntry() {
	s.createAccount("acc-1", "ann@x.com")

	s.Require().NoError(s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", dune()))

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Require().Len(retrieved.Watchlist, 1)
	s.Equal("Dune", retrieved.Watchlist[0].Title)
	s.Equal("2021-10-22", retrieved.Watchlist[0].ReleaseDate)
	s.True(dune().AddedAt.Equal(retrieved.Watchlist[0].AddedAt))
}

func (s *Suite) TestAddWatchlistEntryRejectsDuplicate() {
	s.createAccount("acc-1", "ann@x.com")
	s.Require().NoError(s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", dune()))

	err := s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", dune())
	s.ErrorIs(err, model.ErrDuplicateEntry)

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Len(retrieved.Watchlist, 1)
}

func (s *Suite) TestAddWatchlistEntrySameIDDifferentKind() {
	s.createAccount("acc-1", "ann@x.com")
	s.Require().NoError(s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", dune()))

	show := dune()
	show.Kind = model.ContentKindShow
	s.Require().NoError(s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", show))

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Len(retrieved.Watchlist, 2)
}

func (s *Suite) TestAddWatchlistEntryKeepsInsertionOrder() {
	s.createAccount("acc-1", "ann@x.com")

	for i := int64(1); i <= 5; i++ {
		e := dune()
		e.ContentID = i
		e.Title = fmt.Sprintf("Title %d", i)
		s.Require().NoError(s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", e))
	}

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Require().Len(retrieved.Watchlist, 5)
	for i, e := range retrieved.Watchlist {
		s.Equal(int64(i+1), e.ContentID)
	}
}

func (s *Suite) TestAddWatchlistEntryAccountNotFound() {
	err := s.Storage.AddWatchlistEntry(s.Ctx, "nonexistent", dune())
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestRemoveWatchlistEntry() {
	s.createAccount("acc-1", "ann@x.com")
	s.Require().NoError(s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", dune()))

	s.Require().NoError(s.Storage.RemoveWatchlistEntry(s.Ctx, "acc-1", dune().Key()))

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Empty(retrieved.Watchlist)
}

func (s *Suite) TestRemoveWatchlistEntryIsIdempotent() {
	s.createAccount("acc-1", "ann@x.com")
	s.Require().NoError(s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", dune()))

	absent := model.EntryKey{ContentID: 99, Kind: model.ContentKindShow}
	s.Require().NoError(s.Storage.RemoveWatchlistEntry(s.Ctx, "acc-1", absent))
	s.Require().NoError(s.Storage.RemoveWatchlistEntry(s.Ctx, "acc-1", absent))

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Len(retrieved.Watchlist, 1)
}

func (s *Suite) TestRemoveWatchlistEntryAccountNotFound() {
	err := s.Storage.RemoveWatchlistEntry(s.Ctx, "nonexistent", dune().Key())
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestConcurrentAddsKeepEveryEntry() {
	s.createAccount("acc-1", "ann@x.com")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			e := dune()
			e.ContentID = id
			errs <- s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", e)
		}(int64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Len(retrieved.Watchlist, n)
}

func (s *Suite) TestConcurrentDuplicateAddsStoreOnce() {
	s.createAccount("acc-1", "ann@x.com")

	const n = 10
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Storage.AddWatchlistEntry(s.Ctx, "acc-1", dune())
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrDuplicateEntry)
	}
	s.Equal(1, succeeded)

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Len(retrieved.Watchlist, 1)
}

// Profile tests

func (s *Suite) TestSetAvatar() {
	s.createAccount("acc-1", "ann@x.com")

	s.Require().NoError(s.Storage.SetAvatar(s.Ctx, "acc-1", 7))

	retrieved, err := s.Storage.GetAccount(s.Ctx, "acc-1")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved.Avatar)
	s.Equal(7, *retrieved.Avatar)
}

func (s *Suite) TestSetAvatarAccountNotFound() {
	err := s.Storage.SetAvatar(s.Ctx, "nonexistent", 1)
	s.ErrorIs(err, model.ErrAccountNotFound)
}
