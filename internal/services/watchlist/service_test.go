package watchlist

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/watchlist/internal/dependencies/mocks"
	"github.com/mcoot/watchlist/internal/model"
	"github.com/mcoot/watchlist/internal/storage/memory"
	"github.com/mcoot/watchlist/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
	account model.AccountID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	account := testutil.NewAccount("acc-1", "Ann", "ann@x.com")
	s.Require().NoError(s.storage.CreateAccount(s.ctx, account))
	s.account = account.ID
}

func (s *ServiceSuite) list() []model.WatchlistEntry {
	entries, err := s.service.ListEntries(s.ctx, s.account)
	s.Require().NoError(err)
	return entries
}

// AddEntry tests

func (s *ServiceSuite) TestAddEntrySucceeds() {
	err := s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune"))
	s.Require().NoError(err)

	entries := s.list()
	s.Require().Len(entries, 1)
	s.Equal(int64(42), entries[0].ContentID)
	s.Equal(model.ContentKindMovie, entries[0].Kind)
	s.Equal("Dune", entries[0].Title)
	s.Equal(s.clock.Now(), entries[0].AddedAt)
}

func (s *ServiceSuite) TestAddEntryKeepsOptionalFields() {
	entry := model.WatchlistEntry{
		ContentID:   1399,
		Kind:        model.ContentKindShow,
		Title:       "Game of Thrones",
		ReleaseDate: "2011-04-17",
		Overview:    "Seven noble families fight for control of the mythical land of Westeros.",
		PosterPath:  "/1XS1oqL89opfnbLl8WnZY1O1uJx.jpg",
		Genre:       []string{"Sci-Fi & Fantasy", "Drama"},
	}
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, entry))

	got := s.list()[0]
	s.Equal(entry.ReleaseDate, got.ReleaseDate)
	s.Equal(entry.Overview, got.Overview)
	s.Equal(entry.PosterPath, got.PosterPath)
	s.Equal(entry.Genre, got.Genre)
}

func (s *ServiceSuite) TestAddEntryRejectsDuplicate() {
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune")))

	err := s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune: Part One"))
	s.ErrorIs(err, model.ErrDuplicateEntry)
	s.Len(s.list(), 1)
}

func (s *ServiceSuite) TestAddEntryAllowsSameIDWithOtherKind() {
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune")))
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, testutil.Show(42, "Dune: Prophecy")))

	s.Len(s.list(), 2)
}

func (s *ServiceSuite) TestAddEntryRejectsInvalidEntry() {
	cases := []model.WatchlistEntry{
		{Kind: model.ContentKindMovie, Title: "No ID"},
		{ContentID: 1, Title: "No kind"},
		{ContentID: 1, Kind: "book", Title: "Bad kind"},
		{ContentID: 1, Kind: model.ContentKindMovie},
	}
	for _, entry := range cases {
		err := s.service.AddEntry(s.ctx, s.account, entry)
		s.ErrorIs(err, model.ErrInvalidEntry)
	}
	s.Empty(s.list())
}

func (s *ServiceSuite) TestAddEntryFailsForMissingAccount() {
	err := s.service.AddEntry(s.ctx, "ghost", testutil.Movie(42, "Dune"))
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *ServiceSuite) TestAddEntryDoesNotAliasCallerGenre() {
	entry := testutil.Movie(42, "Dune")
	entry.Genre = []string{"Science Fiction"}
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, entry))

	entry.Genre[0] = "Changed"
	s.Equal("Science Fiction", s.list()[0].Genre[0])
}

func (s *ServiceSuite) TestConcurrentDuplicateAddsStoreOneEntry() {
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune"))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrDuplicateEntry)
		}
	}
	s.Equal(1, succeeded)
	s.Len(s.list(), 1)
}

// RemoveEntry tests

func (s *ServiceSuite) TestRemoveEntrySucceeds() {
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune")))

	s.Require().NoError(s.service.RemoveEntry(s.ctx, s.account, 42, model.ContentKindMovie))
	s.Empty(s.list())
}

func (s *ServiceSuite) TestRemoveEntryIsIdempotent() {
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, testutil.Movie(7, "Alien")))

	s.NoError(s.service.RemoveEntry(s.ctx, s.account, 42, model.ContentKindMovie))
	s.NoError(s.service.RemoveEntry(s.ctx, s.account, 42, model.ContentKindMovie))

	entries := s.list()
	s.Require().Len(entries, 1)
	s.Equal(int64(7), entries[0].ContentID)
}

func (s *ServiceSuite) TestRemoveEntryMatchesKind() {
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune")))

	s.Require().NoError(s.service.RemoveEntry(s.ctx, s.account, 42, model.ContentKindShow))
	s.Len(s.list(), 1)
}

func (s *ServiceSuite) TestRemoveEntryRejectsMissingKeyParts() {
	s.ErrorIs(s.service.RemoveEntry(s.ctx, s.account, 0, model.ContentKindMovie), model.ErrInvalidRequest)
	s.ErrorIs(s.service.RemoveEntry(s.ctx, s.account, 42, ""), model.ErrInvalidRequest)
	s.ErrorIs(s.service.RemoveEntry(s.ctx, s.account, 42, "book"), model.ErrInvalidRequest)
}

func (s *ServiceSuite) TestRemoveEntryFailsForMissingAccount() {
	err := s.service.RemoveEntry(s.ctx, "ghost", 42, model.ContentKindMovie)
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// ListEntries tests

func (s *ServiceSuite) TestListEntriesEmptyIsNotNil() {
	entries := s.list()
	s.NotNil(entries)
	s.Empty(entries)
}

func (s *ServiceSuite) TestListEntriesInInsertionOrder() {
	for i := 1; i <= 5; i++ {
		s.Require().NoError(s.service.AddEntry(s.ctx, s.account, testutil.Movie(int64(i), fmt.Sprintf("Movie %d", i))))
		s.clock.Advance(time.Minute)
	}

	entries := s.list()
	s.Require().Len(entries, 5)
	for i, e := range entries {
		s.Equal(int64(i+1), e.ContentID)
	}
}

func (s *ServiceSuite) TestListEntriesNeverReturnsDuplicates() {
	for i := 0; i < 3; i++ {
		_ = s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune"))
		_ = s.service.AddEntry(s.ctx, s.account, testutil.Show(42, "Dune"))
		_ = s.service.RemoveEntry(s.ctx, s.account, 42, model.ContentKindShow)
	}

	seen := map[model.EntryKey]bool{}
	for _, e := range s.list() {
		s.False(seen[e.Key()], "duplicate %s", e.Key())
		seen[e.Key()] = true
	}
}

func (s *ServiceSuite) TestListEntriesFailsForDeletedAccount() {
	s.Require().NoError(s.storage.DeleteAccount(s.ctx, s.account))

	_, err := s.service.ListEntries(s.ctx, s.account)
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// Profile tests

func (s *ServiceSuite) TestGetProfileWithoutAvatar() {
	profile, err := s.service.GetProfile(s.ctx, s.account)
	s.Require().NoError(err)
	s.Equal("Ann", profile.Name)
	s.Nil(profile.Avatar)
}

func (s *ServiceSuite) TestSetAvatarUpdatesProfile() {
	s.Require().NoError(s.service.SetAvatar(s.ctx, s.account, 3))

	profile, err := s.service.GetProfile(s.ctx, s.account)
	s.Require().NoError(err)
	s.Require().NotNil(profile.Avatar)
	s.Equal(3, *profile.Avatar)
}

func (s *ServiceSuite) TestSetAvatarKeepsWatchlist() {
	s.Require().NoError(s.service.AddEntry(s.ctx, s.account, testutil.Movie(42, "Dune")))
	s.Require().NoError(s.service.SetAvatar(s.ctx, s.account, 0))

	s.Len(s.list(), 1)
}

func (s *ServiceSuite) TestSetAvatarFailsForMissingAccount() {
	s.ErrorIs(s.service.SetAvatar(s.ctx, "ghost", 1), model.ErrAccountNotFound)
}

func (s *ServiceSuite) TestGetProfileFailsForMissingAccount() {
	_, err := s.service.GetProfile(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrAccountNotFound)
}
