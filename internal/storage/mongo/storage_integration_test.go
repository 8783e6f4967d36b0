//go:build integration

package mongo_test

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mcoot/watchlist/internal/storage"
	mongostorage "github.com/mcoot/watchlist/internal/storage/mongo"
	"github.com/mcoot/watchlist/internal/storage/storagetest"
)

var uri string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		panic(err)
	}
	uri = fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	var dbCounter atomic.Int64

	s := new(StorageSuite)
	s.NewStorage = func() storage.Storage {
		cfg := mongostorage.DefaultConfig()
		cfg.URI = uri
		cfg.Database = fmt.Sprintf("watchlist_test_%d", dbCounter.Add(1))

		store, err := mongostorage.New(context.Background(), cfg)
		s.Require().NoError(err)
		s.T().Cleanup(func() { _ = store.Close(context.Background()) })
		return store
	}
	suite.Run(t, s)
}
