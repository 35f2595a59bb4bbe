package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/rbt-academy/trainer/internal/storage"
	"github.com/rbt-academy/trainer/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini  *miniredis.Miniredis
	redis *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.redis = NewWithClient(client, DefaultConfig())
	s.Storage = s.redis
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestKeysArePrefixed() {
	s.Require().NoError(s.redis.Set(s.Ctx, storage.KeyRegistry, []byte(`{}`)))

	s.True(s.mini.Exists("academy:academy_registry"))
	s.False(s.mini.Exists("academy_registry"))
}

func (s *StorageSuite) TestEmptyPrefix() {
	cfg := DefaultConfig()
	cfg.KeyPrefix = ""
	bare := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg)
	defer bare.Close()

	s.Require().NoError(bare.Set(s.Ctx, storage.KeyLedger, []byte(`[]`)))
	s.True(s.mini.Exists("learning_history"))
}
