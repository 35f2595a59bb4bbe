package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rbt-academy/trainer/internal/storage"
	"github.com/rbt-academy/trainer/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	path   string
	sqlite *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "device", "academy.db")
	st, err := Open(s.path)
	s.Require().NoError(err)
	s.sqlite = st
	s.Storage = st
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.sqlite != nil {
		_ = s.sqlite.Close()
	}
}

func (s *StorageSuite) TestSurvivesReopen() {
	s.Require().NoError(s.sqlite.Set(s.Ctx, storage.KeyAvatar, []byte(`"Grid"`)))
	s.Require().NoError(s.sqlite.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.sqlite = reopened

	value, err := reopened.Get(s.Ctx, storage.KeyAvatar)
	s.Require().NoError(err)
	s.Equal(`"Grid"`, string(value))
}
