package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rbt-academy/trainer/internal/storage/storagetest"
)

// Set ACADEMY_TEST_POSTGRES_URL to run against a real database
const dsnEnv = "ACADEMY_TEST_POSTGRES_URL"

type StorageSuite struct {
	storagetest.Suite
	pg *Storage
}

func TestStorageSuite(t *testing.T) {
	if os.Getenv(dsnEnv) == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	cfg := DefaultConfig()
	cfg.DSN = os.Getenv(dsnEnv)
	cfg.Table = fmt.Sprintf("academy_kv_test_%d", time.Now().UnixNano())

	s.Ctx = context.Background()
	pg, err := New(s.Ctx, cfg)
	s.Require().NoError(err)
	s.pg = pg
	s.Storage = pg
}

func (s *StorageSuite) TearDownTest() {
	if s.pg != nil {
		_, _ = s.pg.pool.Exec(s.Ctx, `DROP TABLE IF EXISTS `+s.pg.table)
		_ = s.pg.Close()
	}
}
