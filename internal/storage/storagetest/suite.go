// Package storagetest holds behaviour every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/suite"

	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
)

// Suite runs the common storage contract against a backend.
// Embed it and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) ctx() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

func (s *Suite) TestGetMissing() {
	_, err := s.Storage.Get(s.ctx(), "missing")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *Suite) TestSetAndGet() {
	s.Require().NoError(s.Storage.Set(s.ctx(), storage.KeyRegistry, []byte(`{"Anna":{"xp":10}}`)))

	value, err := s.Storage.Get(s.ctx(), storage.KeyRegistry)
	s.Require().NoError(err)
	s.JSONEq(`{"Anna":{"xp":10}}`, string(value))
}

func (s *Suite) TestOverwrite() {
	s.Require().NoError(s.Storage.Set(s.ctx(), storage.KeyAvatar, []byte(`"Pulse"`)))
	s.Require().NoError(s.Storage.Set(s.ctx(), storage.KeyAvatar, []byte(`"Orbit"`)))

	value, err := s.Storage.Get(s.ctx(), storage.KeyAvatar)
	s.Require().NoError(err)
	s.Equal(`"Orbit"`, string(value))
}

func (s *Suite) TestDelete() {
	s.Require().NoError(s.Storage.Set(s.ctx(), storage.KeyCurrentUser, []byte(`{}`)))
	s.Require().NoError(s.Storage.Delete(s.ctx(), storage.KeyCurrentUser))

	_, err := s.Storage.Get(s.ctx(), storage.KeyCurrentUser)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *Suite) TestDeleteMissing() {
	s.NoError(s.Storage.Delete(s.ctx(), "never-written"))
}

func (s *Suite) TestReturnedValueIsCopy() {
	s.Require().NoError(s.Storage.Set(s.ctx(), "k", []byte("abc")))
	value, err := s.Storage.Get(s.ctx(), "k")
	s.Require().NoError(err)
	value[0] = 'x'

	again, err := s.Storage.Get(s.ctx(), "k")
	s.Require().NoError(err)
	s.Equal("abc", string(again))
}

func (s *Suite) TestConcurrentWrites() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			s.NoError(s.Storage.Set(s.ctx(), key, []byte(key)))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("key-%d", i)
		value, err := s.Storage.Get(s.ctx(), key)
		s.Require().NoError(err)
		s.Equal(key, string(value))
	}
}
