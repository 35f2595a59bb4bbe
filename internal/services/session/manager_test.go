package session

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"

	"github.com/rbt-academy/trainer/internal/dependencies/mocks"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
	"github.com/rbt-academy/trainer/internal/storage/memory"
	"github.com/rbt-academy/trainer/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	manager *Manager
	ctx     context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	s.manager = NewManager(s.storage, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ManagerSuite) TestFreshSamplesWithoutReplacement() {
	// Mock returns 0 for every draw: identity order
	st := s.manager.Fresh(s.ctx, model.KindObjection, 15, 10)

	s.Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, st.Order)
	s.Equal(0, st.CurrentIndex)
	s.False(st.Finished)
}

func (s *ManagerSuite) TestFreshUsesRandomDraws() {
	s.random.QueueIntn(4, 0, 2)
	st := s.manager.Fresh(s.ctx, model.KindFixError, 5, 3)

	// [0 1 2 3 4] -> swap(0,4) -> [4 1 2 3 0] -> swap(1,1) -> swap(2,4) -> [4 1 0 3 2]
	s.Equal([]int{4, 1, 0}, st.Order)
}

func (s *ManagerSuite) TestSequenceKeepsOrder() {
	s.random.QueueIntn(2, 1)
	st := s.manager.Sequence(s.ctx, model.KindSellProduct, 3)

	s.Equal([]int{0, 1, 2}, st.Order)
	s.True(st.Validate(model.KindSellProduct, 3))

	_, err := s.storage.Get(s.ctx, storage.SessionKey(model.KindSellProduct))
	s.NoError(err)
}

func (s *ManagerSuite) TestResumeReturnsStoredSession() {
	st := s.manager.Fresh(s.ctx, model.KindObjection, 15, 10)
	s.manager.Advance(s.ctx, st)
	s.manager.Advance(s.ctx, st)

	resumed := s.manager.Resume(s.ctx, model.KindObjection, 15, 10)
	if diff := cmp.Diff(st, resumed); diff != "" {
		s.Failf("resumed session differs", "(-want +got):\n%s", diff)
	}
}

func (s *ManagerSuite) TestResumeAfterFinishStartsFresh() {
	st := s.manager.Fresh(s.ctx, model.KindFixError, 16, 2)
	s.manager.Advance(s.ctx, st)
	s.True(s.manager.Advance(s.ctx, st))

	resumed := s.manager.Resume(s.ctx, model.KindFixError, 16, 2)
	s.False(resumed.Finished)
	s.Equal(0, resumed.CurrentIndex)
	s.False(resumed.Reported)
}

func (s *ManagerSuite) TestResumeCorruptStartsFresh() {
	s.Require().NoError(s.storage.Set(s.ctx, storage.SessionKey(model.KindObjection), []byte(`{"order":`)))
	st := s.manager.Resume(s.ctx, model.KindObjection, 15, 10)
	s.Len(st.Order, 10)
}

func (s *ManagerSuite) TestResumeRejectsOutOfRangeOrder() {
	bad := model.SessionState{Kind: model.KindObjection, Order: []int{0, 99}, CurrentIndex: 1}
	s.Require().NoError(storage.WriteJSON(s.ctx, s.storage, storage.SessionKey(model.KindObjection), bad))

	st := s.manager.Resume(s.ctx, model.KindObjection, 15, 10)
	s.Len(st.Order, 10)
	s.Equal(0, st.CurrentIndex)
}

func (s *ManagerSuite) TestAdvanceReportsOnce() {
	st := s.manager.Fresh(s.ctx, model.KindFixError, 16, 3)
	s.manager.AddScore(s.ctx, st, 25)

	s.False(s.manager.Advance(s.ctx, st))
	s.False(s.manager.Advance(s.ctx, st))
	s.True(s.manager.Advance(s.ctx, st))
	s.True(st.Finished)
	s.Equal(2, st.CurrentIndex)

	s.False(s.manager.Advance(s.ctx, st))
	s.Equal(25, st.Score)
}

func (s *ManagerSuite) TestDiscard() {
	s.manager.Fresh(s.ctx, model.KindQuickReply, 3, 3)
	s.manager.Discard(s.ctx, model.KindQuickReply)

	_, err := s.storage.Get(s.ctx, storage.SessionKey(model.KindQuickReply))
	s.ErrorIs(err, model.ErrNotFound)
}
