package exercise

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rbt-academy/trainer/internal/model"
)

type ObjectionSuite struct {
	controllerSuite
	drill *ObjectionDrill
}

func TestObjectionSuite(t *testing.T) {
	suite.Run(t, new(ObjectionSuite))
}

func (s *ObjectionSuite) SetupTest() {
	s.controllerSuite.SetupTest()
	s.drill = NewObjectionDrill(s.deps)
}

func (s *ObjectionSuite) mount() ObjectionView {
	v, err := s.drill.Mount(s.ctx)
	s.Require().NoError(err)
	return v.(ObjectionView)
}

type objectionResult struct {
	view ObjectionView
	err  error
}

func (s *ObjectionSuite) TestRequiresMount() {
	_, err := s.drill.Submit(s.ctx, "answer")
	s.ErrorIs(err, model.ErrNotMounted)
	_, err = s.drill.Next(s.ctx)
	s.ErrorIs(err, model.ErrNotMounted)
	_, err = s.drill.View()
	s.ErrorIs(err, model.ErrNotMounted)
}

func (s *ObjectionSuite) TestMountStartsSession() {
	v := s.mount()

	s.Equal(0, v.Index)
	s.Equal(ObjectionSessionSize, v.Total)
	s.Equal(Objections[0], v.Objection)
	s.False(v.Finished)
	s.Nil(v.Verdict)
}

func (s *ObjectionSuite) TestSubmitScoresAndRecords() {
	s.mount()

	v, err := s.drill.Submit(s.ctx, "  I understand. Let me show you what is included in our price.  ")
	s.Require().NoError(err)
	s.Require().NotNil(v.Verdict)
	s.False(v.Verdict.Degraded)
	s.Equal(30, v.Verdict.Judgement.Score)

	s.Equal([]int{30}, s.progress.Scores())
	s.Require().Len(s.progress.objections, 1)
	rec := s.progress.objections[0]
	s.Equal(Objections[0], rec.Question)
	s.Equal("I understand. Let me show you what is included in our price.", rec.Answer)
	s.Equal(s.clock.Now(), rec.Date)
	s.NotNil(rec.Metrics)
}

func (s *ObjectionSuite) TestSubmitFallsBackWhenUnavailable() {
	s.judge.Unavailable = true
	s.mount()

	v, err := s.drill.Submit(s.ctx, "We can match the price.")
	s.Require().NoError(err)
	s.True(v.Verdict.Degraded)
	s.Equal(ObjectionFallbackScore, v.Verdict.Judgement.Score)
	s.Equal(AcceptedFeedback, v.Verdict.Judgement.Feedback)
	s.Equal(0, s.judge.ScoreCalls())

	s.Equal([]int{ObjectionFallbackScore}, s.progress.Scores())
	s.Nil(s.progress.objections[0].Metrics)
	s.True(s.progress.objections[0].Degraded)
}

func (s *ObjectionSuite) TestSubmitFallsBackOnMalformedJudgement() {
	s.judge.ScoreFunc = func(ctx context.Context, situation, answer string) (model.Judgement, error) {
		return model.Judgement{Score: 500}, nil
	}
	s.mount()

	v, err := s.drill.Submit(s.ctx, "answer")
	s.Require().NoError(err)
	s.True(v.Verdict.Degraded)
	s.Equal(ObjectionFallbackScore, v.Verdict.Judgement.Score)
}

func (s *ObjectionSuite) TestSubmitValidation() {
	s.mount()

	_, err := s.drill.Submit(s.ctx, "   ")
	s.ErrorIs(err, model.ErrEmptyAnswer)

	_, err = s.drill.Next(s.ctx)
	s.ErrorIs(err, model.ErrNotAnswered)

	_, err = s.drill.Submit(s.ctx, "first")
	s.Require().NoError(err)
	_, err = s.drill.Submit(s.ctx, "second")
	s.ErrorIs(err, model.ErrAlreadyAnswered)
	s.Len(s.progress.Scores(), 1)
}

func (s *ObjectionSuite) TestProgressSurvivesRemount() {
	s.random.QueueIntn(3)
	s.mount()
	_, err := s.drill.Submit(s.ctx, "answer")
	s.Require().NoError(err)
	v, err := s.drill.Next(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, v.Index)

	s.drill.Unmount(s.ctx)
	again := NewObjectionDrill(s.deps)
	resumed, err := again.Mount(s.ctx)
	s.Require().NoError(err)

	rv := resumed.(ObjectionView)
	s.Equal(1, rv.Index)
	s.Equal(v.Objection, rv.Objection)
}

func (s *ObjectionSuite) TestFinishReportsNothingExtra() {
	s.mount()
	for i := 0; i < ObjectionSessionSize; i++ {
		_, err := s.drill.Submit(s.ctx, "answer")
		s.Require().NoError(err)
		_, err = s.drill.Next(s.ctx)
		s.Require().NoError(err)
	}

	v, err := s.drill.View()
	s.Require().NoError(err)
	ov := v.(ObjectionView)
	s.True(ov.Finished)
	s.Empty(ov.Objection)
	s.Len(s.progress.Scores(), ObjectionSessionSize)

	_, err = s.drill.Submit(s.ctx, "answer")
	s.ErrorIs(err, model.ErrSessionFinished)
}

func (s *ObjectionSuite) TestRestart() {
	s.mount()
	_, err := s.drill.Submit(s.ctx, "answer")
	s.Require().NoError(err)
	_, err = s.drill.Next(s.ctx)
	s.Require().NoError(err)

	v, err := s.drill.Restart(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, v.Index)
	s.Nil(v.Verdict)
}

func (s *ObjectionSuite) TestSecondSubmitWhileBusy() {
	started, release := s.blockScoring()
	s.mount()

	done := make(chan objectionResult, 1)
	go func() {
		v, err := s.drill.Submit(s.ctx, "first")
		done <- objectionResult{v, err}
	}()
	<-started

	_, err := s.drill.Submit(s.ctx, "second")
	s.ErrorIs(err, model.ErrBusy)
	view, err := s.drill.View()
	s.Require().NoError(err)
	s.True(view.(ObjectionView).Busy)

	close(release)
	res := <-done
	s.Require().NoError(res.err)
	s.False(res.view.Busy)
	s.Equal([]int{30}, s.progress.Scores())
}

func (s *ObjectionSuite) TestLateResultDroppedAfterUnmount() {
	started, release := s.blockScoring()
	s.mount()

	done := make(chan objectionResult, 1)
	go func() {
		v, err := s.drill.Submit(s.ctx, "answer")
		done <- objectionResult{v, err}
	}()
	<-started

	s.drill.Unmount(s.ctx)
	close(release)

	res := <-done
	s.ErrorIs(res.err, model.ErrNotMounted)
	s.Empty(s.progress.Scores())
	s.Empty(s.progress.objections)
}

func (s *ObjectionSuite) TestLateResultDroppedAfterUserChange() {
	started, release := s.blockScoring()
	s.mount()

	done := make(chan objectionResult, 1)
	go func() {
		v, err := s.drill.Submit(s.ctx, "answer")
		done <- objectionResult{v, err}
	}()
	<-started

	s.progress.signIn("Boris")
	close(release)

	res := <-done
	s.ErrorIs(res.err, model.ErrNotMounted)
	s.Empty(s.progress.Scores())
	s.Empty(s.progress.objections)

	// The drill is free again for whoever mounts it next
	view, err := s.drill.View()
	s.Require().NoError(err)
	s.False(view.(ObjectionView).Busy)
}

func (s *ObjectionSuite) TestScoreReportFailureStillShowsVerdict() {
	s.progress.err = model.ErrNotAuthenticated
	s.mount()

	v, err := s.drill.Submit(s.ctx, "answer")
	s.Require().NoError(err)
	s.NotNil(v.Verdict)
}

func (s *ObjectionSuite) TestCheckText() {
	s.judge.CheckTextFunc = func(ctx context.Context, text string) (model.SpellCheck, error) {
		return model.SpellCheck{CorrectedText: "Good afternoon", ErrorsFound: true}, nil
	}
	_, _, err := s.drill.CheckText(s.ctx, "Good afternon")
	s.ErrorIs(err, model.ErrNotMounted)

	s.mount()
	sc, ok, err := s.drill.CheckText(s.ctx, "Good afternon")
	s.Require().NoError(err)
	s.True(ok)
	s.True(sc.ErrorsFound)
	s.Equal("Good afternoon", sc.CorrectedText)

	s.judge.CheckTextFunc = func(ctx context.Context, text string) (model.SpellCheck, error) {
		return model.SpellCheck{}, errors.New("quota exceeded")
	}
	sc, ok, err = s.drill.CheckText(s.ctx, "Good afternon")
	s.Require().NoError(err)
	s.False(ok)
	s.Equal("Good afternon", sc.CorrectedText)
}
