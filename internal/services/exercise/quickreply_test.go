package exercise

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/storage"
)

type QuickReplySuite struct {
	controllerSuite
	quiz *QuickReply
}

func TestQuickReplySuite(t *testing.T) {
	suite.Run(t, new(QuickReplySuite))
}

func (s *QuickReplySuite) SetupTest() {
	s.controllerSuite.SetupTest()
	s.quiz = NewQuickReply(s.deps)
}

func (s *QuickReplySuite) mount() QuickReplyView {
	v, err := s.quiz.Mount(s.ctx)
	s.Require().NoError(err)
	return v.(QuickReplyView)
}

func generatedQuestions(n int) []model.QuizQuestion {
	out := make([]model.QuizQuestion, n)
	for i := range out {
		out[i] = model.QuizQuestion{
			Question: "Generated question",
			Options: []model.QuizOption{
				{Text: "Best", Score: 40, Feedback: "Spot on."},
				{Text: "Worst", Score: -10, Feedback: "No."},
			},
		}
	}
	return out
}

func (s *QuickReplySuite) TestMountFallsBackToStaticQuiz() {
	v := s.mount()

	s.False(v.Generated)
	s.Equal(len(FallbackQuiz), v.Total)
	s.Require().NotNil(v.Question)
	s.Equal(FallbackQuiz[0].Question, v.Question.Question)
	s.Require().NotNil(v.Deadline)
	s.Equal(s.clock.Now().Add(QuestionTime), *v.Deadline)
}

func (s *QuickReplySuite) TestMountUsesGeneratedQuiz() {
	s.judge.QuizFunc = func(ctx context.Context, count int) ([]model.QuizQuestion, error) {
		s.Equal(QuizSize, count)
		return generatedQuestions(5), nil
	}
	v := s.mount()

	s.True(v.Generated)
	s.Equal(QuizSize, v.Total)
	s.Equal("Generated question", v.Question.Question)
}

func (s *QuickReplySuite) TestInvalidGeneratedQuizFallsBack() {
	s.judge.QuizFunc = func(ctx context.Context, count int) ([]model.QuizQuestion, error) {
		return []model.QuizQuestion{{Question: "No options"}}, nil
	}
	v := s.mount()
	s.False(v.Generated)
	s.Equal(FallbackQuiz[0].Question, v.Question.Question)
}

func (s *QuickReplySuite) TestChooseInTime() {
	s.mount()
	s.clock.Advance(10 * time.Second)

	v, err := s.quiz.Choose(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().NotNil(v.Result)
	s.Equal(FallbackQuiz[0].Options[0].Score, v.Result.Score)
	s.Equal(FallbackQuiz[0].Options[0].Feedback, v.Result.Feedback)
	s.False(v.Result.TimedOut)
	s.Nil(v.Deadline)
	s.Equal(FallbackQuiz[0].Options[0].Score, v.Score)
	s.Empty(s.progress.Scores())
}

func (s *QuickReplySuite) TestChooseAfterDeadlineTimesOut() {
	s.mount()
	s.clock.Advance(QuestionTime + time.Second)

	v, err := s.quiz.Choose(s.ctx, 0)
	s.Require().NoError(err)
	s.True(v.Result.TimedOut)
	s.Equal(TimeoutPenalty, v.Result.Score)
	s.Equal(TimeoutFeedback, v.Result.Feedback)
}

func (s *QuickReplySuite) TestExplicitTimeout() {
	s.mount()

	v, err := s.quiz.Timeout(s.ctx)
	s.Require().NoError(err)
	s.Equal(TimeoutPenalty, v.Score)

	_, err = s.quiz.Timeout(s.ctx)
	s.ErrorIs(err, model.ErrAlreadyAnswered)
}

func (s *QuickReplySuite) TestChooseValidation() {
	s.mount()

	_, err := s.quiz.Choose(s.ctx, 7)
	s.ErrorIs(err, model.ErrInvalidOption)
	_, err = s.quiz.Choose(s.ctx, -1)
	s.ErrorIs(err, model.ErrInvalidOption)

	_, err = s.quiz.Next(s.ctx)
	s.ErrorIs(err, model.ErrNotAnswered)

	_, err = s.quiz.Choose(s.ctx, 1)
	s.Require().NoError(err)
	_, err = s.quiz.Choose(s.ctx, 0)
	s.ErrorIs(err, model.ErrAlreadyAnswered)
}

func (s *QuickReplySuite) TestTotalReportedOnceAtEnd() {
	s.mount()

	_, err := s.quiz.Choose(s.ctx, 0)
	s.Require().NoError(err)
	v, err := s.quiz.Next(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, v.Index)
	s.Equal(s.clock.Now().Add(QuestionTime), *v.Deadline)

	_, err = s.quiz.Timeout(s.ctx)
	s.Require().NoError(err)
	_, err = s.quiz.Next(s.ctx)
	s.Require().NoError(err)

	_, err = s.quiz.Choose(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(s.progress.Scores())

	v, err = s.quiz.Next(s.ctx)
	s.Require().NoError(err)
	s.True(v.Finished)
	s.Nil(v.Question)

	want := FallbackQuiz[0].Options[0].Score + TimeoutPenalty + FallbackQuiz[2].Options[1].Score
	s.Equal(want, v.Score)
	s.Equal([]int{want}, s.progress.Scores())

	_, err = s.quiz.Next(s.ctx)
	s.ErrorIs(err, model.ErrSessionFinished)
	_, err = s.quiz.Choose(s.ctx, 0)
	s.ErrorIs(err, model.ErrSessionFinished)
	s.Len(s.progress.Scores(), 1)
}

func (s *QuickReplySuite) TestCustomAnswerIsScoredAndLogged() {
	s.mount()
	s.clock.Advance(time.Minute)

	v, err := s.quiz.Custom(s.ctx, "I'd offer to compare both models side by side.")
	s.Require().NoError(err)
	s.True(v.Result.Custom)
	s.False(v.Result.TimedOut)
	s.Equal(30, v.Result.Score)

	logged := s.responses.List(s.ctx)
	s.Require().Len(logged, 1)
	s.Equal("Anna", logged[0].Name)
	s.Equal(FallbackQuiz[0].Question, logged[0].Question)
	s.Equal("I'd offer to compare both models side by side.", logged[0].Response)
	s.Equal(30, logged[0].Score)
	s.Equal(s.clock.Now(), logged[0].Date)
}

func (s *QuickReplySuite) TestCustomAnswerFallback() {
	s.judge.Unavailable = true
	s.mount()

	v, err := s.quiz.Custom(s.ctx, "Some answer")
	s.Require().NoError(err)
	s.Equal(CustomFallbackScore, v.Result.Score)
	s.Equal(AcceptedFeedback, v.Result.Feedback)
	s.True(v.Result.Degraded)
}

func (s *QuickReplySuite) TestCustomAnswerRejectsEmpty() {
	s.mount()
	_, err := s.quiz.Custom(s.ctx, " ")
	s.ErrorIs(err, model.ErrEmptyAnswer)
	s.Empty(s.responses.List(s.ctx))
}

func (s *QuickReplySuite) TestLateCustomAnswerDropped() {
	started, release := s.blockScoring()
	s.mount()

	done := make(chan error, 1)
	go func() {
		_, err := s.quiz.Custom(s.ctx, "answer")
		done <- err
	}()
	<-started

	_, err := s.quiz.Choose(s.ctx, 0)
	s.ErrorIs(err, model.ErrBusy)

	s.quiz.Unmount(s.ctx)
	close(release)
	s.ErrorIs(<-done, model.ErrNotMounted)
	s.Empty(s.responses.List(s.ctx))
}

func (s *QuickReplySuite) TestUnmountDiscardsSession() {
	s.mount()
	_, err := s.volatile.Get(s.ctx, storage.SessionKey(model.KindQuickReply))
	s.Require().NoError(err)

	s.quiz.Unmount(s.ctx)
	_, err = s.volatile.Get(s.ctx, storage.SessionKey(model.KindQuickReply))
	s.ErrorIs(err, model.ErrNotFound)
}
