package server

import (
	"context"
	"math"
	"time"

	"github.com/codeduel-io/codeduel/internal/questions"
	"github.com/codeduel-io/codeduel/pkg/logging"
	"go.uber.org/zap"
)

// Grader is the external code-grading collaborator. It returns the
// test-pass ratio in [0, 1] for a submission. Optional: without one every
// submission counts as fully accurate, which is logged on each use.
type Grader interface {
	Evaluate(ctx context.Context, question questions.Question, code string) (float64, error)
}

type scorer struct {
	basePoints    int
	matchDuration time.Duration
	grader        Grader
}

func difficultyMultiplier(difficulty questions.Difficulty) float64 {
	switch difficulty {
	case questions.Medium:
		return 1.5
	case questions.Hard:
		return 2.5
	default:
		return 1.0
	}
}

// timeFactor rewards faster submissions: ~1.5x near-instant, floored at
// 0.5x once the match deadline is reached.
func timeFactor(elapsed, matchDuration time.Duration) float64 {
	remaining := 1 - elapsed.Seconds()/matchDuration.Seconds()
	if remaining < 0 {
		remaining = 0
	}
	return 0.5 + remaining
}

// score computes the round delta for one submission. Deltas are never
// negative, so participant scores only grow.
func (s *scorer) score(
	ctx context.Context,
	question questions.Question,
	code string,
	elapsed time.Duration,
) int {
	accuracy := 1.0
	if s.grader == nil {
		logging.Warn("no grader configured, assuming full accuracy",
			zap.String("question_id", question.Id),
		)
	} else {
		ratio, err := s.grader.Evaluate(ctx, question, code)
		if err != nil {
			logging.Error("grader failed, assuming full accuracy",
				zap.String("question_id", question.Id),
				zap.Error(err),
			)
		} else {
			accuracy = math.Max(0, math.Min(1, ratio))
		}
	}

	delta := math.Round(float64(s.basePoints) *
		timeFactor(elapsed, s.matchDuration) *
		accuracy *
		difficultyMultiplier(question.Difficulty))
	if delta < 0 {
		return 0
	}
	return int(delta)
}
