package server

import (
	"context"
	"time"

	"github.com/codeduel-io/codeduel/internal/domains/entities"
	"github.com/codeduel-io/codeduel/pkg/logging"
	"go.uber.org/zap"
)

// Handler for when a match reaches its terminal state. Persists the
// outcome best-effort and schedules the retention-window cleanup.
func (s *server) handleEndMatch(match *Match, result entities.MatchResult) {
	s.publishResult(result)

	// Keep the finished match queryable for late reconnects, then delete
	// unconditionally.
	time.AfterFunc(s.config.RetentionWindow, func() {
		s.store.delete(match.id)
		logging.Info("match cleaned up", zap.String("match_id", match.id))
	})
}

func (s *server) publishResult(result entities.MatchResult) {
	if s.publisher == nil {
		logging.Warn("no result publisher configured, skipping persistence",
			zap.String("match_id", result.MatchId),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.publisher.PersistMatchResult(ctx, result); err != nil {
		logging.Error("failed to persist match result",
			zap.String("match_id", result.MatchId),
			zap.Error(err),
		)
	}
	if result.IsDraw {
		// Draws leave ratings and win/loss counters untouched.
		return
	}
	if err := s.publisher.UpdatePlayerStats(ctx, result.WinnerId, true); err != nil {
		logging.Error("failed to update winner stats",
			zap.String("player_id", result.WinnerId),
			zap.Error(err),
		)
	}
	if err := s.publisher.UpdatePlayerStats(ctx, result.LoserId, false); err != nil {
		logging.Error("failed to update loser stats",
			zap.String("player_id", result.LoserId),
			zap.Error(err),
		)
	}
}
