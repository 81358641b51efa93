package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/codeduel-io/codeduel/internal/domains/entities"
	"github.com/codeduel-io/codeduel/internal/questions"
	"github.com/codeduel-io/codeduel/pkg/logging"
	"github.com/codeduel-io/codeduel/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ResultPublisher persists terminal match records and aggregate player
// stats. Failures are logged and never block match termination.
type ResultPublisher interface {
	PersistMatchResult(ctx context.Context, result entities.MatchResult) error
	UpdatePlayerStats(ctx context.Context, playerId string, isWinner bool) error
}

type server struct {
	address  string
	upgrader websocket.Upgrader

	config Config
	queue  *matchmakingQueue
	store  *sessionStore

	bank      questions.Bank
	grader    Grader
	publisher ResultPublisher
}

// NewServer wires the gateway with its collaborators. grader and
// publisher may be nil; both absences are logged when they matter.
func NewServer(cfg Config, bank questions.Bank, grader Grader, publisher ResultPublisher) *server {
	srv := &server{
		address: "0.0.0.0:" + cfg.Port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		config:    cfg,
		store:     newSessionStore(),
		bank:      bank,
		grader:    grader,
		publisher: publisher,
	}
	srv.queue = newMatchmakingQueue(srv.handlePairFound)
	return srv
}

func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/duel", s.handleConnection)
	return mux
}

// Start method    starts the duel server
func (s *server) Start() error {
	logging.Info("websocket server started", zap.String("port", s.config.Port))
	return http.ListenAndServe(s.address, s.Handler())
}

// Shutdown ends every live match so clients observe matchEnded before the
// process exits.
func (s *server) Shutdown() {
	s.store.rangeMatches(func(match *Match) bool {
		match.shutdown()
		return true
	})
	logging.Info("server shut down, live matches ended")
}

func (s *server) handleConnection(w http.ResponseWriter, r *http.Request) {
	pinnedId, err := s.auth(r)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(err.Error()))
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer ws.Close()

	c := newConn(ws)
	// At most one (playerId, matchId) binding per connection.
	var boundMatchId, boundPlayerId string

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			logging.Info("connection closed",
				zap.String("remote_address", ws.RemoteAddr().String()),
				zap.Error(err),
			)
			s.handleClientDisconnect(c, boundMatchId, boundPlayerId)
			break
		}

		var pl payload
		if err := json.Unmarshal(message, &pl); err != nil {
			logging.Info("malformed payload dropped", zap.String("connection_id", c.id))
			continue
		}

		switch pl.Type {
		case EventJoinMatchmaking:
			var req joinMatchmakingRequest
			if err := json.Unmarshal(pl.Data, &req); err != nil {
				continue
			}
			if pinnedId != "" && req.PlayerId != pinnedId {
				c.writeEvent(EventMatchmakingError, matchmakingErrorEvent{Message: ErrStatusIdentityMismatch})
				continue
			}
			s.handleJoinMatchmaking(c, req)
		case EventCancelMatchmaking:
			var req cancelMatchmakingRequest
			if err := json.Unmarshal(pl.Data, &req); err != nil {
				continue
			}
			if pinnedId != "" && req.PlayerId != pinnedId {
				c.writeEvent(EventMatchmakingError, matchmakingErrorEvent{Message: ErrStatusIdentityMismatch})
				continue
			}
			s.queue.remove(req.Category, req.PlayerId)
			c.writeEvent(EventMatchmakingStatus, matchmakingStatusEvent{Status: "cancelled"})
			s.queue.attemptPair(req.Category)
		case EventJoinMatch:
			var req joinMatchRequest
			if err := json.Unmarshal(pl.Data, &req); err != nil {
				continue
			}
			if pinnedId != "" && req.PlayerId != pinnedId {
				c.writeEvent(EventMatchError, matchErrorEvent{Message: ErrStatusIdentityMismatch})
				continue
			}
			match, ok := s.store.get(req.MatchId)
			if !ok {
				c.writeEvent(EventMatchError, matchErrorEvent{Message: ErrStatusMatchNotFound})
				continue
			}
			if !match.join(req.PlayerId, c) {
				// Match loop already exited; serve the retained outcome
				// directly instead of dropping the request.
				if _, isParticipant := match.participant(req.PlayerId); !isParticipant {
					c.writeEvent(EventMatchError, matchErrorEvent{Message: ErrStatusNotAParticipant})
					continue
				}
				if result, ended := match.FinalResult(); ended {
					c.writeEvent(EventMatchEnded, endedEvent(result))
				}
				continue
			}
			boundMatchId, boundPlayerId = req.MatchId, req.PlayerId
		case EventSubmitCode:
			var req submitCodeRequest
			if err := json.Unmarshal(pl.Data, &req); err != nil {
				continue
			}
			if pinnedId != "" && req.PlayerId != pinnedId {
				continue
			}
			match, ok := s.store.get(req.MatchId)
			if !ok {
				logging.Info("submission for unknown match dropped",
					zap.String("match_id", req.MatchId),
					zap.String("player_id", req.PlayerId),
				)
				continue
			}
			match.submit(req.PlayerId, req.QuestionId, req.Code)
		case EventUpdateCode:
			var req updateCodeRequest
			if err := json.Unmarshal(pl.Data, &req); err != nil {
				continue
			}
			if pinnedId != "" && req.PlayerId != pinnedId {
				continue
			}
			if match, ok := s.store.get(req.MatchId); ok {
				match.updateCode(req.PlayerId, req.Code)
			}
		default:
			logging.Info("invalid payload type", zap.String("type", pl.Type))
		}
	}
}

// auth method    authenticates the upgrade and extracts the playerId the
// connection is pinned to. Disabled when no secret is configured.
func (s *server) auth(r *http.Request) (string, error) {
	if s.config.AuthSecret == "" {
		return "", nil
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return "", fmt.Errorf("no authorization")
	}
	validToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.AuthSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !validToken.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := validToken.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid map claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("user id not found")
	}
	return sub, nil
}

func (s *server) handleJoinMatchmaking(c *conn, req joinMatchmakingRequest) {
	wp := &waitingPlayer{
		playerId: req.PlayerId,
		category: req.Category,
		conn:     c,
	}
	if err := s.queue.add(wp); err != nil {
		c.writeEvent(EventMatchmakingError, matchmakingErrorEvent{Message: ErrStatusAlreadyQueued})
		return
	}
	c.writeEvent(EventMatchmakingStatus, matchmakingStatusEvent{
		Status:   "searching",
		Category: req.Category,
	})
	s.queue.attemptPair(req.Category)
}

func (s *server) handleClientDisconnect(c *conn, boundMatchId, boundPlayerId string) {
	if wp, ok := s.queue.removeByConn(c.id); ok {
		logging.Info("player removed from matchmaking",
			zap.String("player_id", wp.playerId),
			zap.String("category", wp.category),
		)
		s.queue.attemptPair(wp.category)
	}
	if boundMatchId == "" {
		return
	}
	if match, ok := s.store.get(boundMatchId); ok {
		// The match checks the connection identity itself: a drop of a
		// socket the player already rebound away from must not forfeit.
		match.disconnect(boundPlayerId, c)
	}
}

// handlePairFound is the match factory invoked by the pairing engine with
// the two longest-waiting players of a category.
func (s *server) handlePairFound(category string, first, second *waitingPlayer) {
	questionSet, err := s.bank.GetQuestions(category, s.config.QuestionCount)
	if err != nil {
		// Abort the match and put both players back at the head of the
		// queue rather than silently truncating the question set.
		logging.Error("failed to build question set",
			zap.String("category", category),
			zap.Error(err),
		)
		s.queue.requeueFront(first, second)
		msg := matchmakingErrorEvent{Message: ErrStatusInsufficientQuestions}
		first.conn.writeEvent(EventMatchmakingError, msg)
		second.conn.writeEvent(EventMatchmakingError, msg)
		return
	}

	matchId := utils.GenerateUUID()
	match := s.newMatch(matchId, category, first, second, questionSet)
	if err := s.store.create(match); err != nil {
		// Must not happen with random 128-bit ids. Tear the new match
		// down instead of leaving two sessions under one id.
		logging.Error("duplicate match id, tearing down",
			zap.String("match_id", matchId),
		)
		match.shutdown()
		return
	}

	found := matchFoundEvent{
		MatchId:      matchId,
		Category:     category,
		Participants: []string{first.playerId, second.playerId},
	}
	first.conn.writeEvent(EventMatchFound, found)
	second.conn.writeEvent(EventMatchFound, found)
	logging.Info("match found",
		zap.String("match_id", matchId),
		zap.String("category", category),
		zap.String("player1_id", first.playerId),
		zap.String("player2_id", second.playerId),
	)
}

func (s *server) newMatch(
	matchId string,
	category string,
	first *waitingPlayer,
	second *waitingPlayer,
	questionSet []questions.Question,
) *Match {
	match := &Match{
		id:       matchId,
		category: category,
		participants: []*participant{
			newParticipant(first.playerId, first.conn),
			newParticipant(second.playerId, second.conn),
		},
		questions: questionSet,
		cmdCh:     make(chan command),
		done:      make(chan struct{}),
		config: MatchConfig{
			MatchDuration:   s.config.MatchDuration,
			JoinTimeout:     s.config.JoinTimeout,
			BasePoints:      s.config.BasePoints,
			DisconnectBonus: s.config.DisconnectBonus,
		},
		scorer: &scorer{
			basePoints:    s.config.BasePoints,
			matchDuration: s.config.MatchDuration,
			grader:        s.grader,
		},
		endMatchHandler: s.handleEndMatch,
	}
	// Cancel the match if players never join
	match.setTimer(match.config.JoinTimeout)
	go match.run()
	return match
}
