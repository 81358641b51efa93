package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codeduel-io/codeduel/internal/domains/entities"
	"github.com/codeduel-io/codeduel/internal/questions"
	"github.com/codeduel-io/codeduel/pkg/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

type statCall struct {
	playerId string
	isWinner bool
}

type fakePublisher struct {
	mu         sync.Mutex
	results    []entities.MatchResult
	stats      []statCall
	persistErr error
}

func (f *fakePublisher) PersistMatchResult(_ context.Context, result entities.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
	return f.persistErr
}

func (f *fakePublisher) UpdatePlayerStats(_ context.Context, playerId string, isWinner bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = append(f.stats, statCall{playerId: playerId, isWinner: isWinner})
	return nil
}

func (f *fakePublisher) snapshot() ([]entities.MatchResult, []statCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]entities.MatchResult, len(f.results))
	copy(results, f.results)
	stats := make([]statCall, len(f.stats))
	copy(stats, f.stats)
	return results, stats
}

// codeGrader maps submitted code verbatim to a pass ratio, defaulting to
// full accuracy for unknown code.
type codeGrader struct {
	ratios map[string]float64
}

func (g codeGrader) Evaluate(_ context.Context, _ questions.Question, code string) (float64, error) {
	if ratio, ok := g.ratios[code]; ok {
		return ratio, nil
	}
	return 1.0, nil
}

func newTestServer(t *testing.T, cfg Config, bank questions.Bank, grader Grader, publisher ResultPublisher) (*server, *httptest.Server) {
	t.Helper()
	if bank == nil {
		bank = questions.NewDefaultBank(rand.NewSource(7))
	}
	srv := NewServer(cfg, bank, grader, publisher)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dialDuel(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/duel"
	c, res, err := websocket.DefaultDialer.Dial(u, header)
	require.NoError(t, err)
	res.Body.Close()
	t.Cleanup(func() { c.Close() })
	return c
}

func send(t *testing.T, c *websocket.Conn, eventType string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, c.WriteJSON(payload{Type: eventType, Data: raw}))
}

func expectEvent(t *testing.T, c *websocket.Conn, wantType string) json.RawMessage {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	var pl payload
	require.NoError(t, c.ReadJSON(&pl))
	require.Equal(t, wantType, pl.Type)
	return pl.Data
}

// expectNoEvent breaks the connection's read side on timeout; use it only
// as the last read on a connection.
func expectNoEvent(t *testing.T, c *websocket.Conn, wait time.Duration) {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(wait)))
	var pl payload
	err := c.ReadJSON(&pl)
	require.Error(t, err, "unexpected event %q", pl.Type)
}

func decodeEvent[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var data T
	require.NoError(t, json.Unmarshal(raw, &data))
	return data
}

// startDuel walks two clients through matchmaking and joining until the
// match is active, returning the shared matchId and the first question.
func startDuel(t *testing.T, ts *httptest.Server) (a, b *websocket.Conn, matchId string, first questions.Question) {
	t.Helper()
	a = dialDuel(t, ts, nil)
	b = dialDuel(t, ts, nil)

	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "alice"})
	status := decodeEvent[matchmakingStatusEvent](t, expectEvent(t, a, EventMatchmakingStatus))
	require.Equal(t, "searching", status.Status)

	send(t, b, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "bob"})
	expectEvent(t, b, EventMatchmakingStatus)

	foundA := decodeEvent[matchFoundEvent](t, expectEvent(t, a, EventMatchFound))
	foundB := decodeEvent[matchFoundEvent](t, expectEvent(t, b, EventMatchFound))
	require.Equal(t, foundA.MatchId, foundB.MatchId)
	require.Equal(t, "javascript", foundA.Category)
	require.ElementsMatch(t, []string{"alice", "bob"}, foundA.Participants)

	send(t, a, EventJoinMatch, joinMatchRequest{MatchId: foundA.MatchId, PlayerId: "alice"})
	send(t, b, EventJoinMatch, joinMatchRequest{MatchId: foundA.MatchId, PlayerId: "bob"})

	readyA := decodeEvent[matchReadyEvent](t, expectEvent(t, a, EventMatchReady))
	expectEvent(t, b, EventMatchReady)
	require.Len(t, readyA.Participants, 2)
	require.NotEmpty(t, readyA.Question.Id)

	return a, b, foundA.MatchId, readyA.Question
}

func TestFullDuelLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 2
	cfg.RetentionWindow = 500 * time.Millisecond
	grader := codeGrader{ratios: map[string]float64{
		"alice code": 1.0,
		"bob code":   0.4,
	}}
	publisher := &fakePublisher{}
	srv, ts := newTestServer(t, cfg, nil, grader, publisher)

	a, b, matchId, first := startDuel(t, ts)

	// Round 1: both submit, alice with the better pass ratio.
	send(t, a, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "alice", Code: "alice code", QuestionId: first.Id})
	send(t, b, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "bob", Code: "bob code", QuestionId: first.Id})

	evalA := decodeEvent[evaluationResultsEvent](t, expectEvent(t, a, EventEvaluationResults))
	expectEvent(t, b, EventEvaluationResults)
	require.Equal(t, first.Id, evalA.QuestionId)
	assert.Greater(t, evalA.Results["alice"], evalA.Results["bob"])
	assert.GreaterOrEqual(t, evalA.Results["bob"], 0)

	nextA := decodeEvent[nextQuestionEvent](t, expectEvent(t, a, EventNextQuestion))
	expectEvent(t, b, EventNextQuestion)
	require.NotEqual(t, first.Id, nextA.Question.Id)
	assert.Equal(t, evalA.Results["alice"], nextA.Scores["alice"])
	assert.Equal(t, evalA.Results["bob"], nextA.Scores["bob"])

	// Round 2 ends the match.
	send(t, a, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "alice", Code: "alice code", QuestionId: nextA.Question.Id})
	send(t, b, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "bob", Code: "bob code", QuestionId: nextA.Question.Id})

	expectEvent(t, a, EventEvaluationResults)
	expectEvent(t, b, EventEvaluationResults)

	endedA := decodeEvent[matchEndedEvent](t, expectEvent(t, a, EventMatchEnded))
	endedB := decodeEvent[matchEndedEvent](t, expectEvent(t, b, EventMatchEnded))
	assert.Equal(t, endedA, endedB)
	assert.Equal(t, ReasonCompleted, endedA.Reason)
	assert.False(t, endedA.IsDraw)
	assert.Equal(t, "alice", endedA.WinnerId)
	assert.Greater(t, endedA.FinalScores["alice"], endedA.FinalScores["bob"])

	// Winner and loser stats recorded, result persisted.
	assert.Eventually(t, func() bool {
		results, stats := publisher.snapshot()
		return len(results) == 1 && len(stats) == 2
	}, 2*time.Second, 10*time.Millisecond)
	results, stats := publisher.snapshot()
	assert.Equal(t, "alice", results[0].WinnerId)
	assert.Equal(t, "bob", results[0].LoserId)
	assert.Contains(t, stats, statCall{playerId: "alice", isWinner: true})
	assert.Contains(t, stats, statCall{playerId: "bob", isWinner: false})

	// Retained during the window, gone after it.
	_, ok := srv.store.get(matchId)
	assert.True(t, ok)
	assert.Eventually(t, func() bool {
		_, ok := srv.store.get(matchId)
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}

func TestDrawLeavesStatsUntouched(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 1
	publisher := &fakePublisher{}
	_, ts := newTestServer(t, cfg, nil, codeGrader{}, publisher)

	a, b, matchId, first := startDuel(t, ts)

	// Identical accuracy and a shared evaluation instant mean equal
	// deltas for both players.
	send(t, a, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "alice", Code: "same", QuestionId: first.Id})
	send(t, b, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "bob", Code: "same", QuestionId: first.Id})

	expectEvent(t, a, EventEvaluationResults)
	expectEvent(t, b, EventEvaluationResults)

	endedA := decodeEvent[matchEndedEvent](t, expectEvent(t, a, EventMatchEnded))
	assert.True(t, endedA.IsDraw)
	assert.Empty(t, endedA.WinnerId)
	assert.Equal(t, endedA.FinalScores["alice"], endedA.FinalScores["bob"])

	assert.Eventually(t, func() bool {
		results, _ := publisher.snapshot()
		return len(results) == 1
	}, 2*time.Second, 10*time.Millisecond)
	results, stats := publisher.snapshot()
	assert.True(t, results[0].IsDraw)
	assert.Empty(t, results[0].WinnerId)
	assert.Empty(t, stats, "draws must not mutate player stats")
}

func TestDisconnectForfeitsMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 1
	publisher := &fakePublisher{persistErr: errors.New("table unavailable")}
	_, ts := newTestServer(t, cfg, nil, nil, publisher)

	a, b, _, _ := startDuel(t, ts)

	require.NoError(t, b.Close())

	gone := decodeEvent[playerDisconnectedEvent](t, expectEvent(t, a, EventPlayerDisconnected))
	assert.Equal(t, "bob", gone.PlayerId)

	ended := decodeEvent[matchEndedEvent](t, expectEvent(t, a, EventMatchEnded))
	assert.Equal(t, ReasonOpponentLeft, ended.Reason)
	assert.Equal(t, "alice", ended.WinnerId)
	assert.False(t, ended.IsDraw)
	// The fixed disconnect bonus is applied exactly once.
	assert.Equal(t, cfg.DisconnectBonus, ended.FinalScores["alice"])
	assert.Equal(t, 0, ended.FinalScores["bob"])

	// Persistence failure never blocks termination, and stats are still
	// attempted.
	assert.Eventually(t, func() bool {
		_, stats := publisher.snapshot()
		return len(stats) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStaleSubmissionIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 1
	srv, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a, b, matchId, _ := startDuel(t, ts)

	send(t, a, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "alice", Code: "code", QuestionId: "bogus-question"})

	// A stale questionId never triggers round evaluation.
	expectNoEvent(t, b, 300*time.Millisecond)
	match, ok := srv.store.get(matchId)
	require.True(t, ok)
	assert.Equal(t, StatusActive, match.Status())
}

func TestRepeatJoinMatchIsIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 1
	srv, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a, b, matchId, _ := startDuel(t, ts)

	// A third joinMatch rebinds and resends state to the caller only.
	send(t, a, EventJoinMatch, joinMatchRequest{MatchId: matchId, PlayerId: "alice"})
	ready := decodeEvent[matchReadyEvent](t, expectEvent(t, a, EventMatchReady))
	assert.Equal(t, matchId, ready.MatchId)

	expectNoEvent(t, b, 300*time.Millisecond)
	match, ok := srv.store.get(matchId)
	require.True(t, ok)
	assert.Equal(t, StatusActive, match.Status())
}

func TestDeadlineForcesEvaluation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 1
	cfg.MatchDuration = 400 * time.Millisecond
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a, b, matchId, first := startDuel(t, ts)

	// Only alice submits; bob's missing submission scores 0 when the
	// deadline forces the round evaluation.
	send(t, a, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "alice", Code: "code", QuestionId: first.Id})

	evalA := decodeEvent[evaluationResultsEvent](t, expectEvent(t, a, EventEvaluationResults))
	expectEvent(t, b, EventEvaluationResults)
	assert.Greater(t, evalA.Results["alice"], 0)
	assert.Equal(t, 0, evalA.Results["bob"])

	ended := decodeEvent[matchEndedEvent](t, expectEvent(t, a, EventMatchEnded))
	assert.Equal(t, ReasonTimeExpired, ended.Reason)
	assert.Equal(t, "alice", ended.WinnerId)
}

func TestUpdateCodeRelaysToOpponentOnly(t *testing.T) {
	cfg := DefaultConfig()
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a, b, matchId, _ := startDuel(t, ts)

	send(t, a, EventUpdateCode, updateCodeRequest{MatchId: matchId, PlayerId: "alice", Code: "draft"})

	update := decodeEvent[codeUpdatedEvent](t, expectEvent(t, b, EventCodeUpdated))
	assert.Equal(t, "alice", update.PlayerId)
	assert.Equal(t, "draft", update.Code)

	expectNoEvent(t, a, 300*time.Millisecond)
}

func TestJoinMatchmakingTwiceRejected(t *testing.T) {
	cfg := DefaultConfig()
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a := dialDuel(t, ts, nil)
	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "alice"})
	expectEvent(t, a, EventMatchmakingStatus)

	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "alice"})
	mmErr := decodeEvent[matchmakingErrorEvent](t, expectEvent(t, a, EventMatchmakingError))
	assert.Equal(t, ErrStatusAlreadyQueued, mmErr.Message)
}

func TestCancelMatchmaking(t *testing.T) {
	cfg := DefaultConfig()
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a := dialDuel(t, ts, nil)
	b := dialDuel(t, ts, nil)

	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "alice"})
	expectEvent(t, a, EventMatchmakingStatus)

	send(t, a, EventCancelMatchmaking, cancelMatchmakingRequest{Category: "javascript", PlayerId: "alice"})
	status := decodeEvent[matchmakingStatusEvent](t, expectEvent(t, a, EventMatchmakingStatus))
	assert.Equal(t, "cancelled", status.Status)

	// With alice gone, bob finds no opponent.
	send(t, b, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "bob"})
	expectEvent(t, b, EventMatchmakingStatus)
	expectNoEvent(t, b, 300*time.Millisecond)
}

func TestJoinUnknownMatch(t *testing.T) {
	cfg := DefaultConfig()
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a := dialDuel(t, ts, nil)
	send(t, a, EventJoinMatch, joinMatchRequest{MatchId: "no-such-match", PlayerId: "alice"})

	mErr := decodeEvent[matchErrorEvent](t, expectEvent(t, a, EventMatchError))
	assert.Equal(t, ErrStatusMatchNotFound, mErr.Message)
}

func TestInsufficientQuestionsAbortsAndRequeues(t *testing.T) {
	cfg := DefaultConfig()
	bank := questions.NewInMemoryBank(map[string][]questions.Question{
		"scratch": {{Id: "sc-1", Difficulty: questions.Easy}},
	}, rand.NewSource(1))
	_, ts := newTestServer(t, cfg, bank, nil, &fakePublisher{})

	a := dialDuel(t, ts, nil)
	b := dialDuel(t, ts, nil)

	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "scratch", PlayerId: "alice"})
	expectEvent(t, a, EventMatchmakingStatus)
	send(t, b, EventJoinMatchmaking, joinMatchmakingRequest{Category: "scratch", PlayerId: "bob"})
	expectEvent(t, b, EventMatchmakingStatus)

	mmErrA := decodeEvent[matchmakingErrorEvent](t, expectEvent(t, a, EventMatchmakingError))
	assert.Equal(t, ErrStatusInsufficientQuestions, mmErrA.Message)
	expectEvent(t, b, EventMatchmakingError)

	// Both players were put back in the queue.
	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "scratch", PlayerId: "alice"})
	mmErrA = decodeEvent[matchmakingErrorEvent](t, expectEvent(t, a, EventMatchmakingError))
	assert.Equal(t, ErrStatusAlreadyQueued, mmErrA.Message)
}

func TestMatchCancelledWhenPlayersNeverJoin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JoinTimeout = 100 * time.Millisecond
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a := dialDuel(t, ts, nil)
	b := dialDuel(t, ts, nil)

	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "alice"})
	expectEvent(t, a, EventMatchmakingStatus)
	send(t, b, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "bob"})
	expectEvent(t, b, EventMatchmakingStatus)
	expectEvent(t, a, EventMatchFound)
	expectEvent(t, b, EventMatchFound)

	// Neither player joins the match.
	ended := decodeEvent[matchEndedEvent](t, expectEvent(t, a, EventMatchEnded))
	assert.Equal(t, ReasonNeverStarted, ended.Reason)
	assert.True(t, ended.IsDraw)
}

func TestAuthPinsConnectionIdentity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AuthSecret = "test-secret-1234"
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/duel"
	_, res, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res.Body.Close()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"})
	signed, err := token.SignedString([]byte(cfg.AuthSecret))
	require.NoError(t, err)

	header := http.Header{"Authorization": []string{"Bearer " + signed}}
	a := dialDuel(t, ts, header)

	// Payload playerId must match the token subject.
	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "mallory"})
	mmErr := decodeEvent[matchmakingErrorEvent](t, expectEvent(t, a, EventMatchmakingError))
	assert.Equal(t, ErrStatusIdentityMismatch, mmErr.Message)

	send(t, a, EventJoinMatchmaking, joinMatchmakingRequest{Category: "javascript", PlayerId: "alice"})
	status := decodeEvent[matchmakingStatusEvent](t, expectEvent(t, a, EventMatchmakingStatus))
	assert.Equal(t, "searching", status.Status)
}

func TestShutdownEndsLiveMatches(t *testing.T) {
	cfg := DefaultConfig()
	srv, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a, b, _, _ := startDuel(t, ts)
	_ = b

	srv.Shutdown()

	ended := decodeEvent[matchEndedEvent](t, expectEvent(t, a, EventMatchEnded))
	assert.Equal(t, ReasonServerShutdown, ended.Reason)
}

func TestRebindSurvivesStaleSocketDrop(t *testing.T) {
	cfg := DefaultConfig()
	srv, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a, b, matchId, _ := startDuel(t, ts)

	// Alice rebinds to a fresh socket mid-match.
	a2 := dialDuel(t, ts, nil)
	send(t, a2, EventJoinMatch, joinMatchRequest{MatchId: matchId, PlayerId: "alice"})
	expectEvent(t, a2, EventMatchReady)

	// The abandoned socket dropping must not forfeit the match.
	require.NoError(t, a.Close())
	expectNoEvent(t, b, 300*time.Millisecond)

	match, ok := srv.store.get(matchId)
	require.True(t, ok)
	assert.Equal(t, StatusActive, match.Status())
}

func TestEndedMatchReplaysResultDuringRetention(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 1
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a, b, matchId, first := startDuel(t, ts)

	send(t, a, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "alice", Code: "same", QuestionId: first.Id})
	send(t, b, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "bob", Code: "same", QuestionId: first.Id})
	expectEvent(t, a, EventEvaluationResults)
	expectEvent(t, b, EventEvaluationResults)
	expectEvent(t, a, EventMatchEnded)
	expectEvent(t, b, EventMatchEnded)

	// A participant reconnecting inside the retention window gets the
	// stored outcome replayed.
	late := dialDuel(t, ts, nil)
	send(t, late, EventJoinMatch, joinMatchRequest{MatchId: matchId, PlayerId: "alice"})
	ended := decodeEvent[matchEndedEvent](t, expectEvent(t, late, EventMatchEnded))
	assert.Equal(t, ReasonCompleted, ended.Reason)
	assert.True(t, ended.IsDraw)

	// A stranger asking for the same match is still rejected.
	stranger := dialDuel(t, ts, nil)
	send(t, stranger, EventJoinMatch, joinMatchRequest{MatchId: matchId, PlayerId: "mallory"})
	mErr := decodeEvent[matchErrorEvent](t, expectEvent(t, stranger, EventMatchError))
	assert.Equal(t, ErrStatusNotAParticipant, mErr.Message)
}

func TestConnectionsClosedAfterMatchEnds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 1
	_, ts := newTestServer(t, cfg, nil, nil, &fakePublisher{})

	a, b, matchId, first := startDuel(t, ts)

	send(t, a, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "alice", Code: "same", QuestionId: first.Id})
	send(t, b, EventSubmitCode, submitCodeRequest{MatchId: matchId, PlayerId: "bob", Code: "same", QuestionId: first.Id})
	expectEvent(t, a, EventEvaluationResults)
	expectEvent(t, a, EventMatchEnded)

	// The next read fails because the server closed the socket, not
	// because the deadline expired.
	require.NoError(t, a.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := a.ReadMessage()
	require.Error(t, err)
	if netErr, ok := err.(net.Error); ok {
		assert.False(t, netErr.Timeout())
	}
}
