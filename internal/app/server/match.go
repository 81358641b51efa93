package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/codeduel-io/codeduel/internal/domains/entities"
	"github.com/codeduel-io/codeduel/internal/questions"
	"github.com/codeduel-io/codeduel/pkg/logging"
	"go.uber.org/zap"
)

type MatchStatus uint8

const (
	StatusWaiting MatchStatus = iota
	StatusActive
	StatusEnded
)

func (s MatchStatus) String() string {
	switch s {
	case StatusWaiting:
		return "WAITING"
	case StatusActive:
		return "ACTIVE"
	case StatusEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// Termination reasons reported to clients in matchEnded.
const (
	ReasonCompleted        = "All questions completed"
	ReasonTimeExpired      = "Time expired"
	ReasonOpponentLeft     = "Opponent disconnected"
	ReasonAllDisconnected  = "All players disconnected"
	ReasonNeverStarted     = "Players failed to join in time"
	ReasonServerShutdown   = "Server shutting down"
)

type commandKind uint8

const (
	cmdJoin commandKind = iota
	cmdSubmit
	cmdUpdateCode
	cmdDisconnect
	cmdDeadline
	cmdShutdown
)

type command struct {
	kind       commandKind
	playerId   string
	conn       *conn
	questionId string
	code       string
	gen        int
}

type MatchConfig struct {
	MatchDuration   time.Duration
	JoinTimeout     time.Duration
	BasePoints      int
	DisconnectBonus int
}

// Match is the per-duel state machine. All mutations flow through cmdCh
// and are applied by a single goroutine, so two near-simultaneous
// submissions or a submission racing a disconnect are never evaluated
// concurrently.
type Match struct {
	id           string
	category     string
	participants []*participant
	questions    []questions.Question

	currentQuestionIndex int
	startAt              time.Time

	cmdCh    chan command
	done     chan struct{}
	timer    *time.Timer
	timerGen int
	config   MatchConfig
	scorer   *scorer

	endMatchHandler func(*Match, entities.MatchResult)

	status      MatchStatus
	finalResult entities.MatchResult
	mu          sync.Mutex
}

func (m *Match) Id() string { return m.id }

func (m *Match) Status() MatchStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Match) setStatus(status MatchStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// dispatch delivers a command to the match's single-writer loop and
// reports whether it was accepted. After termination delivery fails and
// the command is dropped, which makes duplicate disconnect or deadline
// deliveries harmless.
func (m *Match) dispatch(cmd command) bool {
	select {
	case m.cmdCh <- cmd:
		return true
	case <-m.done:
		return false
	}
}

// join reports whether the command reached the match loop; false means
// the match already terminated and the caller must serve the stored
// outcome itself.
func (m *Match) join(playerId string, c *conn) bool {
	return m.dispatch(command{kind: cmdJoin, playerId: playerId, conn: c})
}

func (m *Match) submit(playerId, questionId, code string) {
	m.dispatch(command{kind: cmdSubmit, playerId: playerId, questionId: questionId, code: code})
}

func (m *Match) updateCode(playerId, code string) {
	m.dispatch(command{kind: cmdUpdateCode, playerId: playerId, code: code})
}

func (m *Match) disconnect(playerId string, c *conn) {
	m.dispatch(command{kind: cmdDisconnect, playerId: playerId, conn: c})
}

func (m *Match) shutdown() {
	m.dispatch(command{kind: cmdShutdown})
}

func (m *Match) run() {
	for {
		select {
		case cmd := <-m.cmdCh:
			m.handle(cmd)
		case <-m.done:
			return
		}
	}
}

func (m *Match) handle(cmd command) {
	switch cmd.kind {
	case cmdJoin:
		m.handleJoin(cmd.playerId, cmd.conn)
	case cmdSubmit:
		m.handleSubmit(cmd.playerId, cmd.questionId, cmd.code)
	case cmdUpdateCode:
		m.handleUpdateCode(cmd.playerId, cmd.code)
	case cmdDisconnect:
		m.handleDisconnect(cmd.playerId, cmd.conn)
	case cmdDeadline:
		// A deadline armed for a superseded timer is stale; only the
		// current generation acts.
		if cmd.gen == m.timerGen {
			m.handleDeadline()
		}
	case cmdShutdown:
		m.finish(ReasonServerShutdown)
	}
}

func (m *Match) handleJoin(playerId string, c *conn) {
	p, ok := m.participant(playerId)
	if !ok {
		c.writeEvent(EventMatchError, matchErrorEvent{Message: ErrStatusNotAParticipant})
		logging.Info("join rejected",
			zap.String("match_id", m.id),
			zap.String("player_id", playerId),
		)
		return
	}
	if m.Status() == StatusEnded {
		// Late rejoin during the retention window: replay the outcome
		// to this connection only.
		result, _ := m.FinalResult()
		c.writeEvent(EventMatchEnded, endedEvent(result))
		return
	}
	p.conn = c
	p.connected = true
	logging.Info("player joined match",
		zap.String("match_id", m.id),
		zap.String("player_id", playerId),
	)

	switch m.Status() {
	case StatusActive:
		// Rejoin after a rebind: resend current state to this connection
		// only, no second transition.
		c.writeEvent(EventMatchReady, m.matchReady())
	case StatusWaiting:
		if !m.allConnected() {
			return
		}
		m.setStatus(StatusActive)
		m.startAt = time.Now()
		m.setTimer(m.config.MatchDuration)
		m.broadcast(EventMatchReady, m.matchReady())
		logging.Info("match started",
			zap.String("match_id", m.id),
			zap.String("category", m.category),
		)
	}
}

func (m *Match) handleSubmit(playerId, questionId, code string) {
	if m.Status() != StatusActive {
		logging.Info("submission ignored: match not active",
			zap.String("match_id", m.id),
			zap.String("player_id", playerId),
		)
		return
	}
	p, ok := m.participant(playerId)
	if !ok {
		logging.Info("submission ignored: unknown player",
			zap.String("match_id", m.id),
			zap.String("player_id", playerId),
		)
		return
	}
	current := m.currentQuestion()
	if questionId != current.Id {
		logging.Info("stale submission dropped",
			zap.String("match_id", m.id),
			zap.String("player_id", playerId),
			zap.String("question_id", questionId),
			zap.String("current_question_id", current.Id),
		)
		return
	}
	p.recordSubmission(questionId, code)
	logging.Info("code submitted",
		zap.String("match_id", m.id),
		zap.String("player_id", playerId),
		zap.String("question_id", questionId),
	)

	for _, other := range m.participants {
		if _, submitted := other.submissionFor(current.Id); !submitted {
			return
		}
	}
	m.evaluateRound()
	m.advanceOrFinish()
}

func (m *Match) handleUpdateCode(playerId, code string) {
	p, ok := m.participant(playerId)
	if !ok {
		return
	}
	p.currentCode = code
	// Live sync to the opponent only. Last write wins, nothing persisted.
	m.broadcastExcept(p, EventCodeUpdated, codeUpdatedEvent{
		PlayerId: playerId,
		Code:     code,
	})
}

func (m *Match) handleDisconnect(playerId string, c *conn) {
	p, ok := m.participant(playerId)
	if !ok {
		return
	}
	if p.conn != c {
		// Drop of a superseded socket; the player rebound to a newer
		// connection and is still attached.
		logging.Info("stale socket drop ignored",
			zap.String("match_id", m.id),
			zap.String("player_id", playerId),
		)
		return
	}
	p.connected = false
	p.conn = nil
	logging.Info("player disconnected from match",
		zap.String("match_id", m.id),
		zap.String("player_id", playerId),
	)

	if m.Status() != StatusActive {
		// Still waiting for players; the join timeout cancels the match
		// if nobody comes back.
		return
	}

	m.broadcastExcept(p, EventPlayerDisconnected, playerDisconnectedEvent{PlayerId: playerId})

	remaining := m.connectedParticipants()
	switch len(remaining) {
	case 0:
		m.finish(ReasonAllDisconnected)
	case 1:
		// Immediate forfeiture: the remaining player takes the fixed
		// disconnect bonus and the match ends with them as winner.
		winner := remaining[0]
		winner.score += m.config.DisconnectBonus
		logging.Info("disconnect forfeiture",
			zap.String("match_id", m.id),
			zap.String("winner_id", winner.playerId),
			zap.Int("bonus", m.config.DisconnectBonus),
		)
		m.finish(ReasonOpponentLeft)
	}
}

func (m *Match) handleDeadline() {
	switch m.Status() {
	case StatusWaiting:
		logging.Info("match cancelled: players failed to join",
			zap.String("match_id", m.id),
		)
		m.finish(ReasonNeverStarted)
	case StatusActive:
		// Force-evaluate the current round with whatever submissions
		// exist; a missing submission scores 0.
		logging.Info("match deadline reached",
			zap.String("match_id", m.id),
			zap.Int("question_index", m.currentQuestionIndex),
		)
		m.evaluateRound()
		m.finish(ReasonTimeExpired)
	}
}

func (m *Match) evaluateRound() {
	current := m.currentQuestion()
	elapsed := time.Since(m.startAt)
	results := make(map[string]int, len(m.participants))
	for _, p := range m.participants {
		delta := 0
		if sub, ok := p.submissionFor(current.Id); ok {
			delta = m.scorer.score(context.Background(), current, sub.code, elapsed)
		}
		p.score += delta
		results[p.playerId] = delta
	}
	m.broadcast(EventEvaluationResults, evaluationResultsEvent{
		QuestionId: current.Id,
		Results:    results,
	})
	logging.Info("round evaluated",
		zap.String("match_id", m.id),
		zap.String("question_id", current.Id),
		zap.Any("deltas", results),
	)
}

func (m *Match) advanceOrFinish() {
	if m.currentQuestionIndex+1 < len(m.questions) {
		m.currentQuestionIndex++
		m.broadcast(EventNextQuestion, nextQuestionEvent{
			Question: m.currentQuestion(),
			Scores:   m.scores(),
		})
		return
	}
	m.finish(ReasonCompleted)
}

// finish runs termination exactly once: outcome, matchEnded to both
// players, close their sockets, then the end-of-match handler
// (persistence and cleanup scheduling). Runs on the command loop;
// closing done stops the loop and turns later dispatches into no-ops.
func (m *Match) finish(reason string) {
	if m.Status() == StatusEnded {
		return
	}
	m.stopTimer()

	result := m.result(reason)
	m.mu.Lock()
	m.status = StatusEnded
	m.finalResult = result
	m.mu.Unlock()

	m.broadcast(EventMatchEnded, endedEvent(result))
	close(m.done)
	for _, p := range m.participants {
		p.conn.close()
	}

	logging.Info("match ended",
		zap.String("match_id", m.id),
		zap.String("reason", reason),
		zap.String("winner_id", result.WinnerId),
		zap.Bool("is_draw", result.IsDraw),
	)

	if m.endMatchHandler != nil {
		m.endMatchHandler(m, result)
	}
}

// FinalResult returns the stored outcome of an ended match. The second
// return is false while the match is still live.
func (m *Match) FinalResult() (entities.MatchResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusEnded {
		return entities.MatchResult{}, false
	}
	return m.finalResult, true
}

func endedEvent(result entities.MatchResult) matchEndedEvent {
	return matchEndedEvent{
		Reason:      result.Reason,
		FinalScores: result.FinalScores,
		WinnerId:    result.WinnerId,
		IsDraw:      result.IsDraw,
	}
}

func (m *Match) result(reason string) entities.MatchResult {
	ordered := make([]*participant, len(m.participants))
	copy(ordered, m.participants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].score > ordered[j].score
	})

	result := entities.MatchResult{
		MatchId:     m.id,
		Category:    m.category,
		FinalScores: m.scores(),
		Reason:      reason,
		EndedAt:     time.Now(),
	}
	if len(ordered) < 2 || ordered[0].score == ordered[1].score {
		result.IsDraw = true
		return result
	}
	result.WinnerId = ordered[0].playerId
	result.LoserId = ordered[1].playerId
	return result
}

// setTimer arms the match deadline, superseding any previous arm. Expiry
// is routed through the mailbox tagged with the generation it was armed
// for, so an old timer firing while the new one is being armed cannot
// end the match.
func (m *Match) setTimer(d time.Duration) {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timerGen++
	gen := m.timerGen
	timer := time.NewTimer(d)
	m.timer = timer
	go func() {
		select {
		case <-timer.C:
			m.dispatch(command{kind: cmdDeadline, gen: gen})
		case <-m.done:
		}
	}()
	logging.Info("match timer armed",
		zap.String("match_id", m.id),
		zap.String("duration", d.String()),
		zap.Int("generation", gen),
	)
}

func (m *Match) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
	}
}

func (m *Match) participant(playerId string) (*participant, bool) {
	for _, p := range m.participants {
		if p.playerId == playerId {
			return p, true
		}
	}
	return nil, false
}

func (m *Match) allConnected() bool {
	for _, p := range m.participants {
		if !p.connected {
			return false
		}
	}
	return true
}

func (m *Match) connectedParticipants() []*participant {
	var connected []*participant
	for _, p := range m.participants {
		if p.connected {
			connected = append(connected, p)
		}
	}
	return connected
}

func (m *Match) currentQuestion() questions.Question {
	return m.questions[m.currentQuestionIndex]
}

func (m *Match) scores() map[string]int {
	scores := make(map[string]int, len(m.participants))
	for _, p := range m.participants {
		scores[p.playerId] = p.score
	}
	return scores
}

func (m *Match) roster() map[string]participantInfo {
	roster := make(map[string]participantInfo, len(m.participants))
	for _, p := range m.participants {
		roster[p.playerId] = p.info()
	}
	return roster
}

func (m *Match) matchReady() matchReadyEvent {
	return matchReadyEvent{
		MatchId:      m.id,
		Question:     m.currentQuestion(),
		Participants: m.roster(),
	}
}

func (m *Match) broadcast(eventType string, data any) {
	for _, p := range m.participants {
		if err := p.writeEvent(eventType, data); err != nil {
			logging.Error("couldn't notify player",
				zap.String("match_id", m.id),
				zap.String("player_id", p.playerId),
				zap.Error(err),
			)
		}
	}
}

func (m *Match) broadcastExcept(excluded *participant, eventType string, data any) {
	for _, p := range m.participants {
		if p == excluded {
			continue
		}
		if err := p.writeEvent(eventType, data); err != nil {
			logging.Error("couldn't notify player",
				zap.String("match_id", m.id),
				zap.String("player_id", p.playerId),
				zap.Error(err),
			)
		}
	}
}
