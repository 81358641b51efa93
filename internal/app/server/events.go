package server

import (
	"encoding/json"

	"github.com/codeduel-io/codeduel/internal/questions"
)

// Client -> server event types.
const (
	EventJoinMatchmaking   = "joinMatchmaking"
	EventCancelMatchmaking = "cancelMatchmaking"
	EventJoinMatch         = "joinMatch"
	EventSubmitCode        = "submitCode"
	EventUpdateCode        = "updateCode"
)

// Server -> client event types.
const (
	EventMatchmakingStatus  = "matchmakingStatus"
	EventMatchmakingError   = "matchmakingError"
	EventMatchFound         = "matchFound"
	EventMatchReady         = "matchReady"
	EventNextQuestion       = "nextQuestion"
	EventEvaluationResults  = "evaluationResults"
	EventCodeUpdated        = "codeUpdated"
	EventPlayerDisconnected = "playerDisconnected"
	EventMatchEnded         = "matchEnded"
	EventMatchError         = "matchError"
)

type payload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type joinMatchmakingRequest struct {
	Category string `json:"category"`
	PlayerId string `json:"playerId"`
}

type cancelMatchmakingRequest struct {
	Category string `json:"category"`
	PlayerId string `json:"playerId"`
}

type joinMatchRequest struct {
	MatchId  string `json:"matchId"`
	PlayerId string `json:"playerId"`
}

type submitCodeRequest struct {
	MatchId    string `json:"matchId"`
	PlayerId   string `json:"playerId"`
	Code       string `json:"code"`
	QuestionId string `json:"questionId"`
}

type updateCodeRequest struct {
	MatchId  string `json:"matchId"`
	PlayerId string `json:"playerId"`
	Code     string `json:"code"`
}

type matchmakingStatusEvent struct {
	Status   string `json:"status"`
	Category string `json:"category,omitempty"`
}

type matchmakingErrorEvent struct {
	Message string `json:"message"`
}

type participantInfo struct {
	PlayerId  string `json:"playerId"`
	Connected bool   `json:"connected"`
	Score     int    `json:"score"`
}

type matchFoundEvent struct {
	MatchId      string   `json:"matchId"`
	Category     string   `json:"category"`
	Participants []string `json:"participants"`
}

type matchReadyEvent struct {
	MatchId      string                     `json:"matchId"`
	Question     questions.Question         `json:"question"`
	Participants map[string]participantInfo `json:"participants"`
}

type nextQuestionEvent struct {
	Question questions.Question `json:"question"`
	Scores   map[string]int     `json:"scores"`
}

type evaluationResultsEvent struct {
	QuestionId string         `json:"questionId"`
	Results    map[string]int `json:"results"`
}

type codeUpdatedEvent struct {
	PlayerId string `json:"playerId"`
	Code     string `json:"code"`
}

type playerDisconnectedEvent struct {
	PlayerId string `json:"playerId"`
}

type matchEndedEvent struct {
	Reason      string         `json:"reason"`
	FinalScores map[string]int `json:"finalScores"`
	WinnerId    string         `json:"winnerId"`
	IsDraw      bool           `json:"isDraw"`
}

type matchErrorEvent struct {
	Message string `json:"message"`
}
