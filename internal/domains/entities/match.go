package entities

import "time"

// MatchResult is the terminal record of a duel. WinnerId and LoserId are
// empty for a draw.
type MatchResult struct {
	MatchId     string         `dynamodbav:"MatchId" json:"matchId"`
	Category    string         `dynamodbav:"Category" json:"category"`
	WinnerId    string         `dynamodbav:"WinnerId" json:"winnerId"`
	LoserId     string         `dynamodbav:"LoserId" json:"loserId"`
	FinalScores map[string]int `dynamodbav:"FinalScores" json:"finalScores"`
	IsDraw      bool           `dynamodbav:"IsDraw" json:"isDraw"`
	Reason      string         `dynamodbav:"Reason" json:"reason"`
	EndedAt     time.Time      `dynamodbav:"EndedAt" json:"endedAt"`
}
