package server

import "errors"

// Wire-level messages reported back to the offending client only.
var (
	ErrStatusAlreadyQueued         string = "You are already in queue"
	ErrStatusMatchNotFound         string = "Match not found"
	ErrStatusNotAParticipant       string = "User not part of this match"
	ErrStatusInsufficientQuestions string = "Not enough questions available for this category"
	ErrStatusIdentityMismatch      string = "Player id does not match connection identity"
)

var (
	ErrAlreadyQueued  = errors.New("player already queued")
	ErrDuplicateMatch = errors.New("duplicate match id")
)
