package server

import "sync"

// sessionStore is the unit of truth for live matches, keyed by matchId.
type sessionStore struct {
	mu      sync.Mutex
	matches map[string]*Match
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		matches: make(map[string]*Match),
	}
}

func (s *sessionStore) create(match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.matches[match.id]; exists {
		return ErrDuplicateMatch
	}
	s.matches[match.id] = match
	return nil
}

// get returns (nil, false) for unknown ids. Callers treat absence as
// "match not found or already ended", never as fatal.
func (s *sessionStore) get(matchId string) (*Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match, ok := s.matches[matchId]
	return match, ok
}

func (s *sessionStore) delete(matchId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, matchId)
}

func (s *sessionStore) rangeMatches(fn func(match *Match) bool) {
	s.mu.Lock()
	matches := make([]*Match, 0, len(s.matches))
	for _, match := range s.matches {
		matches = append(matches, match)
	}
	s.mu.Unlock()
	for _, match := range matches {
		if !fn(match) {
			return
		}
	}
}
