package server

import "time"

type submission struct {
	questionId  string
	code        string
	submittedAt time.Time
}

// participant state is owned by its match's command loop; only conn writes
// are safe from other goroutines.
type participant struct {
	playerId    string
	conn        *conn
	connected   bool
	score       int
	submissions []submission
	currentCode string
}

func newParticipant(playerId string, c *conn) *participant {
	return &participant{
		playerId: playerId,
		conn:     c,
	}
}

// recordSubmission counts at most one submission per question: a repeat
// for the same questionId overwrites the previous one.
func (p *participant) recordSubmission(questionId, code string) {
	p.currentCode = code
	for i := range p.submissions {
		if p.submissions[i].questionId == questionId {
			p.submissions[i].code = code
			p.submissions[i].submittedAt = time.Now()
			return
		}
	}
	p.submissions = append(p.submissions, submission{
		questionId:  questionId,
		code:        code,
		submittedAt: time.Now(),
	})
}

func (p *participant) submissionFor(questionId string) (submission, bool) {
	for _, sub := range p.submissions {
		if sub.questionId == questionId {
			return sub, true
		}
	}
	return submission{}, false
}

func (p *participant) info() participantInfo {
	return participantInfo{
		PlayerId:  p.playerId,
		Connected: p.connected,
		Score:     p.score,
	}
}

func (p *participant) writeEvent(eventType string, data any) error {
	return p.conn.writeEvent(eventType, data)
}
