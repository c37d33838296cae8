package terminal

import (
	"context"
	"time"

	"botpanel/internal/model"

	"github.com/google/uuid"
)

// Session owns the history of one terminal. It is not safe for concurrent use.
type Session struct {
	id        string
	startedAt time.Time
	interp    *Interpreter
	now       func() time.Time

	history []model.HistoryEntry
	nextSeq int
}

// NewSession opens a session backed by interp.
func NewSession(interp *Interpreter) *Session {
	return &Session{
		id:        uuid.NewString(),
		startedAt: time.Now(),
		interp:    interp,
		now:       time.Now,
		nextSeq:   1,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session was opened.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Submit executes line and records it. When the command asks for the history
// to be cleared, the history is emptied and ok is false.
func (s *Session) Submit(ctx context.Context, line string) (entry model.HistoryEntry, ok bool) {
	result := s.interp.execute(ctx, s, line)
	if _, isClear := result.(model.Clear); isClear {
		s.history = nil
		return model.HistoryEntry{}, false
	}

	entry = model.HistoryEntry{
		Sequence: s.nextSeq,
		Command:  line,
		Result:   result,
		At:       s.now(),
	}
	s.nextSeq++
	s.history = append(s.history, entry)
	return entry, true
}

// History returns a copy of the recorded entries, oldest first.
func (s *Session) History() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}
