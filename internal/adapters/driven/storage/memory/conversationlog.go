package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

// Ensure ConversationLog implements the interface.
var _ driven.ConversationLog = (*ConversationLog)(nil)

// ConversationLog is an in-memory, append-only implementation of driven.ConversationLog.
type ConversationLog struct {
	mu    sync.RWMutex
	turns []domain.Turn
	now   func() time.Time
}

// NewConversationLog creates an empty conversation log.
func NewConversationLog() *ConversationLog {
	return &ConversationLog{now: time.Now}
}

// Append adds a copy of turn. Missing IDs and timestamps are filled in.
func (l *ConversationLog) Append(turn domain.Turn) {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = l.now()
	}
	turn.Payload = domain.ClonePayload(turn.Payload)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
}

// Turns returns all turns in insertion order.
func (l *ConversationLog) Turns() []domain.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Turn, len(l.turns))
	for i, t := range l.turns {
		t.Payload = domain.ClonePayload(t.Payload)
		out[i] = t
	}
	return out
}

// Len returns the number of turns.
func (l *ConversationLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// ProjectForCollaborator strips payloads from every turn.
func (l *ConversationLog) ProjectForCollaborator() []domain.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(l.turns))
	for i, t := range l.turns {
		out[i] = domain.HistoryEntry{Role: t.Role, Content: t.Content}
	}
	return out
}
