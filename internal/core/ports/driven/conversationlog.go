package driven

import "github.com/custodia-labs/reqbot-cli/internal/core/domain"

// ConversationLog is the append-only record of a session's turns.
type ConversationLog interface {
	// Append adds a turn to the end of the log. The stored turn is a copy.
	Append(turn domain.Turn)

	// Turns returns all turns in insertion order.
	Turns() []domain.Turn

	// Len returns the number of turns.
	Len() int

	// ProjectForCollaborator returns role and content of each turn,
	// without payloads, in order.
	ProjectForCollaborator() []domain.HistoryEntry
}
