package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies who produced a chat turn.
type Role string

// Turn roles.
const (
	// RoleUser marks a turn authored by the end user.
	RoleUser Role = "user"

	// RoleAssistant marks a turn authored by the assistant.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// MaxUserIDLength bounds user identifiers stored with chat turns.
const MaxUserIDLength = 50

// ChatTurn is one side of a conversational exchange stored in chat
// memory. Turns are created once per exchange, never mutated, and
// deleted only by explicit prune or clear operations.
type ChatTurn struct {
	// ID is the unique identifier for the turn.
	ID string

	// UserID scopes the turn to a single user. Memory searches never
	// cross this boundary.
	UserID string

	// SessionID groups turns belonging to one conversation.
	SessionID string

	// Role is who produced the turn.
	Role Role

	// Text is the turn content.
	Text string

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Timestamp orders turns within a session.
	Timestamp time.Time
}

// Validate checks turn fields against storage constraints.
func (t ChatTurn) Validate() error {
	if t.UserID == "" || len(t.UserID) > MaxUserIDLength {
		return fmt.Errorf("%w: user_id must be 1-%d characters", ErrInvalidInput, MaxUserIDLength)
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: turn text cannot be blank", ErrInvalidInput)
	}
	if !t.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, t.Role)
	}
	return nil
}

// PrunePolicy selects which chat turns a prune operation evicts.
// Zero values disable the corresponding criterion.
type PrunePolicy struct {
	// UserID limits pruning to one user. Empty prunes all users.
	UserID string

	// MaxTurns keeps only the most recent N turns per user.
	MaxTurns int

	// MaxAge evicts turns older than this duration.
	MaxAge time.Duration
}

// Enabled returns true if the policy would evict anything.
func (p PrunePolicy) Enabled() bool {
	return p.MaxTurns > 0 || p.MaxAge > 0
}

// MemoryStats summarises the chat memory store for operators.
type MemoryStats struct {
	// TotalTurns is the number of retrievable turns across all users.
	TotalTurns int

	// Users is the number of distinct user partitions.
	Users int

	// TurnsByUser maps user IDs to their retrievable turn counts.
	TurnsByUser map[string]int
}
