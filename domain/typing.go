package domain

import "time"

// TypingTTL is how long a typing assertion stays live. Typists re-assert
// their state before it elapses; readers filter on it.
const TypingTTL = 2 * time.Second

// TypingEvent is the single ephemeral typing row for a (conversation, user)
// pair. It is upserted on every state change and never explicitly deleted;
// it simply becomes stale once ExpiresAt is reached.
type TypingEvent struct {
	ID             string
	ConversationID string
	UserID         string
	ExpiresAt      time.Time
	UpdatedAt      time.Time
}

// Expired reports whether the event is stale at the given instant.
func (e TypingEvent) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
