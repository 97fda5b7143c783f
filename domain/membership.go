package domain

import "time"

// Membership links a user to a conversation and carries that user's read
// cursor. Unique per (conversation, user); created at conversation creation,
// mutated only by read-marking. LastReadAt is monotonic non-decreasing.
type Membership struct {
	ConversationID string
	UserID         string
	JoinedAt       time.Time
	LastReadAt     time.Time
}
