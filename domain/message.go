package domain

import "time"

// Message is an append-only chat entry. It is mutated at most once, by the
// soft delete, and never physically removed.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Body           string
	CreatedAt      time.Time
	DeletedAt      *time.Time // tombstone marker, body cleared when set
	DeletedBy      string
}

func (m Message) Deleted() bool {
	return m.DeletedAt != nil
}
