package domain

import "time"

type ConversationType string

const (
	ConversationDm    ConversationType = "dm"
	ConversationGroup ConversationType = "group"
)

// Conversation is a dm or group thread. The type is immutable after creation.
// UpdatedAt is bumped on every new message and drives feed ordering.
type Conversation struct {
	ID        string
	Type      ConversationType
	DmKey     string // canonical pair key, dm only
	Name      string // display name, group only
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BuildDmKey derives the canonical key deduplicating a dm: the two member ids
// sorted lexicographically and joined with "|". The tie-break rule must never
// change, otherwise stored keys stop matching freshly computed ones.
func BuildDmKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
