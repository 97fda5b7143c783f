package domain

import "time"

// AllowedReactions is the fixed reaction set, in the stable order used by
// every aggregate result.
var AllowedReactions = []string{"👍", "❤️", "😂", "😮", "😢"}

// AllowedReaction reports whether emoji belongs to the fixed set.
func AllowedReaction(emoji string) bool {
	for _, allowed := range AllowedReactions {
		if emoji == allowed {
			return true
		}
	}
	return false
}

// Reaction is a (message, user, emoji) toggle record. At most one such triple
// exists at a time.
type Reaction struct {
	MessageID string
	UserID    string
	Emoji     string
	CreatedAt time.Time
}

// ReactionCount is the per-emoji aggregate for one message. Aggregates always
// contain every allowed emoji, zero counts included, so their shape is constant.
type ReactionCount struct {
	Emoji       string `json:"emoji"`
	Count       int    `json:"count"`
	ReactedByMe bool   `json:"reactedByMe"`
}
