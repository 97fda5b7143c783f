// Package services implements the use cases of the conversation core.
// Every write passes the membership gate before touching messages, reactions
// or typing state; read paths compose views and never mutate.
package services

import (
	"chat-core/domain"
	"time"
)

// Placeholder strings surfaced by read paths.
const (
	deletedMessagePreview = "This message was deleted"
	noMessagesPreview     = "No messages yet"
	dmFallbackTitle       = "Direct Message"
	groupFallbackTitle    = "Group"
	unknownSenderName     = "Unknown user"
)

// MessageView is a message as seen by a specific viewer.
type MessageView struct {
	ID         string                 `json:"id"`
	SenderID   string                 `json:"senderId"`
	SenderName string                 `json:"senderName"`
	Body       string                 `json:"body"`
	CreatedAt  time.Time              `json:"createdAt"`
	IsMine     bool                   `json:"isMine"`
	IsDeleted  bool                   `json:"isDeleted"`
	Reactions  []domain.ReactionCount `json:"reactions"`
}

// Participant is a member profile summary embedded in previews.
type Participant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// Preview is the feed row for one conversation from a viewer's perspective.
// PreviewOne fills the identity fields; ListMine additionally fills the
// last-message and unread fields.
type Preview struct {
	ID                 string                  `json:"id"`
	Type               domain.ConversationType `json:"type"`
	MemberCount        int                     `json:"memberCount"`
	Title              string                  `json:"title"`
	Counterpart        *Participant            `json:"counterpart,omitempty"`
	Participants       []Participant           `json:"participants"`
	LastMessagePreview string                  `json:"lastMessagePreview,omitempty"`
	LastMessageAt      time.Time               `json:"lastMessageAt,omitzero"`
	UnreadCount        int                     `json:"unreadCount"`
}

// ReadReceipt reports the outcome of read-marking. LastReadAt is nil when the
// call was a silent no-op.
type ReadReceipt struct {
	ConversationID string     `json:"conversationId"`
	LastReadAt     *time.Time `json:"lastReadAt"`
}

// ToggleResult reports whether a reaction toggle removed the triple.
type ToggleResult struct {
	Removed bool `json:"removed"`
}

// TypingUser is one active typist visible to a viewer.
type TypingUser struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}
