// Package domain contains core concepts of the conversation system.
// Entities here carry no storage or transport concerns.
package domain

import "time"

// DefaultUserName is used when the auth provider supplies no usable name.
const DefaultUserName = "User"

// User is the internal profile linked to an external identity.
// Upserted on sync, never deleted.
type User struct {
	ID         string
	ExternalID string
	Name       string
	ImageURL   string // optional, empty when unset
	Email      string // optional, empty when unset
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastSeenAt time.Time
}
