package services

import (
	"chat-core/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMembershipService_RequireMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u-alice", "Alice")
	env.addUser(t, "u-bob", "Bob")
	conversationID := env.dmBetween(t, alice, "u-bob")

	t.Run("should return the membership row for a member", func(t *testing.T) {
		req := require.New(t)
		membership, err := env.memberships.RequireMembership(conversationID, "u-alice")
		req.NoError(err)
		req.Equal(conversationID, membership.ConversationID)
		req.Equal("u-alice", membership.UserID)
	})

	t.Run("should answer forbidden for non-members and unknown conversations alike", func(t *testing.T) {
		req := require.New(t)
		_, err := env.memberships.RequireMembership(conversationID, "u-stranger")
		req.ErrorIs(err, errors.ErrForbidden)

		_, err = env.memberships.RequireMembership("c-ghost", "u-alice")
		req.ErrorIs(err, errors.ErrForbidden)
	})
}

func TestMembershipService_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u-alice", "Alice")
	env.addUser(t, "u-bob", "Bob")
	conversationID := env.dmBetween(t, alice, "u-bob")

	t.Run("should stamp the cursor with the current time", func(t *testing.T) {
		req := require.New(t)
		env.clock.Advance(time.Minute)
		receipt, err := env.memberships.MarkRead(alice, conversationID)
		req.NoError(err)
		req.Equal(conversationID, receipt.ConversationID)
		req.NotNil(receipt.LastReadAt)
		req.Equal(env.clock.Now(), *receipt.LastReadAt)
	})

	t.Run("should no-op silently for anonymous callers", func(t *testing.T) {
		req := require.New(t)
		receipt, err := env.memberships.MarkRead(anonymous(), conversationID)
		req.NoError(err)
		req.Nil(receipt.LastReadAt)
	})

	t.Run("should no-op silently for non-members", func(t *testing.T) {
		req := require.New(t)
		outsider := env.addUser(t, "u-eve", "Eve")
		receipt, err := env.memberships.MarkRead(outsider, conversationID)
		req.NoError(err)
		req.Nil(receipt.LastReadAt)
	})
}
