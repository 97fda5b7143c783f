package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTypingService_SetTyping(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u-alice", "Alice")
	bob := env.addUser(t, "u-bob", "Bob")
	intruder := env.addUser(t, "u-eve", "Eve")
	conversationID := env.dmBetween(t, alice, "u-bob")

	t.Run("should make the typist visible to other members", func(t *testing.T) {
		req := require.New(t)
		eventID, err := env.typing.SetTyping(alice, conversationID, true)
		req.NoError(err)
		req.NotNil(eventID)

		typists, err := env.typing.ListActive(bob, conversationID)
		req.NoError(err)
		req.Len(typists, 1)
		req.Equal("u-alice", typists[0].UserID)
		req.Equal("Alice", typists[0].Name)
	})

	t.Run("should never show the viewer their own typing", func(t *testing.T) {
		req := require.New(t)
		typists, err := env.typing.ListActive(alice, conversationID)
		req.NoError(err)
		req.Empty(typists)
	})

	t.Run("should expire after the ttl elapses", func(t *testing.T) {
		req := require.New(t)
		env.clock.Advance(domain.TypingTTL + time.Millisecond)
		typists, err := env.typing.ListActive(bob, conversationID)
		req.NoError(err)
		req.Empty(typists)
	})

	t.Run("should go stale immediately on stop", func(t *testing.T) {
		req := require.New(t)
		_, err := env.typing.SetTyping(alice, conversationID, true)
		req.NoError(err)
		_, err = env.typing.SetTyping(alice, conversationID, false)
		req.NoError(err)

		typists, err := env.typing.ListActive(bob, conversationID)
		req.NoError(err)
		req.Empty(typists)
	})

	t.Run("should reuse one row per member and conversation", func(t *testing.T) {
		req := require.New(t)
		first, err := env.typing.SetTyping(alice, conversationID, true)
		req.NoError(err)
		second, err := env.typing.SetTyping(alice, conversationID, true)
		req.NoError(err)
		req.Equal(*first, *second)
	})

	t.Run("should forbid non-members", func(t *testing.T) {
		req := require.New(t)
		_, err := env.typing.SetTyping(intruder, conversationID, true)
		req.ErrorIs(err, errors.ErrForbidden)
	})

	t.Run("should silently ignore an anonymous caller", func(t *testing.T) {
		req := require.New(t)
		eventID, err := env.typing.SetTyping(anonymous(), conversationID, true)
		req.NoError(err)
		req.Nil(eventID)
	})
}

func TestTypingService_ListActive(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u-alice", "Alice")
	bob := env.addUser(t, "u-bob", "Bob")
	intruder := env.addUser(t, "u-eve", "Eve")
	conversationID := env.dmBetween(t, alice, "u-bob")

	_, err := env.typing.SetTyping(alice, conversationID, true)
	require.NoError(t, err)

	t.Run("should degrade to empty for non-members", func(t *testing.T) {
		req := require.New(t)
		typists, err := env.typing.ListActive(intruder, conversationID)
		req.NoError(err)
		req.Empty(typists)
	})

	t.Run("should degrade to empty for anonymous callers", func(t *testing.T) {
		req := require.New(t)
		typists, err := env.typing.ListActive(anonymous(), conversationID)
		req.NoError(err)
		req.Empty(typists)
	})

	t.Run("should carry the row's expiry timestamp", func(t *testing.T) {
		req := require.New(t)
		typists, err := env.typing.ListActive(bob, conversationID)
		req.NoError(err)
		req.Len(typists, 1)
		req.Equal(env.clock.Now().Add(domain.TypingTTL), typists[0].ExpiresAt)
	})
}
