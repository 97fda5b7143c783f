package services

import (
	"chat-core/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectoryService_GetOrCreateDm(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u-alice", "Alice")
	bob := env.addUser(t, "u-bob", "Bob")
	env.addUser(t, "u-clara", "Clara")

	t.Run("should return the same conversation from either side of the pair", func(t *testing.T) {
		req := require.New(t)
		first, err := env.directory.GetOrCreateDm(alice, "u-bob")
		req.NoError(err)
		req.NotEmpty(first)

		again, err := env.directory.GetOrCreateDm(alice, "u-bob")
		req.NoError(err)
		req.Equal(first, again)

		reversed, err := env.directory.GetOrCreateDm(bob, "u-alice")
		req.NoError(err)
		req.Equal(first, reversed)
	})

	t.Run("should keep distinct pairs apart", func(t *testing.T) {
		req := require.New(t)
		withBob, err := env.directory.GetOrCreateDm(alice, "u-bob")
		req.NoError(err)
		withClara, err := env.directory.GetOrCreateDm(alice, "u-clara")
		req.NoError(err)
		req.NotEqual(withBob, withClara)
	})

	t.Run("should reject a self dm", func(t *testing.T) {
		req := require.New(t)
		_, err := env.directory.GetOrCreateDm(alice, "u-alice")
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should reject an unknown counterpart", func(t *testing.T) {
		req := require.New(t)
		_, err := env.directory.GetOrCreateDm(alice, "u-ghost")
		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("should reject an anonymous caller", func(t *testing.T) {
		req := require.New(t)
		_, err := env.directory.GetOrCreateDm(anonymous(), "u-bob")
		req.ErrorIs(err, errors.ErrUnauthorized)
	})
}

func TestDirectoryService_CreateGroup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u-alice", "Alice")
	env.addUser(t, "u-bob", "Bob")
	env.addUser(t, "u-clara", "Clara")

	t.Run("should create a group with creator plus two others", func(t *testing.T) {
		req := require.New(t)
		conversationID, err := env.directory.CreateGroup(alice, "  weekend plans  ", []string{"u-bob", "u-clara"})
		req.NoError(err)

		preview, err := env.feed.PreviewOne(alice, conversationID)
		req.NoError(err)
		req.NotNil(preview)
		req.Equal("weekend plans", preview.Title)
		req.Equal(3, preview.MemberCount)
	})

	t.Run("should reject a too short name", func(t *testing.T) {
		req := require.New(t)
		_, err := env.directory.CreateGroup(alice, "  x ", []string{"u-bob", "u-clara"})
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should reject when caller and duplicates leave fewer than two others", func(t *testing.T) {
		req := require.New(t)
		_, err := env.directory.CreateGroup(alice, "plans", []string{"u-alice", "u-bob", "u-bob"})
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should reject when any member does not exist", func(t *testing.T) {
		req := require.New(t)
		_, err := env.directory.CreateGroup(alice, "plans", []string{"u-bob", "u-ghost"})
		req.ErrorIs(err, errors.ErrNotFound)
	})
}
