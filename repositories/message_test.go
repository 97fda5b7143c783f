package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seedConversation(t *testing.T, conversations *ConversationRepository, id string, at time.Time) {
	t.Helper()
	conv := domain.Conversation{ID: id, Type: domain.ConversationDm, DmKey: "a|b-" + id, CreatedAt: at, UpdatedAt: at}
	_, _, err := conversations.CreateDmIfAbsent(conv, []string{"u-a", "u-b"})
	require.NoError(t, err)
}

func Test_Append_And_List_Chronological(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	conversations := NewConversationRepository(db)
	messages := NewMessageRepository(db)

	at := time.Now().UTC()
	seedConversation(t, conversations, "c-1", at)

	bodies := []string{"first", "second", "third"}
	for i, body := range bodies {
		message := domain.Message{
			ID: body, ConversationID: "c-1", SenderID: "u-a",
			Body: body, CreatedAt: at.Add(time.Duration(i) * time.Minute),
		}
		req.NoError(messages.Append(message))
	}

	listed, err := messages.ListByConversation("c-1")
	req.NoError(err)
	req.Len(listed, 3)
	for i, body := range bodies {
		req.Equal(body, listed[i].Body)
	}

	latest, err := messages.LatestInConversation("c-1")
	req.NoError(err)
	req.NotNil(latest)
	req.Equal("third", latest.Body)

	// Appending bumps the conversation to the message timestamp.
	conv, err := conversations.GetByID("c-1")
	req.NoError(err)
	req.Equal(at.Add(2*time.Minute), conv.UpdatedAt)
}

func Test_LatestInConversation_Empty(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	conversations := NewConversationRepository(db)
	messages := NewMessageRepository(db)
	seedConversation(t, conversations, "c-1", time.Now().UTC())

	latest, err := messages.LatestInConversation("c-1")
	req.NoError(err)
	req.Nil(latest)
}

func Test_MarkDeleted_Clears_Body(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	conversations := NewConversationRepository(db)
	messages := NewMessageRepository(db)

	at := time.Now().UTC()
	seedConversation(t, conversations, "c-1", at)
	req.NoError(messages.Append(domain.Message{
		ID: "m-1", ConversationID: "c-1", SenderID: "u-a", Body: "secret", CreatedAt: at,
	}))

	deletedAt := at.Add(time.Minute)
	req.NoError(messages.MarkDeleted("m-1", "u-a", deletedAt))

	stored, err := messages.GetByID("m-1")
	req.NoError(err)
	req.True(stored.Deleted())
	req.Empty(stored.Body)
	req.Equal("u-a", stored.DeletedBy)
	req.Equal(deletedAt, *stored.DeletedAt)

	// The tombstone keeps its position in the listing.
	listed, err := messages.ListByConversation("c-1")
	req.NoError(err)
	req.Len(listed, 1)
	req.True(listed[0].Deleted())

	req.ErrorIs(messages.MarkDeleted("m-ghost", "u-a", at), errors.ErrNotFound)
}

func Test_CountUnread(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	conversations := NewConversationRepository(db)
	messages := NewMessageRepository(db)

	at := time.Now().UTC()
	seedConversation(t, conversations, "c-1", at)

	req.NoError(messages.Append(domain.Message{ID: "m-1", ConversationID: "c-1", SenderID: "u-a", Body: "old", CreatedAt: at.Add(time.Second)}))
	req.NoError(messages.Append(domain.Message{ID: "m-2", ConversationID: "c-1", SenderID: "u-a", Body: "new", CreatedAt: at.Add(time.Minute)}))
	req.NoError(messages.Append(domain.Message{ID: "m-3", ConversationID: "c-1", SenderID: "u-b", Body: "mine", CreatedAt: at.Add(time.Minute)}))

	// Cursor after "old": one foreign message remains, own messages never count.
	count, err := messages.CountUnread("c-1", "u-b", at.Add(time.Second))
	req.NoError(err)
	req.Equal(1, count)

	count, err = messages.CountUnread("c-1", "u-b", at.Add(time.Hour))
	req.NoError(err)
	req.Equal(0, count)
}
