package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_SetLastReadAt_Never_Moves_Backwards(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	conversations := NewConversationRepository(db)
	memberships := NewMembershipRepository(db)

	at := time.Now().UTC()
	conv := domain.Conversation{ID: "c-1", Type: domain.ConversationDm, DmKey: "a|b", CreatedAt: at, UpdatedAt: at}
	_, _, err := conversations.CreateDmIfAbsent(conv, []string{"u-a", "u-b"})
	req.NoError(err)

	later := at.Add(time.Hour)
	updated, err := memberships.SetLastReadAt("c-1", "u-a", later)
	req.NoError(err)
	req.Equal(later, updated.LastReadAt)

	// An earlier stamp leaves the cursor untouched.
	_, err = memberships.SetLastReadAt("c-1", "u-a", at)
	req.NoError(err)
	stored, err := memberships.Get("c-1", "u-a")
	req.NoError(err)
	req.Equal(later, stored.LastReadAt)
}

func Test_Get_Missing_Membership(t *testing.T) {
	req := require.New(t)
	memberships := NewMembershipRepository(openTestDB(t))

	_, err := memberships.Get("c-ghost", "u-ghost")
	req.ErrorIs(err, errors.ErrNotFound)

	_, err = memberships.SetLastReadAt("c-ghost", "u-ghost", time.Now())
	req.ErrorIs(err, errors.ErrNotFound)
}
