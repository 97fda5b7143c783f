package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Toggle_Is_A_Pure_Flip(t *testing.T) {
	req := require.New(t)
	reactions := NewReactionRepository(openTestDB(t))

	at := time.Now().UTC()
	removed, err := reactions.Toggle("m-1", "u-a", "👍", at)
	req.NoError(err)
	req.False(removed)

	stored, err := reactions.ListByMessage("m-1")
	req.NoError(err)
	req.Len(stored, 1)
	req.Equal("👍", stored[0].Emoji)

	removed, err = reactions.Toggle("m-1", "u-a", "👍", at)
	req.NoError(err)
	req.True(removed)

	stored, err = reactions.ListByMessage("m-1")
	req.NoError(err)
	req.Empty(stored)
}

func Test_Toggle_Keeps_Triples_Independent(t *testing.T) {
	req := require.New(t)
	reactions := NewReactionRepository(openTestDB(t))

	at := time.Now().UTC()
	_, err := reactions.Toggle("m-1", "u-a", "👍", at)
	req.NoError(err)
	_, err = reactions.Toggle("m-1", "u-b", "👍", at)
	req.NoError(err)
	_, err = reactions.Toggle("m-1", "u-a", "❤️", at)
	req.NoError(err)
	_, err = reactions.Toggle("m-2", "u-a", "👍", at)
	req.NoError(err)

	stored, err := reactions.ListByMessage("m-1")
	req.NoError(err)
	req.Len(stored, 3)
}
