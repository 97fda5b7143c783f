package services

import (
	"chat-core/domain"
	"chat-core/repositories"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// fakeClock makes every service's notion of "now" deterministic.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// testEnv wires the full service stack over a throwaway Badger store.
type testEnv struct {
	clock       *fakeClock
	users       *repositories.UserRepository
	typingRepo  *repositories.TypingRepository
	identity    *IdentityService
	memberships *MembershipService
	directory   *DirectoryService
	reactions   *ReactionService
	messages    *MessageService
	typing      *TypingService
	feed        *FeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	clock := &fakeClock{current: time.Unix(100, 0).UTC()}

	users := repositories.NewUserRepository(db)
	convs := repositories.NewConversationRepository(db)
	members := repositories.NewMembershipRepository(db)
	messages := repositories.NewMessageRepository(db)
	reactions := repositories.NewReactionRepository(db)
	typing := repositories.NewTypingRepository(db)

	env := &testEnv{clock: clock, users: users, typingRepo: typing}
	env.identity = NewIdentityService(users, log)
	env.memberships = NewMembershipService(members, env.identity, log)
	env.directory = NewDirectoryService(users, convs, env.identity, log)
	env.reactions = NewReactionService(reactions, messages, env.memberships, env.identity, log)
	env.messages = NewMessageService(messages, users, env.reactions, env.memberships, env.identity, log)
	env.typing = NewTypingService(typing, users, env.memberships, env.identity, log)
	env.feed = NewFeedService(convs, members, messages, users, env.identity, log)

	env.identity.now = clock.Now
	env.memberships.now = clock.Now
	env.directory.now = clock.Now
	env.reactions.now = clock.Now
	env.messages.now = clock.Now
	env.typing.now = clock.Now
	env.feed.now = clock.Now

	return env
}

func anonymous() domain.Identity {
	return domain.Identity{}
}

// addUser seeds a profile and returns the identity that resolves to it.
func (e *testEnv) addUser(t *testing.T, id, name string) domain.Identity {
	t.Helper()
	now := e.clock.Now()
	require.NoError(t, e.users.Upsert(domain.User{
		ID:         id,
		ExternalID: "ext-" + id,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
		LastSeenAt: now,
	}))
	return domain.Identity{Subject: "ext-" + id, Name: name}
}

// dmBetween creates (or finds) the dm between two seeded users.
func (e *testEnv) dmBetween(t *testing.T, caller domain.Identity, otherUserID string) string {
	t.Helper()
	conversationID, err := e.directory.GetOrCreateDm(caller, otherUserID)
	require.NoError(t, err)
	return conversationID
}
