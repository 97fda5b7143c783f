//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type IConversationRepository interface {
	GetByID(conversationID string) (domain.Conversation, error)
	CreateDmIfAbsent(conv domain.Conversation, userIDs []string) (string, bool, error)
	CreateGroup(conv domain.Conversation, userIDs []string) error
}

type ConversationRepository struct {
	db *badger.DB
}

func NewConversationRepository(db *badger.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (c *ConversationRepository) GetByID(conversationID string) (domain.Conversation, error) {
	var conv domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, convKey(conversationID), &conv)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, fmt.Errorf("%w: conversation %s", errors.ErrNotFound, conversationID)
	}
	return conv, err
}

// CreateDmIfAbsent creates a dm conversation plus both memberships, unless a
// conversation already holds the canonical key. Lookup and insert share one
// serializable transaction, so two racing calls for the same pair cannot both
// insert: the dmkey read is tracked and the loser's commit fails with
// badger.ErrConflict instead of producing a duplicate.
//
// It returns the conversation id and whether this call created it.
func (c *ConversationRepository) CreateDmIfAbsent(conv domain.Conversation, userIDs []string) (string, bool, error) {
	conversationID := conv.ID
	created := false
	err := c.db.Update(func(txn *badger.Txn) error {
		existing, err := getRef(txn, dmKeyKey(conv.DmKey))
		switch err {
		case nil:
			conversationID = string(existing)
			created = false
			return nil
		case badger.ErrKeyNotFound:
		default:
			return err
		}

		if err := setJSON(txn, convKey(conv.ID), conv); err != nil {
			return err
		}
		if err := txn.Set(dmKeyKey(conv.DmKey), []byte(conv.ID)); err != nil {
			return err
		}
		created = true
		return writeMemberships(txn, conv, userIDs)
	})
	if err != nil {
		return "", false, err
	}
	return conversationID, created, nil
}

// CreateGroup writes the conversation and one membership per user, creator
// included, in a single transaction.
func (c *ConversationRepository) CreateGroup(conv domain.Conversation, userIDs []string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, convKey(conv.ID), conv); err != nil {
			return err
		}
		return writeMemberships(txn, conv, userIDs)
	})
}

// writeMemberships stores a membership row per user, stamped at the
// conversation's creation time, under both the forward and reverse index.
func writeMemberships(txn *badger.Txn, conv domain.Conversation, userIDs []string) error {
	for _, userID := range userIDs {
		membership := domain.Membership{
			ConversationID: conv.ID,
			UserID:         userID,
			JoinedAt:       conv.CreatedAt,
			LastReadAt:     conv.CreatedAt,
		}
		if err := setMembership(txn, membership); err != nil {
			return err
		}
	}
	return nil
}
