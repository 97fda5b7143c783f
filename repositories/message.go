//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	Append(message domain.Message) error
	GetByID(messageID string) (domain.Message, error)
	MarkDeleted(messageID, deletedBy string, at time.Time) error
	ListByConversation(conversationID string) ([]domain.Message, error)
	LatestInConversation(conversationID string) (*domain.Message, error)
	CountUnread(conversationID, viewerID string, after time.Time) (int, error)
}

type MessageRepository struct {
	db *badger.DB
}

func NewMessageRepository(db *badger.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append persists a message and bumps the owning conversation's UpdatedAt to
// the message timestamp in the same transaction. The key embeds a zero-padded
// unix-nano timestamp so prefix scans come back chronological; the message id
// disambiguates two messages landing on the same nanosecond.
func (m *MessageRepository) Append(message domain.Message) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		key := msgKey(message.ConversationID, message.CreatedAt, message.ID)
		if err := setJSON(txn, key, message); err != nil {
			return err
		}
		if err := txn.Set(msgRefKey(message.ID), key); err != nil {
			return err
		}
		return bumpConversation(txn, message.ConversationID, message.CreatedAt)
	})
	if err == badger.ErrKeyNotFound {
		return fmt.Errorf("%w: conversation %s", errors.ErrNotFound, message.ConversationID)
	}
	return err
}

func (m *MessageRepository) GetByID(messageID string) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		key, err := getRef(txn, msgRefKey(messageID))
		if err != nil {
			return err
		}
		return getJSON(txn, key, &message)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, fmt.Errorf("%w: message %s", errors.ErrNotFound, messageID)
	}
	return message, err
}

// MarkDeleted turns the message into a tombstone: body cleared, deletion
// metadata stamped, conversation bumped. Identity and key position survive.
func (m *MessageRepository) MarkDeleted(messageID, deletedBy string, at time.Time) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		key, err := getRef(txn, msgRefKey(messageID))
		if err != nil {
			return err
		}
		var message domain.Message
		if err := getJSON(txn, key, &message); err != nil {
			return err
		}
		message.Body = ""
		message.DeletedAt = &at
		message.DeletedBy = deletedBy
		if err := setJSON(txn, key, message); err != nil {
			return err
		}
		return bumpConversation(txn, message.ConversationID, at)
	})
	if err == badger.ErrKeyNotFound {
		return fmt.Errorf("%w: message %s", errors.ErrNotFound, messageID)
	}
	return err
}

// ListByConversation returns every message of the conversation in ascending
// createdAt order, straight off the key layout.
func (m *MessageRepository) ListByConversation(conversationID string) ([]domain.Message, error) {
	var messages []domain.Message
	prefix := msgPrefix(conversationID)
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var message domain.Message
			err := it.Item().Value(func(data []byte) error {
				return json.Unmarshal(data, &message)
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

// LatestInConversation returns the most recent message, or nil when the
// conversation has none. A reverse iterator seeks past the highest possible
// timestamp and the first key under the prefix is the newest.
func (m *MessageRepository) LatestInConversation(conversationID string) (*domain.Message, error) {
	var latest *domain.Message
	prefix := msgPrefix(conversationID)
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		it.Seek(seekKey)
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		var message domain.Message
		err := it.Item().Value(func(data []byte) error {
			return json.Unmarshal(data, &message)
		})
		if err != nil {
			return err
		}
		latest = &message
		return nil
	})
	return latest, err
}

// CountUnread counts messages authored by someone else after the viewer's
// read cursor. Derived from stored timestamps on every call, never cached.
func (m *MessageRepository) CountUnread(conversationID, viewerID string, after time.Time) (int, error) {
	count := 0
	prefix := msgPrefix(conversationID)
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var message domain.Message
			err := it.Item().Value(func(data []byte) error {
				return json.Unmarshal(data, &message)
			})
			if err != nil {
				return err
			}
			if message.SenderID != viewerID && message.CreatedAt.After(after) {
				count++
			}
		}
		return nil
	})
	return count, err
}

// bumpConversation advances the conversation's UpdatedAt inside an ongoing
// transaction. Feed ordering for conversations without messages falls back to
// this timestamp.
func bumpConversation(txn *badger.Txn, conversationID string, at time.Time) error {
	var conv domain.Conversation
	if err := getJSON(txn, convKey(conversationID), &conv); err != nil {
		return err
	}
	conv.UpdatedAt = at
	return setJSON(txn, convKey(conversationID), conv)
}
