//go:generate go run go.uber.org/mock/mockgen -source=typing.go -destination=../mocks/mock_typing_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type ITypingRepository interface {
	Upsert(conversationID, userID string, expiresAt, updatedAt time.Time) (domain.TypingEvent, error)
	ListByConversation(conversationID string) ([]domain.TypingEvent, error)
	DeleteExpired(now time.Time) (int, error)
}

type TypingRepository struct {
	db *badger.DB
}

func NewTypingRepository(db *badger.DB) *TypingRepository {
	return &TypingRepository{db: db}
}

// Upsert patches the single row for (conversation, user), or inserts it with
// a fresh id. The row is never deleted on "stopped typing"; its expiry simply
// moves to now.
func (t *TypingRepository) Upsert(conversationID, userID string, expiresAt, updatedAt time.Time) (domain.TypingEvent, error) {
	var event domain.TypingEvent
	err := t.db.Update(func(txn *badger.Txn) error {
		key := typingKey(conversationID, userID)
		switch err := getJSON(txn, key, &event); err {
		case nil:
		case badger.ErrKeyNotFound:
			event = domain.TypingEvent{
				ID:             uuid.NewString(),
				ConversationID: conversationID,
				UserID:         userID,
			}
		default:
			return err
		}
		event.ExpiresAt = expiresAt
		event.UpdatedAt = updatedAt
		return setJSON(txn, key, event)
	})
	return event, err
}

func (t *TypingRepository) ListByConversation(conversationID string) ([]domain.TypingEvent, error) {
	var events []domain.TypingEvent
	prefix := typingPrefix(conversationID)
	err := t.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var event domain.TypingEvent
			err := it.Item().Value(func(data []byte) error {
				return json.Unmarshal(data, &event)
			})
			if err != nil {
				return err
			}
			events = append(events, event)
		}
		return nil
	})
	return events, err
}

// DeleteExpired drops rows whose expiry has passed. Storage hygiene only:
// read paths already filter on expiry, so observable behavior is unchanged
// whether or not this ever runs.
func (t *TypingRepository) DeleteExpired(now time.Time) (int, error) {
	deleted := 0
	err := t.db.Update(func(txn *badger.Txn) error {
		prefix := []byte("typing:")
		var stale [][]byte
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var event domain.TypingEvent
			err := it.Item().Value(func(data []byte) error {
				return json.Unmarshal(data, &event)
			})
			if err != nil {
				return err
			}
			if event.Expired(now) {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		deleted = len(stale)
		return nil
	})
	return deleted, err
}
