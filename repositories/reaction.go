//go:generate go run go.uber.org/mock/mockgen -source=reaction.go -destination=../mocks/mock_reaction_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IReactionRepository interface {
	Toggle(messageID, userID, emoji string, at time.Time) (bool, error)
	ListByMessage(messageID string) ([]domain.Reaction, error)
}

type ReactionRepository struct {
	db *badger.DB
}

func NewReactionRepository(db *badger.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Toggle flips the (message, user, emoji) triple in one transaction: an
// existing row is deleted (removed=true), an absent one is inserted
// (removed=false). At most one row per triple can ever exist.
func (r *ReactionRepository) Toggle(messageID, userID, emoji string, at time.Time) (bool, error) {
	removed := false
	err := r.db.Update(func(txn *badger.Txn) error {
		key := reactKey(messageID, emoji, userID)
		_, err := txn.Get(key)
		switch err {
		case nil:
			removed = true
			return txn.Delete(key)
		case badger.ErrKeyNotFound:
			removed = false
			return setJSON(txn, key, domain.Reaction{
				MessageID: messageID,
				UserID:    userID,
				Emoji:     emoji,
				CreatedAt: at,
			})
		default:
			return err
		}
	})
	return removed, err
}

func (r *ReactionRepository) ListByMessage(messageID string) ([]domain.Reaction, error) {
	var reactions []domain.Reaction
	prefix := reactPrefix(messageID)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var reaction domain.Reaction
			err := it.Item().Value(func(data []byte) error {
				return json.Unmarshal(data, &reaction)
			})
			if err != nil {
				return err
			}
			reactions = append(reactions, reaction)
		}
		return nil
	})
	return reactions, err
}
