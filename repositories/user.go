//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	Upsert(user domain.User) error
	GetByID(userID string) (domain.User, error)
	GetByExternalID(externalID string) (domain.User, error)
	GetMany(userIDs []string) (map[string]domain.User, error)
	Search(query, excludeUserID string, limit int) ([]domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert writes the user record plus the externalID index in one transaction.
func (u *UserRepository) Upsert(user domain.User) error {
	return u.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, userKey(user.ID), user); err != nil {
			return err
		}
		return txn.Set(userExtKey(user.ExternalID), []byte(user.ID))
	})
}

func (u *UserRepository) GetByID(userID string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(userID), &user)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, fmt.Errorf("%w: user %s", errors.ErrNotFound, userID)
	}
	return user, err
}

func (u *UserRepository) GetByExternalID(externalID string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		userID, err := getRef(txn, userExtKey(externalID))
		if err != nil {
			return err
		}
		return getJSON(txn, userKey(string(userID)), &user)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, fmt.Errorf("%w: external id %s", errors.ErrNotFound, externalID)
	}
	return user, err
}

// GetMany resolves a batch of user ids in one snapshot. Unknown ids are
// simply absent from the result map.
func (u *UserRepository) GetMany(userIDs []string) (map[string]domain.User, error) {
	users := make(map[string]domain.User, len(userIDs))
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range userIDs {
			var user domain.User
			switch err := getJSON(txn, userKey(id), &user); err {
			case nil:
				users[id] = user
			case badger.ErrKeyNotFound:
			default:
				return err
			}
		}
		return nil
	})
	return users, err
}

// Search scans user records for a case-insensitive substring of the display
// name. An empty query matches everyone. The caller is excluded and the scan
// stops at limit.
func (u *UserRepository) Search(query, excludeUserID string, limit int) ([]domain.User, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if len(users) == limit {
				break
			}
			var user domain.User
			err := it.Item().Value(func(data []byte) error {
				return json.Unmarshal(data, &user)
			})
			if err != nil {
				return err
			}
			if user.ID == excludeUserID {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(user.Name), needle) {
				continue
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}
