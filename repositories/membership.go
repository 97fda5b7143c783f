//go:generate go run go.uber.org/mock/mockgen -source=membership.go -destination=../mocks/mock_membership_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IMembershipRepository interface {
	Get(conversationID, userID string) (domain.Membership, error)
	ListByConversation(conversationID string) ([]domain.Membership, error)
	ListByUser(userID string) ([]domain.Membership, error)
	SetLastReadAt(conversationID, userID string, at time.Time) (domain.Membership, error)
}

type MembershipRepository struct {
	db *badger.DB
}

func NewMembershipRepository(db *badger.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (m *MembershipRepository) Get(conversationID, userID string) (domain.Membership, error) {
	var membership domain.Membership
	err := m.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, memberKey(conversationID, userID), &membership)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Membership{}, fmt.Errorf("%w: no membership for user %s in conversation %s",
			errors.ErrNotFound, userID, conversationID)
	}
	return membership, err
}

func (m *MembershipRepository) ListByConversation(conversationID string) ([]domain.Membership, error) {
	return m.scan([]byte("member:" + conversationID + ":"))
}

func (m *MembershipRepository) ListByUser(userID string) ([]domain.Membership, error) {
	return m.scan([]byte("memberof:" + userID + ":"))
}

func (m *MembershipRepository) scan(prefix []byte) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var membership domain.Membership
			err := it.Item().Value(func(data []byte) error {
				return json.Unmarshal(data, &membership)
			})
			if err != nil {
				return err
			}
			memberships = append(memberships, membership)
		}
		return nil
	})
	return memberships, err
}

// SetLastReadAt advances the read cursor. The cursor never moves backwards:
// an earlier timestamp leaves the stored value untouched.
func (m *MembershipRepository) SetLastReadAt(conversationID, userID string, at time.Time) (domain.Membership, error) {
	var membership domain.Membership
	err := m.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, memberKey(conversationID, userID), &membership); err != nil {
			return err
		}
		if at.Before(membership.LastReadAt) {
			return nil
		}
		membership.LastReadAt = at
		return setMembership(txn, membership)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Membership{}, fmt.Errorf("%w: no membership for user %s in conversation %s",
			errors.ErrNotFound, userID, conversationID)
	}
	return membership, err
}

// setMembership keeps the forward and reverse index entries in sync.
func setMembership(txn *badger.Txn, membership domain.Membership) error {
	if err := setJSON(txn, memberKey(membership.ConversationID, membership.UserID), membership); err != nil {
		return err
	}
	return setJSON(txn, memberOfKey(membership.UserID, membership.ConversationID), membership)
}
