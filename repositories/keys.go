package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key grammar. Segments are colon-separated; message keys embed a 19-digit
// zero-padded unix-nano timestamp so a prefix scan yields chronological order.
//
//	user:{userID}
//	userext:{externalID}              -> userID
//	conv:{conversationID}
//	dmkey:{canonicalKey}              -> conversationID
//	member:{conversationID}:{userID}
//	memberof:{userID}:{conversationID}
//	msg:{conversationID}:{%019d}:{messageID}
//	msgref:{messageID}                -> full message key
//	react:{messageID}:{emoji}:{userID}
//	typing:{conversationID}:{userID}
func userKey(userID string) []byte {
	return []byte("user:" + userID)
}

func userExtKey(externalID string) []byte {
	return []byte("userext:" + externalID)
}

func convKey(conversationID string) []byte {
	return []byte("conv:" + conversationID)
}

func dmKeyKey(canonicalKey string) []byte {
	return []byte("dmkey:" + canonicalKey)
}

func memberKey(conversationID, userID string) []byte {
	return []byte("member:" + conversationID + ":" + userID)
}

func memberOfKey(userID, conversationID string) []byte {
	return []byte("memberof:" + userID + ":" + conversationID)
}

func msgPrefix(conversationID string) []byte {
	return []byte("msg:" + conversationID + ":")
}

func msgKey(conversationID string, at time.Time, messageID string) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", conversationID, at.UnixNano(), messageID))
}

func msgRefKey(messageID string) []byte {
	return []byte("msgref:" + messageID)
}

func reactPrefix(messageID string) []byte {
	return []byte("react:" + messageID + ":")
}

func reactKey(messageID, emoji, userID string) []byte {
	return []byte("react:" + messageID + ":" + emoji + ":" + userID)
}

func typingPrefix(conversationID string) []byte {
	return []byte("typing:" + conversationID + ":")
}

func typingKey(conversationID, userID string) []byte {
	return []byte("typing:" + conversationID + ":" + userID)
}

// setJSON marshals v and stores it under key within the transaction.
func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}

// getJSON loads key and unmarshals it into v. badger.ErrKeyNotFound passes
// through untouched so callers can translate absence themselves.
func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(data []byte) error {
		return json.Unmarshal(data, v)
	})
}

// getRef loads a reference value (a raw key or id stored as plain bytes).
func getRef(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
