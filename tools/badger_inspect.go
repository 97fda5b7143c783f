// Debug CLI dumping the store's keyspace as a table. Read-only; point it at
// a live data directory with -db and narrow the scan with -prefix.
package main

import (
	"chat-core/domain"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "/tmp/chat-core", "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan (empty scans everything)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Summary"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(value []byte) error {
				kind, summary := describe(key, value)
				table.Append([]string{key, kind, summary})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe renders one row per key family. Unknown families fall through with
// the raw value truncated.
func describe(key string, value []byte) (string, string) {
	family, _, _ := strings.Cut(key, ":")
	switch family {
	case "user":
		var user domain.User
		if err := json.Unmarshal(value, &user); err == nil {
			return "USER", fmt.Sprintf("%s <%s> seen %s", user.Name, user.Email, user.LastSeenAt.Format("15:04:05"))
		}
	case "userext", "msgref":
		return "REF", string(value)
	case "conv":
		var conv domain.Conversation
		if err := json.Unmarshal(value, &conv); err == nil {
			return strings.ToUpper(string(conv.Type)), fmt.Sprintf("%s updated %s", conv.Name, conv.UpdatedAt.Format("15:04:05"))
		}
	case "dmkey":
		return "DMKEY", string(value)
	case "member", "memberof":
		var membership domain.Membership
		if err := json.Unmarshal(value, &membership); err == nil {
			return "MEMBER", fmt.Sprintf("user %s read %s", membership.UserID, membership.LastReadAt.Format("15:04:05"))
		}
	case "msg":
		var message domain.Message
		if err := json.Unmarshal(value, &message); err == nil {
			body := message.Body
			if message.Deleted() {
				body = "(deleted)"
			}
			return "MSG", fmt.Sprintf("%s: %s", message.SenderID, excerpt(body, 48))
		}
	case "react":
		var reaction domain.Reaction
		if err := json.Unmarshal(value, &reaction); err == nil {
			return "REACT", fmt.Sprintf("%s by %s", reaction.Emoji, reaction.UserID)
		}
	case "typing":
		var event domain.TypingEvent
		if err := json.Unmarshal(value, &event); err == nil {
			return "TYPING", fmt.Sprintf("user %s until %s", event.UserID, event.ExpiresAt.Format("15:04:05"))
		}
	}
	return "?", excerpt(string(value), 64)
}

func excerpt(s string, max int) string {
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
