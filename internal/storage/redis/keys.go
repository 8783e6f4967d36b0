package redis

import (
	"fmt"

	"github.com/mcoot/watchlist/internal/model"
)

// Key prefix for all watchlist data
const keyPrefix = "watchlist"

// accountKey returns the Redis key for an Account document
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> account_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, model.NormalizeEmail(email))
}
