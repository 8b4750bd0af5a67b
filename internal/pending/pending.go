// Package pending holds transfers that were offered to the user but not
// yet confirmed, keyed by the message carrying the confirmation keyboard.
package pending

import (
	"errors"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrNotFound is returned by Take when no transfer is stored under the key,
// typically because it expired or was already consumed.
var ErrNotFound = errors.New("pending transfer not found")

// Key identifies the chat message a pending transfer is attached to.
type Key struct {
	ChatID    int64
	MessageID int
}

func (k Key) String() string {
	return strconv.FormatInt(k.ChatID, 10) + ":" + strconv.Itoa(k.MessageID)
}

// Transfer is a proposed movement between two accounts awaiting confirmation.
type Transfer struct {
	SrcGUID string
	DstGUID string
}

// Store keeps pending transfers in memory with an optional expiry.
type Store struct {
	cache *gocache.Cache
}

// NewStore builds a store. A zero ttl keeps entries until consumed.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	cleanup := ttl
	if cleanup == gocache.NoExpiration {
		cleanup = 0
	} else {
		cleanup *= 2
	}
	return &Store{cache: gocache.New(ttl, cleanup)}
}

// Begin records a pending transfer, replacing any previous one under the
// same key.
func (s *Store) Begin(key Key, tr Transfer) {
	s.cache.Set(key.String(), tr, gocache.DefaultExpiration)
}

// Take removes and returns the pending transfer for key.
func (s *Store) Take(key Key) (Transfer, error) {
	k := key.String()
	v, ok := s.cache.Get(k)
	if !ok {
		return Transfer{}, ErrNotFound
	}
	s.cache.Delete(k)
	tr, ok := v.(Transfer)
	if !ok {
		return Transfer{}, ErrNotFound
	}
	return tr, nil
}
