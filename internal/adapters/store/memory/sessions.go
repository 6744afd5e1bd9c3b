package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

// SessionStore keeps conversation state in process memory. Sessions that
// sit untouched for longer than the TTL expire and read back as missing.
type SessionStore struct {
	cache *cache.Cache
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a store whose sessions expire after ttl. A ttl of
// zero or less keeps sessions until they are deleted.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &SessionStore{cache: cache.New(ttl, cleanupInterval)}
}

func (s *SessionStore) Get(ctx context.Context, chatID domain.ChatID) (domain.SessionState, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionState{}, err
	}

	value, found := s.cache.Get(sessionKey(chatID))
	if !found {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}

	state, ok := value.(domain.SessionState)
	if !ok {
		return domain.SessionState{}, domain.ErrInvalidSession
	}
	return state, nil
}

func (s *SessionStore) Put(ctx context.Context, chatID domain.ChatID, state domain.SessionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return err
	}

	s.cache.Set(sessionKey(chatID), state, cache.DefaultExpiration)
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, chatID domain.ChatID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cache.Delete(sessionKey(chatID))
	return nil
}

func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}

func sessionKey(chatID domain.ChatID) string {
	return strconv.FormatInt(int64(chatID), 10)
}
