package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"go.uber.org/zap"
)

// Store uses the primary known-users backend and mirrors every registration
// into the fallback, which answers while the primary is unreachable.
type Store struct {
	primary  ports.KnownUsers
	fallback ports.KnownUsers
	logger   *zap.Logger
}

var _ ports.KnownUsers = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary known users store is nil")
	errNilFallbackStore = errors.New("fallback known users store is nil")
	errNotListable      = errors.New("fallback known users store cannot list members")
)

type lister interface {
	List(ctx context.Context) ([]domain.ChatID, error)
}

type bulkAdder interface {
	AddMany(ctx context.Context, chatIDs []domain.ChatID) (int, error)
}

func NewStore(primary ports.KnownUsers, fallback ports.KnownUsers, logger *zap.Logger) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{primary: primary, fallback: fallback, logger: logger.Named("known_users")}, nil
}

// Add reports the primary's answer when it is reachable, the fallback's
// otherwise. A failed mirror write is logged and does not fail the call.
func (s *Store) Add(ctx context.Context, chatID domain.ChatID) (bool, error) {
	added, err := s.primary.Add(ctx, chatID)
	if err == nil {
		if _, mirrorErr := s.fallback.Add(ctx, chatID); mirrorErr != nil {
			s.logger.Warn("mirror known user to fallback",
				zap.Int64("chat_id", int64(chatID)),
				zap.Error(mirrorErr),
			)
		}
		return added, nil
	}
	if shouldSkipFallback(err) {
		return false, err
	}

	fallbackAdded, fallbackErr := s.fallback.Add(ctx, chatID)
	if fallbackErr == nil {
		return fallbackAdded, nil
	}

	return false, fmt.Errorf("primary backend add failed: %w; fallback backend add failed: %w", err, fallbackErr)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.primary.Count(ctx)
	if err == nil {
		return count, nil
	}
	if shouldSkipFallback(err) {
		return 0, err
	}

	fallbackCount, fallbackErr := s.fallback.Count(ctx)
	if fallbackErr == nil {
		return fallbackCount, nil
	}

	return 0, fmt.Errorf("primary backend count failed: %w; fallback backend count failed: %w", err, fallbackErr)
}

// Backfill copies every chat the fallback knows into the primary and returns
// how many were new to it. It heals registrations made during an outage and
// chats imported straight into the fallback.
func (s *Store) Backfill(ctx context.Context) (int, error) {
	source, ok := s.fallback.(lister)
	if !ok {
		return 0, errNotListable
	}

	ids, err := source.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list fallback known users: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if bulk, ok := s.primary.(bulkAdder); ok {
		added, err := bulk.AddMany(ctx, ids)
		if err != nil {
			return 0, fmt.Errorf("backfill primary known users: %w", err)
		}
		return added, nil
	}

	added := 0
	for _, id := range ids {
		isNew, err := s.primary.Add(ctx, id)
		if err != nil {
			return added, fmt.Errorf("backfill primary known users: %w", err)
		}
		if isNew {
			added++
		}
	}
	return added, nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
