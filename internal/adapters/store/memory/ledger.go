package memory

import (
	"context"
	"sync"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
)

// DefaultLedgerCapacity bounds the handles kept per chat; the oldest are
// forgotten first.
const DefaultLedgerCapacity = 500

type Ledger struct {
	mu       sync.Mutex
	capacity int
	handles  map[domain.ChatID][]domain.MessageHandle
}

var _ ports.MessageLedger = (*Ledger)(nil)

func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultLedgerCapacity
	}

	return &Ledger{
		capacity: capacity,
		handles:  make(map[domain.ChatID][]domain.MessageHandle),
	}
}

func (l *Ledger) Append(ctx context.Context, chatID domain.ChatID, handles ...domain.MessageHandle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(handles) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	recorded := append(l.handles[chatID], handles...)
	if overflow := len(recorded) - l.capacity; overflow > 0 {
		recorded = append([]domain.MessageHandle(nil), recorded[overflow:]...)
	}
	l.handles[chatID] = recorded
	return nil
}

func (l *Ledger) Drain(ctx context.Context, chatID domain.ChatID) ([]domain.MessageHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	drained := l.handles[chatID]
	delete(l.handles, chatID)
	return drained, nil
}

func (l *Ledger) Len(ctx context.Context, chatID domain.ChatID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.handles[chatID]), nil
}
