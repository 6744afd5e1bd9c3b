package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bnema/toplap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handles(ids ...int64) []domain.MessageHandle {
	result := make([]domain.MessageHandle, 0, len(ids))
	for _, id := range ids {
		result = append(result, domain.MessageHandle{ChatID: testChat, MessageID: id})
	}
	return result
}

func TestLifecycleClearDeletesInSendOrder(t *testing.T) {
	t.Parallel()

	ledger := &memoryLedger{}
	messenger := &fakeMessenger{}
	lifecycle := NewLifecycle(ledger, messenger, nil, 0)
	ctx := context.Background()

	require.NoError(t, lifecycle.Record(ctx, testChat, handles(1, 2)))
	require.NoError(t, lifecycle.Record(ctx, testChat, handles(3)))

	result, err := lifecycle.Clear(ctx, testChat)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 3, result.Deleted)
	assert.NoError(t, result.Failures)
	assert.Equal(t, []int64{1, 2, 3}, messenger.deleted)

	size, err := ledger.Len(ctx, testChat)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestLifecycleClearEmptiesLedgerWhenDeletesFail(t *testing.T) {
	t.Parallel()

	ledger := &memoryLedger{}
	messenger := &fakeMessenger{deleteErr: map[int64]error{2: errors.New("message too old")}}
	lifecycle := NewLifecycle(ledger, messenger, nil, 0)
	ctx := context.Background()

	require.NoError(t, lifecycle.Record(ctx, testChat, handles(1, 2, 3)))

	result, err := lifecycle.Clear(ctx, testChat)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Deleted)
	require.Error(t, result.Failures)
	assert.Contains(t, result.Failures.Error(), "message too old")
	assert.Equal(t, []int64{1, 3}, messenger.deleted)

	size, err := ledger.Len(ctx, testChat)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestLifecycleClearTwiceIsNoop(t *testing.T) {
	t.Parallel()

	ledger := &memoryLedger{}
	messenger := &fakeMessenger{}
	lifecycle := NewLifecycle(ledger, messenger, nil, 0)
	ctx := context.Background()

	require.NoError(t, lifecycle.Record(ctx, testChat, handles(1)))
	_, err := lifecycle.Clear(ctx, testChat)
	require.NoError(t, err)

	result, err := lifecycle.Clear(ctx, testChat)
	require.NoError(t, err)
	assert.Zero(t, result.Attempted)
	assert.Equal(t, []int64{1}, messenger.deleted)
}

func TestLifecycleRecordIgnoresEmptyHandles(t *testing.T) {
	t.Parallel()

	ledger := &memoryLedger{err: errors.New("should not be called")}
	lifecycle := NewLifecycle(ledger, &fakeMessenger{}, nil, 0)

	assert.NoError(t, lifecycle.Record(context.Background(), testChat, nil))
}

type memoryLedger struct {
	mu      sync.Mutex
	handles map[domain.ChatID][]domain.MessageHandle
	err     error
}

func (l *memoryLedger) Append(_ context.Context, chatID domain.ChatID, handles ...domain.MessageHandle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	if l.handles == nil {
		l.handles = map[domain.ChatID][]domain.MessageHandle{}
	}
	l.handles[chatID] = append(l.handles[chatID], handles...)
	return nil
}

func (l *memoryLedger) Drain(_ context.Context, chatID domain.ChatID) ([]domain.MessageHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	drained := l.handles[chatID]
	delete(l.handles, chatID)
	return drained, nil
}

func (l *memoryLedger) Len(_ context.Context, chatID domain.ChatID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handles[chatID]), nil
}
