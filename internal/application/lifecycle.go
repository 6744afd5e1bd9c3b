package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"go.uber.org/zap"
)

// Lifecycle tracks bot-authored messages per chat so a chat can be wiped.
type Lifecycle struct {
	ledger      ports.MessageLedger
	deleter     ports.MessageDeleter
	logger      *zap.Logger
	callTimeout time.Duration
}

type ClearResult struct {
	Attempted int
	Deleted   int
	Failures  error
}

func NewLifecycle(ledger ports.MessageLedger, deleter ports.MessageDeleter, logger *zap.Logger, callTimeout time.Duration) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Lifecycle{
		ledger:      ledger,
		deleter:     deleter,
		logger:      logger.Named("lifecycle"),
		callTimeout: callTimeout,
	}
}

func (l *Lifecycle) Record(ctx context.Context, chatID domain.ChatID, handles []domain.MessageHandle) error {
	if len(handles) == 0 {
		return nil
	}
	if err := l.ledger.Append(ctx, chatID, handles...); err != nil {
		return fmt.Errorf("record sent messages: %w", err)
	}
	return nil
}

// Clear takes every recorded handle out of the ledger before deleting, so
// the ledger ends up empty even when some deletions fail.
func (l *Lifecycle) Clear(ctx context.Context, chatID domain.ChatID) (ClearResult, error) {
	handles, err := l.ledger.Drain(ctx, chatID)
	if err != nil {
		return ClearResult{}, fmt.Errorf("drain message ledger: %w", err)
	}

	result := ClearResult{Attempted: len(handles)}
	var failures []error
	for _, handle := range handles {
		if err := l.delete(ctx, handle); err != nil {
			failures = append(failures, fmt.Errorf("delete message %d: %w", handle.MessageID, err))
			continue
		}
		result.Deleted++
	}
	result.Failures = errors.Join(failures...)

	if result.Failures != nil {
		l.logger.Debug("some messages could not be deleted",
			zap.Int64("chat_id", int64(chatID)),
			zap.Int("attempted", result.Attempted),
			zap.Int("deleted", result.Deleted),
			zap.Error(result.Failures),
		)
	}

	return result, nil
}

func (l *Lifecycle) delete(ctx context.Context, handle domain.MessageHandle) error {
	callCtx, cancel := withCallTimeout(ctx, l.callTimeout)
	defer cancel()

	return l.deleter.DeleteMessage(callCtx, handle)
}
