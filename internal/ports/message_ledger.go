package ports

import (
	"context"

	"github.com/bnema/toplap/internal/domain"
)

type MessageLedger interface {
	Append(ctx context.Context, chatID domain.ChatID, handles ...domain.MessageHandle) error
	// Drain returns the chat's handles in send order and empties its ledger.
	Drain(ctx context.Context, chatID domain.ChatID) ([]domain.MessageHandle, error)
	Len(ctx context.Context, chatID domain.ChatID) (int, error)
}
