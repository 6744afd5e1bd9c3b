package ports

import (
	"context"

	"github.com/bnema/toplap/internal/domain"
)

type KnownUsers interface {
	// Add reports whether the chat was newly registered.
	Add(ctx context.Context, chatID domain.ChatID) (bool, error)
	Count(ctx context.Context) (int, error)
}
