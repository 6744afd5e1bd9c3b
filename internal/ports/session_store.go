package ports

import (
	"context"

	"github.com/bnema/toplap/internal/domain"
)

type SessionStore interface {
	Get(ctx context.Context, chatID domain.ChatID) (domain.SessionState, error)
	Put(ctx context.Context, chatID domain.ChatID, state domain.SessionState) error
	Delete(ctx context.Context, chatID domain.ChatID) error
}
