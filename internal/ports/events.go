package ports

import (
	"context"

	"github.com/bnema/toplap/internal/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type StatsReader interface {
	ReadStats(ctx context.Context) (domain.Document, error)
}
