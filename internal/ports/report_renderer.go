package ports

import (
	"context"

	"github.com/bnema/toplap/internal/domain"
)

type ReportRenderer interface {
	Render(ctx context.Context, report domain.Report) (domain.Document, error)
}
