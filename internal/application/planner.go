package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"go.uber.org/zap"
)

const maxImagesPerEntry = 5

// Planner turns a shortlist into the outbound messages of a delivery plan.
type Planner struct {
	assets      ports.AssetLocator
	messages    Messages
	logger      *zap.Logger
	callTimeout time.Duration
}

func NewPlanner(assets ports.AssetLocator, messages Messages, logger *zap.Logger, callTimeout time.Duration) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Planner{
		assets:      assets,
		messages:    messages,
		logger:      logger.Named("planner"),
		callTimeout: callTimeout,
	}
}

func (p *Planner) Plan(ctx context.Context, plan *domain.DeliveryPlan, shortlist domain.Shortlist) {
	plan.Add(domain.OutboundMessage{
		Kind: domain.MessageText,
		Text: fmt.Sprintf(p.messages.ResultsHeader, shortlist.Total, len(shortlist.Results)),
	})

	for _, result := range shortlist.Results {
		card := p.messages.Card(result.Entry)
		images := p.images(ctx, result.Entry.ID)
		if len(images) == 0 {
			plan.Add(domain.OutboundMessage{Kind: domain.MessageText, Text: card, Format: domain.FormatHTML})
			continue
		}

		photos := make([]domain.Photo, 0, len(images))
		for i, path := range images {
			photo := domain.Photo{Path: path}
			if i == 0 {
				photo.Caption = card
				photo.Format = domain.FormatHTML
			}
			photos = append(photos, photo)
		}
		plan.Add(domain.OutboundMessage{
			Kind:   domain.MessageAlbum,
			Text:   card,
			Format: domain.FormatHTML,
			Photos: photos,
		})
	}

	report := domain.NewComparisonReport(shortlist)
	plan.Add(domain.OutboundMessage{
		Kind:        domain.MessageReport,
		Report:      &report,
		Caption:     p.messages.ReportCaption,
		Keyboard:    p.messages.MainKeyboard(),
		FailureText: p.messages.ReportFailed,
	})
}

func (p *Planner) images(ctx context.Context, entryID string) []string {
	if p.assets == nil {
		return nil
	}

	callCtx, cancel := withCallTimeout(ctx, p.callTimeout)
	defer cancel()

	images, err := p.assets.Images(callCtx, entryID)
	if err != nil {
		p.logger.Warn("image lookup failed", zap.String("entry_id", entryID), zap.Error(err))
		return nil
	}
	if len(images) > maxImagesPerEntry {
		images = images[:maxImagesPerEntry]
	}
	return images
}
