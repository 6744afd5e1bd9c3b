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

// Executor sends a delivery plan through the messenger, in plan order.
type Executor struct {
	messenger   ports.Messenger
	renderer    ports.ReportRenderer
	logger      *zap.Logger
	callTimeout time.Duration
}

func NewExecutor(messenger ports.Messenger, renderer ports.ReportRenderer, logger *zap.Logger, callTimeout time.Duration) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Executor{
		messenger:   messenger,
		renderer:    renderer,
		logger:      logger.Named("executor"),
		callTimeout: callTimeout,
	}
}

// Execute keeps going after a failed step and returns the handles of every
// message that was sent together with the joined step errors.
func (e *Executor) Execute(ctx context.Context, plan domain.DeliveryPlan) ([]domain.MessageHandle, error) {
	handles := make([]domain.MessageHandle, 0, len(plan.Messages))
	var errs []error

	for i, message := range plan.Messages {
		sent, err := e.deliver(ctx, plan.ChatID, message)
		handles = append(handles, sent...)
		if err != nil {
			e.logger.Warn("delivery step failed",
				zap.String("plan_id", plan.ID),
				zap.Int64("chat_id", int64(plan.ChatID)),
				zap.Int("step", i),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}

	return handles, errors.Join(errs...)
}

func (e *Executor) deliver(ctx context.Context, chatID domain.ChatID, message domain.OutboundMessage) ([]domain.MessageHandle, error) {
	switch message.Kind {
	case domain.MessageText:
		return e.sendText(ctx, chatID, message.Text, message.Format, message.Keyboard)
	case domain.MessageAlbum:
		return e.sendAlbum(ctx, chatID, message)
	case domain.MessageReport:
		return e.sendReport(ctx, chatID, message)
	case domain.MessageDocument:
		if message.Document == nil {
			return nil, errors.New("document message without a document")
		}
		return e.sendDocument(ctx, chatID, *message.Document, message.Caption, message.Keyboard)
	default:
		return nil, fmt.Errorf("unknown message kind %d", message.Kind)
	}
}

func (e *Executor) sendText(ctx context.Context, chatID domain.ChatID, text string, format domain.TextFormat, keyboard domain.Keyboard) ([]domain.MessageHandle, error) {
	callCtx, cancel := withCallTimeout(ctx, e.callTimeout)
	defer cancel()

	handle, err := e.messenger.SendText(callCtx, chatID, text, format, keyboard)
	if err != nil {
		return nil, fmt.Errorf("send text: %w", err)
	}
	return []domain.MessageHandle{handle}, nil
}

func (e *Executor) sendAlbum(ctx context.Context, chatID domain.ChatID, message domain.OutboundMessage) ([]domain.MessageHandle, error) {
	callCtx, cancel := withCallTimeout(ctx, e.callTimeout)
	handles, err := e.messenger.SendAlbum(callCtx, chatID, message.Photos)
	cancel()
	if err == nil {
		return handles, nil
	}

	e.logger.Warn("image delivery failed, sending text card",
		zap.Int64("chat_id", int64(chatID)),
		zap.Int("photos", len(message.Photos)),
		zap.Error(err),
	)
	return e.sendText(ctx, chatID, message.Text, message.Format, message.Keyboard)
}

func (e *Executor) sendReport(ctx context.Context, chatID domain.ChatID, message domain.OutboundMessage) ([]domain.MessageHandle, error) {
	if message.Report == nil {
		return nil, errors.New("report message without a report")
	}

	document, err := e.render(ctx, *message.Report)
	if err != nil {
		e.logger.Error("report rendering failed",
			zap.Int64("chat_id", int64(chatID)),
			zap.Int("rows", len(message.Report.Rows)),
			zap.Error(err),
		)
		return e.sendText(ctx, chatID, message.FailureText, domain.FormatPlain, message.Keyboard)
	}

	return e.sendDocument(ctx, chatID, document, message.Caption, message.Keyboard)
}

func (e *Executor) render(ctx context.Context, report domain.Report) (domain.Document, error) {
	if e.renderer == nil {
		return domain.Document{}, errors.New("no report renderer configured")
	}
	if err := report.Validate(); err != nil {
		return domain.Document{}, err
	}

	callCtx, cancel := withCallTimeout(ctx, e.callTimeout)
	defer cancel()

	return e.renderer.Render(callCtx, report)
}

func (e *Executor) sendDocument(ctx context.Context, chatID domain.ChatID, document domain.Document, caption string, keyboard domain.Keyboard) ([]domain.MessageHandle, error) {
	callCtx, cancel := withCallTimeout(ctx, e.callTimeout)
	defer cancel()

	handle, err := e.messenger.SendDocument(callCtx, chatID, document, caption, keyboard)
	if err != nil {
		return nil, fmt.Errorf("send document: %w", err)
	}
	return []domain.MessageHandle{handle}, nil
}
