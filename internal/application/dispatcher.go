package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"go.uber.org/zap"
)

// Dispatcher runs one inbound event end to end: state machine, optional
// history clear, delivery, then ledger bookkeeping.
type Dispatcher struct {
	conversation *Conversation
	executor     *Executor
	lifecycle    *Lifecycle
	messenger    ports.Messenger
	messages     Messages
	logger       *zap.Logger
	callTimeout  time.Duration
}

func NewDispatcher(conversation *Conversation, executor *Executor, lifecycle *Lifecycle, messenger ports.Messenger, messages Messages, logger *zap.Logger, callTimeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		conversation: conversation,
		executor:     executor,
		lifecycle:    lifecycle,
		messenger:    messenger,
		messages:     messages,
		logger:       logger.Named("dispatcher"),
		callTimeout:  callTimeout,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, in domain.Inbound) error {
	plan, err := d.conversation.Handle(ctx, in)
	if err != nil {
		d.logger.Error("handle inbound event",
			zap.Int64("chat_id", int64(in.ChatID)),
			zap.String("plan_id", plan.ID),
			zap.Error(err),
		)
		plan = d.failurePlan(plan)
	}

	d.acknowledge(ctx, plan.AckCallback)

	if plan.ClearHistory {
		result, err := d.lifecycle.Clear(ctx, plan.ChatID)
		if err != nil {
			d.logger.Error("clear chat history", zap.Int64("chat_id", int64(plan.ChatID)), zap.Error(err))
		} else {
			d.logger.Debug("chat history cleared",
				zap.Int64("chat_id", int64(plan.ChatID)),
				zap.Int("attempted", result.Attempted),
				zap.Int("deleted", result.Deleted),
			)
		}
	}

	handles, execErr := d.executor.Execute(ctx, plan)
	if err := d.lifecycle.Record(ctx, plan.ChatID, handles); err != nil {
		return fmt.Errorf("dispatch plan %s: %w", plan.ID, err)
	}
	if execErr != nil {
		return fmt.Errorf("dispatch plan %s: %w", plan.ID, execErr)
	}
	return nil
}

func (d *Dispatcher) RegisterCommands(ctx context.Context) error {
	callCtx, cancel := withCallTimeout(ctx, d.callTimeout)
	defer cancel()

	if err := d.messenger.SetCommands(callCtx, d.messages.Commands); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}

// failurePlan drops whatever was assembled before the error.
func (d *Dispatcher) failurePlan(plan domain.DeliveryPlan) domain.DeliveryPlan {
	return domain.DeliveryPlan{
		ID:          plan.ID,
		ChatID:      plan.ChatID,
		AckCallback: plan.AckCallback,
		Messages: []domain.OutboundMessage{{
			Kind:     domain.MessageText,
			Text:     d.messages.GenericFailure,
			Keyboard: d.messages.MainKeyboard(),
		}},
	}
}

func (d *Dispatcher) acknowledge(ctx context.Context, callbackID string) {
	if callbackID == "" {
		return
	}

	callCtx, cancel := withCallTimeout(ctx, d.callTimeout)
	defer cancel()

	if err := d.messenger.AnswerCallback(callCtx, callbackID); err != nil {
		d.logger.Debug("answer callback query", zap.String("callback_id", callbackID), zap.Error(err))
	}
}
