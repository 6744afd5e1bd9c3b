package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConversationDeps struct {
	Sessions    ports.SessionStore
	Users       ports.KnownUsers
	Catalog     ports.Catalog
	Planner     *Planner
	Events      ports.EventPublisher
	Stats       ports.StatsReader
	Clock       ports.Clock
	Messages    Messages
	Operator    domain.UserID
	Logger      *zap.Logger
	CallTimeout time.Duration
}

// Conversation is the per-chat state machine. It reads and writes session
// state and known users, and describes replies as a delivery plan without
// sending anything itself.
type Conversation struct {
	sessions    ports.SessionStore
	users       ports.KnownUsers
	catalog     ports.Catalog
	planner     *Planner
	events      ports.EventPublisher
	stats       ports.StatsReader
	clock       ports.Clock
	messages    Messages
	operator    domain.UserID
	logger      *zap.Logger
	callTimeout time.Duration
	newID       func() string
}

func NewConversation(deps ConversationDeps) *Conversation {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Planner == nil {
		deps.Planner = NewPlanner(nil, deps.Messages, deps.Logger, deps.CallTimeout)
	}

	return &Conversation{
		sessions:    deps.Sessions,
		users:       deps.Users,
		catalog:     deps.Catalog,
		planner:     deps.Planner,
		events:      deps.Events,
		stats:       deps.Stats,
		clock:       deps.Clock,
		messages:    deps.Messages,
		operator:    deps.Operator,
		logger:      deps.Logger.Named("conversation"),
		callTimeout: deps.CallTimeout,
		newID:       uuid.NewString,
	}
}

func (c *Conversation) Handle(ctx context.Context, in domain.Inbound) (domain.DeliveryPlan, error) {
	plan := domain.DeliveryPlan{
		ID:          c.newID(),
		ChatID:      in.ChatID,
		AckCallback: in.CallbackID,
	}

	var err error
	switch in.Kind {
	case domain.InboundCommand, domain.InboundCallback:
		err = c.handleSignal(ctx, &plan, in)
	default:
		err = c.handleText(ctx, &plan, in)
	}
	if err != nil {
		return plan, err
	}

	return plan, nil
}

func (c *Conversation) handleSignal(ctx context.Context, plan *domain.DeliveryPlan, in domain.Inbound) error {
	signal := strings.ToLower(strings.TrimSpace(in.Text))

	switch signal {
	case signalStart:
		return c.start(ctx, plan, in.ChatID)
	case signalAbout:
		c.reply(plan, c.messages.About)
		return nil
	case signalContact:
		c.reply(plan, c.messages.Contact)
		return nil
	case signalDonate:
		c.reply(plan, c.messages.Donate)
		return nil
	case signalClear:
		plan.ClearHistory = true
		c.reply(plan, c.messages.Cleared)
		return nil
	case signalUsersCount:
		return c.usersCount(ctx, plan, in.UserID)
	case signalStats:
		return c.statsReport(ctx, plan, in.UserID)
	}

	if purpose, ok := domain.LookupPurpose(in.Text); ok {
		return c.selectPurpose(ctx, plan, in.ChatID, purpose)
	}

	c.reply(plan, c.messages.UnknownCommand)
	return nil
}

func (c *Conversation) handleText(ctx context.Context, plan *domain.DeliveryPlan, in domain.Inbound) error {
	if purpose, ok := domain.LookupPurpose(in.Text); ok {
		return c.selectPurpose(ctx, plan, in.ChatID, purpose)
	}

	state, err := c.loadSession(ctx, in.ChatID)
	if err != nil {
		return err
	}
	if _, err := state.BudgetPurpose(); errors.Is(err, domain.ErrPurposeRequired) {
		c.reply(plan, c.messages.ChoosePurposeNext)
		return nil
	}

	budget, err := domain.ParseBudget(in.Text)
	if err != nil {
		c.reply(plan, c.messages.InvalidBudget)
		return nil
	}

	return c.recommend(ctx, plan, in.ChatID, state, budget)
}

func (c *Conversation) start(ctx context.Context, plan *domain.DeliveryPlan, chatID domain.ChatID) error {
	callCtx, cancel := withCallTimeout(ctx, c.callTimeout)
	err := c.sessions.Delete(callCtx, chatID)
	cancel()
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}

	c.register(ctx, chatID)

	plan.Add(domain.OutboundMessage{
		Kind:     domain.MessageText,
		Text:     c.messages.ChoosePurpose,
		Keyboard: c.messages.PurposeKeyboard(),
	})
	return nil
}

// register records the chat as a known user. Failures are logged and do not
// block the conversation.
func (c *Conversation) register(ctx context.Context, chatID domain.ChatID) {
	if c.users == nil {
		return
	}

	callCtx, cancel := withCallTimeout(ctx, c.callTimeout)
	added, err := c.users.Add(callCtx, chatID)
	cancel()
	if err != nil {
		c.logger.Error("register known user", zap.Int64("chat_id", int64(chatID)), zap.Error(err))
		return
	}
	if !added {
		return
	}

	c.publish(ctx, domain.Event{Type: domain.EventUserRegistered, ChatID: chatID})
}

func (c *Conversation) selectPurpose(ctx context.Context, plan *domain.DeliveryPlan, chatID domain.ChatID, purpose domain.Purpose) error {
	now := c.clock.Now()
	state := domain.NewSession(now).SelectPurpose(purpose, now)
	if err := c.saveSession(ctx, chatID, state); err != nil {
		return err
	}

	plan.Add(domain.OutboundMessage{Kind: domain.MessageText, Text: c.messages.AskBudget})
	return nil
}

func (c *Conversation) recommend(ctx context.Context, plan *domain.DeliveryPlan, chatID domain.ChatID, state domain.SessionState, budget domain.Budget) error {
	shortlist, err := Recommendations(c.catalog, state.Purpose, budget)
	if errors.Is(err, domain.ErrNoMatches) {
		c.reply(plan, c.messages.NoMatches)
		return nil
	}
	if err != nil {
		return err
	}

	// Phase stays AwaitingBudget so another budget can be tried right away.
	state.UpdatedAt = c.clock.Now()
	if err := c.saveSession(ctx, chatID, state); err != nil {
		return err
	}

	c.planner.Plan(ctx, plan, shortlist)

	c.publish(ctx, domain.Event{
		Type:   domain.EventRecommendationServed,
		ChatID: chatID,
		Payload: map[string]any{
			"purpose": state.Purpose.Tag(),
			"budget":  int64(budget),
			"total":   shortlist.Total,
		},
	})
	return nil
}

func (c *Conversation) usersCount(ctx context.Context, plan *domain.DeliveryPlan, userID domain.UserID) error {
	if err := c.authorize(userID); err != nil {
		c.refuse(plan, userID, signalUsersCount, err)
		return nil
	}
	if c.users == nil {
		return errors.New("known users store not configured")
	}

	callCtx, cancel := withCallTimeout(ctx, c.callTimeout)
	defer cancel()

	count, err := c.users.Count(callCtx)
	if err != nil {
		return fmt.Errorf("count known users: %w", err)
	}

	c.reply(plan, fmt.Sprintf(c.messages.UsersCount, count))
	return nil
}

func (c *Conversation) statsReport(ctx context.Context, plan *domain.DeliveryPlan, userID domain.UserID) error {
	if err := c.authorize(userID); err != nil {
		c.refuse(plan, userID, signalStats, err)
		return nil
	}
	if c.stats == nil {
		c.reply(plan, c.messages.StatsMissing)
		return nil
	}

	callCtx, cancel := withCallTimeout(ctx, c.callTimeout)
	defer cancel()

	document, err := c.stats.ReadStats(callCtx)
	if errors.Is(err, domain.ErrStatsNotFound) {
		c.reply(plan, c.messages.StatsMissing)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	plan.Add(domain.OutboundMessage{
		Kind:     domain.MessageDocument,
		Document: &document,
		Caption:  c.messages.StatsCaption,
	})
	return nil
}

// authorize returns ErrNotOperator unless userID is the configured operator.
// A zero operator id means nobody is.
func (c *Conversation) authorize(userID domain.UserID) error {
	if c.operator == 0 || userID != c.operator {
		return fmt.Errorf("%w: user %d", domain.ErrNotOperator, userID)
	}
	return nil
}

func (c *Conversation) refuse(plan *domain.DeliveryPlan, userID domain.UserID, command string, reason error) {
	c.logger.Info("operator command refused",
		zap.String("command", command),
		zap.Int64("user_id", int64(userID)),
		zap.Error(reason),
	)
	c.reply(plan, c.messages.OperatorOnly)
}

func (c *Conversation) loadSession(ctx context.Context, chatID domain.ChatID) (domain.SessionState, error) {
	callCtx, cancel := withCallTimeout(ctx, c.callTimeout)
	defer cancel()

	state, err := c.sessions.Get(callCtx, chatID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.NewSession(c.clock.Now()), nil
	}
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("load session: %w", err)
	}
	if err := state.Validate(); err != nil {
		c.logger.Warn("discarding invalid session", zap.Int64("chat_id", int64(chatID)), zap.Error(err))
		return domain.NewSession(c.clock.Now()), nil
	}

	return state, nil
}

func (c *Conversation) saveSession(ctx context.Context, chatID domain.ChatID, state domain.SessionState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	callCtx, cancel := withCallTimeout(ctx, c.callTimeout)
	defer cancel()

	if err := c.sessions.Put(callCtx, chatID, state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (c *Conversation) publish(ctx context.Context, event domain.Event) {
	if c.events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = c.clock.Now()
	}

	callCtx, cancel := withCallTimeout(ctx, c.callTimeout)
	defer cancel()

	if err := c.events.Publish(callCtx, event); err != nil {
		c.logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func (c *Conversation) reply(plan *domain.DeliveryPlan, text string) {
	plan.Add(domain.OutboundMessage{
		Kind:     domain.MessageText,
		Text:     text,
		Keyboard: c.messages.MainKeyboard(),
	})
}
