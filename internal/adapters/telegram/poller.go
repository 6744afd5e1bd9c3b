package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	workerQueueSize       = 16
	defaultMaxConcurrency = 4
	defaultJobTimeout     = 2 * time.Minute
	defaultIdleTimeout    = 5 * time.Minute
)

type Handler interface {
	Dispatch(ctx context.Context, in domain.Inbound) error
}

// updateSource long-polls and hands each update to the poller's HandleUpdate
// until ctx is done. *bot.Bot is one.
type updateSource interface {
	Start(ctx context.Context)
}

type PollerOptions struct {
	MaxConcurrency int
	JobTimeout     time.Duration
	// IdleTimeout retires a chat's worker once its queue has been empty
	// this long.
	IdleTimeout time.Duration
}

type chatWorker struct {
	jobs    chan domain.Inbound
	pending int
}

// Poller feeds updates to one worker per chat, so a chat's events run in
// arrival order while different chats run in parallel up to MaxConcurrency.
type Poller struct {
	logger *zap.Logger
	opts   PollerOptions

	handler Handler
	sem     chan struct{}
	mu      sync.Mutex
	workers map[domain.ChatID]*chatWorker
	wg      sync.WaitGroup
}

func NewPoller(logger *zap.Logger, opts PollerOptions) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = defaultMaxConcurrency
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = defaultJobTimeout
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}

	return &Poller{
		logger:  logger.Named("telegram"),
		opts:    opts,
		sem:     make(chan struct{}, opts.MaxConcurrency),
		workers: make(map[domain.ChatID]*chatWorker),
	}
}

// Run starts source and dispatches its updates to handler until ctx is
// cancelled, then lets queued events finish.
func (p *Poller) Run(ctx context.Context, source updateSource, handler Handler) error {
	p.handler = handler
	defer p.drain()

	source.Start(ctx)
	p.logger.Info("telegram polling stopped")
	return nil
}

// HandleUpdate queues an update on its chat's worker. It has the shape of a
// bot.HandlerFunc.
func (p *Poller) HandleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	in, ok := ToInbound(update)
	if !ok {
		return
	}
	p.enqueue(ctx, in)
}

func (p *Poller) enqueue(ctx context.Context, in domain.Inbound) {
	p.mu.Lock()
	w, ok := p.workers[in.ChatID]
	if !ok {
		w = &chatWorker{jobs: make(chan domain.Inbound, workerQueueSize)}
		p.workers[in.ChatID] = w
		p.wg.Add(1)
		go p.work(ctx, in.ChatID, w)
	}
	w.pending++
	p.mu.Unlock()

	select {
	case w.jobs <- in:
	case <-ctx.Done():
		p.mu.Lock()
		w.pending--
		p.mu.Unlock()
	}
}

func (p *Poller) work(ctx context.Context, chatID domain.ChatID, w *chatWorker) {
	defer p.wg.Done()

	idle := time.NewTimer(p.opts.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case in, ok := <-w.jobs:
			if !ok {
				return
			}
			p.mu.Lock()
			w.pending--
			p.mu.Unlock()

			p.dispatch(ctx, chatID, in)
			idle.Reset(p.opts.IdleTimeout)
		case <-idle.C:
			if p.retire(chatID, w) {
				return
			}
			idle.Reset(p.opts.IdleTimeout)
		}
	}
}

// retire removes an idle worker unless an event is on its way to it.
func (p *Poller) retire(chatID domain.ChatID, w *chatWorker) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w.pending > 0 {
		return false
	}
	if p.workers[chatID] == w {
		delete(p.workers, chatID)
	}
	return true
}

func (p *Poller) dispatch(ctx context.Context, chatID domain.ChatID, in domain.Inbound) {
	p.sem <- struct{}{}
	defer func() { <-p.sem }()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("dispatch panicked", zap.Int64("chat_id", int64(chatID)), zap.Any("panic", r))
		}
	}()

	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.opts.JobTimeout)
	defer cancel()

	if err := p.handler.Dispatch(jobCtx, in); err != nil {
		p.logger.Warn("dispatch failed", zap.Int64("chat_id", int64(chatID)), zap.Error(err))
	}
}

func (p *Poller) drain() {
	p.mu.Lock()
	for chatID, w := range p.workers {
		close(w.jobs)
		delete(p.workers, chatID)
	}
	p.mu.Unlock()

	p.wg.Wait()
}
