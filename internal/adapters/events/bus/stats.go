package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	"go.uber.org/zap"
)

const (
	statsFileMode = 0o600
	statsDirMode  = 0o700
	statsMimeType = "application/json"
)

// StatsRecorder folds bus events into a stats artifact on disk.
type StatsRecorder struct {
	path   string
	users  ports.KnownUsers
	clock  ports.Clock
	logger *zap.Logger

	mu    sync.Mutex
	stats domain.Stats
}

var _ ports.StatsReader = (*StatsRecorder)(nil)

func NewStatsRecorder(path string, users ports.KnownUsers, clock ports.Clock, logger *zap.Logger) *StatsRecorder {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StatsRecorder{
		path:   path,
		users:  users,
		clock:  clock,
		logger: logger.Named("stats"),
	}
}

// Start subscribes to the bus and records events until ctx is done. The
// returned wait function blocks until both subscriptions have drained.
func (r *StatsRecorder) Start(ctx context.Context, bus *Bus) (func(), error) {
	if err := r.load(); err != nil {
		r.logger.Warn("ignoring unreadable stats file", zap.String("path", r.path), zap.Error(err))
	}

	registered, err := bus.Subscribe(ctx, domain.EventUserRegistered)
	if err != nil {
		return nil, err
	}
	served, err := bus.Subscribe(ctx, domain.EventRecommendationServed)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	for _, events := range []<-chan domain.Event{registered, served} {
		wg.Add(1)
		go func(events <-chan domain.Event) {
			defer wg.Done()
			for event := range events {
				if err := r.Record(ctx, event); err != nil {
					r.logger.Error("record event", zap.String("type", string(event.Type)), zap.Error(err))
				}
			}
		}(events)
	}

	return wg.Wait, nil
}

func (r *StatsRecorder) Record(ctx context.Context, event domain.Event) error {
	count := -1
	if event.Type == domain.EventUserRegistered && r.users != nil {
		known, err := r.users.Count(ctx)
		if err != nil {
			return fmt.Errorf("count known users: %w", err)
		}
		count = known
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Type {
	case domain.EventUserRegistered:
		r.stats.LastRegisteredChat = event.ChatID
		if count >= 0 {
			r.stats.KnownUsers = count
		} else {
			r.stats.KnownUsers++
		}
	case domain.EventRecommendationServed:
		r.stats.RecommendationsServed++
	default:
		return nil
	}
	r.stats.UpdatedAt = r.clock.Now()

	return r.write(r.stats)
}

func (r *StatsRecorder) Snapshot() domain.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stats
}

func (r *StatsRecorder) ReadStats(ctx context.Context) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Document{}, domain.ErrStatsNotFound
		}
		return domain.Document{}, fmt.Errorf("read stats file: %w", err)
	}

	return domain.Document{
		Filename: filepath.Base(r.path),
		MimeType: statsMimeType,
		Data:     data,
	}, nil
}

func (r *StatsRecorder) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read stats file: %w", err)
	}

	var stats domain.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return fmt.Errorf("decode stats file: %w", err)
	}
	r.stats = stats
	return nil
}

func (r *StatsRecorder) write(stats domain.Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, statsDirMode); err != nil {
		return fmt.Errorf("create stats directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp stats file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp stats file: %w", err)
	}
	if err := tmp.Chmod(statsFileMode); err != nil {
		return fmt.Errorf("chmod temp stats file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp stats file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("replace stats file: %w", err)
	}
	return nil
}
