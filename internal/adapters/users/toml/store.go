package toml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	usersFileMode   = 0o600
	usersDirMode    = 0o700
	tempFilePattern = ".users-*.toml.tmp"
)

// Store persists known chats in a TOML file. Every write replaces the file
// atomically.
type Store struct {
	usersPath string
	clock     ports.Clock
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.KnownUsers = (*Store)(nil)

func NewStore(path string, clock ports.Clock) (*Store, error) {
	if path == "" {
		return nil, errors.New("users path is empty")
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	usersPath, err := normalizeUsersPath(path)
	if err != nil {
		return nil, err
	}

	return &Store{usersPath: usersPath, clock: clock, mu: lockForPath(usersPath)}, nil
}

func (s *Store) Path() string {
	return s.usersPath
}

func (s *Store) Add(ctx context.Context, chatID domain.ChatID) (bool, error) {
	added, err := s.addAll(ctx, []domain.ChatID{chatID})
	return added == 1, err
}

func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return 0, err
	}

	return len(file.Users), nil
}

func (s *Store) List(ctx context.Context) ([]domain.ChatID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return nil, err
	}

	ids := make([]domain.ChatID, 0, len(file.Users))
	for _, user := range file.Users {
		ids = append(ids, domain.ChatID(user.ChatID))
	}
	return ids, nil
}

// ImportJSON merges a legacy users file, a JSON array of chat ids, and
// returns how many chats were new.
func (s *Store) ImportJSON(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read legacy users file: %w", err)
	}

	var raw []int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("decode legacy users file: %w", err)
	}

	ids := make([]domain.ChatID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, domain.ChatID(id))
	}
	return s.addAll(ctx, ids)
}

func (s *Store) addAll(ctx context.Context, ids []domain.ChatID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return 0, err
	}

	known := make(map[int64]struct{}, len(file.Users))
	for _, user := range file.Users {
		known[user.ChatID] = struct{}{}
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)
	added := 0
	for _, id := range ids {
		if _, ok := known[int64(id)]; ok {
			continue
		}
		known[int64(id)] = struct{}{}
		file.Users = append(file.Users, userSchema{ChatID: int64(id), RegisteredAt: now})
		added++
	}
	if added == 0 {
		return 0, nil
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.writeSchema(file); err != nil {
		return 0, err
	}

	return added, nil
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.usersPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read users file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode users file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.usersPath), usersDirMode); err != nil {
		return fmt.Errorf("create users directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode users file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.usersPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp users file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp users file: %w", err)
	}

	if err := tempFile.Chmod(usersFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp users file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp users file: %w", err)
	}

	if err := os.Rename(tempName, s.usersPath); err != nil {
		return fmt.Errorf("replace users file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizeUsersPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve users path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
