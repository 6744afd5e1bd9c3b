package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bnema/toplap/internal/domain"
	"github.com/bnema/toplap/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultKey = "toplap:known_users"

type setClient interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *goredis.IntCmd
	SCard(ctx context.Context, key string) *goredis.IntCmd
}

// Store keeps known chats in a Redis set so several bot replicas share one
// registry.
type Store struct {
	client setClient
	key    string
}

var _ ports.KnownUsers = (*Store)(nil)

func NewStore(client setClient, key string) *Store {
	if key == "" {
		key = DefaultKey
	}

	return &Store{client: client, key: key}
}

// Open parses a redis:// URL, falling back to treating it as a plain
// address, and checks the connection.
func Open(ctx context.Context, rawURL string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(rawURL)
	if err != nil {
		opt = &goredis.Options{Addr: rawURL}
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *Store) Add(ctx context.Context, chatID domain.ChatID) (bool, error) {
	added, err := s.client.SAdd(ctx, s.key, strconv.FormatInt(int64(chatID), 10)).Result()
	if err != nil {
		return false, fmt.Errorf("add known user: %w", err)
	}
	return added > 0, nil
}

// AddMany registers chatIDs in one round trip and returns how many were new.
func (s *Store) AddMany(ctx context.Context, chatIDs []domain.ChatID) (int, error) {
	if len(chatIDs) == 0 {
		return 0, nil
	}

	members := make([]interface{}, 0, len(chatIDs))
	for _, id := range chatIDs {
		members = append(members, strconv.FormatInt(int64(id), 10))
	}

	added, err := s.client.SAdd(ctx, s.key, members...).Result()
	if err != nil {
		return 0, fmt.Errorf("add known users: %w", err)
	}
	return int(added), nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.client.SCard(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("count known users: %w", err)
	}
	return int(count), nil
}
