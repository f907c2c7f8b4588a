package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bnema/yolka/internal/adapters/store"
	"github.com/bnema/yolka/internal/domain"
	"github.com/bnema/yolka/internal/ports"
)

const DefaultPrefix = "yolka:session:"

// Store keeps one JSON document per user under prefix+userID. A positive ttl
// is refreshed on every Put so abandoned sessions expire.
type Store struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore(client goredis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *Store) Get(ctx context.Context, userID domain.UserID) (domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("redis get session %d: %w", userID, err)
	}
	return store.Decode(data)
}

func (s *Store) Put(ctx context.Context, session domain.Session) error {
	data, err := store.Encode(session)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(session.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %d: %w", session.UserID, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, userID domain.UserID) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del session %d: %w", userID, err)
	}
	return nil
}

func (s *Store) key(userID domain.UserID) string {
	return s.prefix + strconv.FormatInt(int64(userID), 10)
}
