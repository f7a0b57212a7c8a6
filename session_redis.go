package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mdbplc/advisor/common/logger"
	"github.com/mdbplc/advisor/config"
)

// RedisSessionStore keeps sessions in redis as JSON blobs under
// "advisor:sess:<id>" with a TTL, so idle conversations expire on their
// own.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSessionStore(cfg *config.SessionConfig) (*RedisSessionStore, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("redis session store requires redis_addr")
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisSessionStore{rdb: rdb, prefix: "advisor:sess:", ttl: ttl}, nil
}

func (s *RedisSessionStore) key(id string) string { return s.prefix + id }

func (s *RedisSessionStore) Create() *SessionData {
	sess := newSessionData()
	if err := s.Put(sess); err != nil {
		logger.Warnf("session: redis create failed: %v", err)
	}
	return sess
}

func (s *RedisSessionStore) Get(id string) (*SessionData, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("session: redis get %s failed: %v", id, err)
		}
		return nil, false
	}
	var sess SessionData
	if err := json.Unmarshal(raw, &sess); err != nil {
		logger.Warnf("session: corrupt session %s: %v", id, err)
		return nil, false
	}
	return &sess, true
}

func (s *RedisSessionStore) Put(sess *SessionData) error {
	if sess.ID == "" {
		return fmt.Errorf("session id empty")
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.rdb.Set(ctx, s.key(sess.ID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	n, err := s.rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		logger.Warnf("session: redis delete %s failed: %v", id, err)
		return false
	}
	return n > 0
}
