package lexstore

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/bulletin-labs/prahari/audit/lexicon"
)

const redisLexiconKey = "auditlexicon/config"

// RedisLexiconStore loads lexicon configuration JSON from a redis key, so a
// fleet of audit daemons can share one lexicon and pick up edits on reload.
type RedisLexiconStore struct {
	Client *redis.Client
	cur    atomic.Pointer[lexicon.Lexicon]
}

func NewRedisLexiconStore(redisURL string) (*RedisLexiconStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	s := &RedisLexiconStore{Client: rdb}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RedisLexiconStore) Snapshot(ctx context.Context) (*lexicon.Lexicon, error) {
	lex := s.cur.Load()
	if lex == nil {
		return nil, ErrNoSnapshot
	}
	return lex, nil
}

func (s *RedisLexiconStore) Reload(ctx context.Context) error {
	raw, err := s.Client.Get(ctx, redisLexiconKey).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("no lexicon config at redis key %s", redisLexiconKey)
	} else if err != nil {
		return err
	}
	lex, err := lexicon.ParseConfig(raw)
	if err != nil {
		return fmt.Errorf("reloading lexicon from redis: %w", err)
	}
	s.cur.Store(lex)
	return nil
}
