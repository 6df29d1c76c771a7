// Package cache memoizes search provider responses in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "deepresearch:search:"

// Searcher is the provider being cached.
type Searcher interface {
	Search(ctx context.Context, q string, opts models.Options) (models.Document, error)
}

// Search serves repeated queries from Redis. Cache failures are logged and
// fall through to the provider; provider errors are never cached.
type Search struct {
	next     Searcher
	client   redis.Cmdable
	provider string
	ttl      time.Duration
	logger   *zap.Logger
}

func New(next Searcher, client redis.Cmdable, provider string, ttl time.Duration, logger *zap.Logger) *Search {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Search{next: next, client: client, provider: provider, ttl: ttl, logger: logger}
}

func (s *Search) Search(ctx context.Context, q string, opts models.Options) (models.Document, error) {
	key := s.key(q, opts)

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var doc models.Document
		if err := json.Unmarshal(data, &doc); err == nil {
			return doc, nil
		}
		s.logger.Warn("discarding corrupt cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("search cache read failed", zap.Error(err))
	}

	doc, err := s.next.Search(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(doc); err == nil {
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.Warn("search cache write failed", zap.Error(err))
		}
	}
	return doc, nil
}

func (s *Search) key(q string, opts models.Options) string {
	b, _ := json.Marshal(struct {
		Provider string         `json:"provider"`
		Query    string         `json:"query"`
		Options  models.Options `json:"options"`
	}{s.provider, q, opts})
	sum := sha256.Sum256(b)
	return keyPrefix + hex.EncodeToString(sum[:])
}
