package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/saveblush/reraw-search/core/config"
	"github.com/saveblush/reraw-search/core/utils"
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
)

// Service service interface
type Service interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type service struct {
	repository Repository
	ttl        time.Duration
	now        func() time.Time
}

// NewService new cache with ttl
func NewService(repository Repository, ttl time.Duration) Service {
	return &service{
		repository: repository,
		ttl:        ttl,
		now:        utils.Now,
	}
}

// NewServiceFromConfig cache on the configured driver
func NewServiceFromConfig() Service {
	var repository Repository
	switch config.CF().Cache.Driver {
	case config.CachePostgres:
		repository = NewSQLRepository()
	default:
		repository = NewMemoryRepository()
	}

	return NewService(repository, config.CF().Followings.TTL)
}

// Get decode the live entry of key into dst, false on a miss
func (s *service) Get(ctx context.Context, key string, dst any) (bool, error) {
	entry, err := s.repository.Find(ctx, key, s.now().Unix())
	if err != nil {
		logger.Log.Errorf("[cache] find %s error: %s", key, err)
		return false, err
	}
	if entry == nil {
		return false, nil
	}

	err = json.Unmarshal(entry.Value, dst)
	if err != nil {
		logger.Log.Warnf("[cache] decode %s error: %s", key, err)
		return false, nil
	}

	return true, nil
}

// Set store v under key until the ttl runs out
func (s *service) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	now := s.now()
	err = s.repository.Upsert(ctx, &models.CacheEntry{
		Key:       key,
		Value:     b,
		FetchedAt: now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	if err != nil {
		logger.Log.Errorf("[cache] store %s error: %s", key, err)
		return err
	}

	return nil
}

// PurgeExpired delete expired entries
func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repository.DeleteExpired(ctx, s.now().Unix())
	if err != nil {
		logger.Log.Errorf("[cache] purge error: %s", err)
		return 0, err
	}
	if n > 0 {
		logger.Log.Debugf("[cache] purged %d entries", n)
	}

	return n, nil
}
