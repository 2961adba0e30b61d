package cache

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saveblush/reraw-search/core/cctx"
	"github.com/saveblush/reraw-search/models"
)

var (
	errNoDatabase = errors.New("error: cache database is not connected")
)

// Repository storage of cache entries
type Repository interface {
	Find(ctx context.Context, key string, now int64) (*models.CacheEntry, error)
	Upsert(ctx context.Context, entry *models.CacheEntry) error
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*models.CacheEntry
}

// NewMemoryRepository in process repository
func NewMemoryRepository() Repository {
	return &memoryRepository{
		entries: make(map[string]*models.CacheEntry),
	}
}

func (r *memoryRepository) Find(ctx context.Context, key string, now int64) (*models.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key]
	if !ok || entry.ExpiresAt <= now {
		return nil, nil
	}
	clone := *entry

	return &clone, nil
}

func (r *memoryRepository) Upsert(ctx context.Context, entry *models.CacheEntry) error {
	clone := *entry

	r.mu.Lock()
	r.entries[entry.Key] = &clone
	r.mu.Unlock()

	return nil
}

func (r *memoryRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, v := range r.entries {
		if v.ExpiresAt <= now {
			delete(r.entries, k)
			n++
		}
	}

	return n, nil
}

type sqlRepository struct{}

// NewSQLRepository repository on the cache database
func NewSQLRepository() Repository {
	return &sqlRepository{}
}

func (r *sqlRepository) db(ctx context.Context) (*gorm.DB, error) {
	db := cctx.Wrap(ctx).GetDatabase()
	if db == nil {
		return nil, errNoDatabase
	}

	return db, nil
}

func (r *sqlRepository) findQuery(db *gorm.DB, key string, now int64, dst *[]*models.CacheEntry) *gorm.DB {
	return db.Where("key = ? AND expires_at > ?", key, now).Limit(1).Find(dst)
}

func (r *sqlRepository) upsertQuery(db *gorm.DB, entry *models.CacheEntry) *gorm.DB {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "fetched_at", "expires_at"}),
	}).Create(entry)
}

func (r *sqlRepository) deleteQuery(db *gorm.DB, now int64) *gorm.DB {
	return db.Where("expires_at <= ?", now).Delete(&models.CacheEntry{})
}

func (r *sqlRepository) Find(ctx context.Context, key string, now int64) (*models.CacheEntry, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	entities := []*models.CacheEntry{}
	err = r.findQuery(db, key, now, &entities).Error
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}

	return entities[0], nil
}

func (r *sqlRepository) Upsert(ctx context.Context, entry *models.CacheEntry) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}

	return r.upsertQuery(db, entry).Error
}

func (r *sqlRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	db, err := r.db(ctx)
	if err != nil {
		return 0, err
	}

	query := r.deleteQuery(db, now)
	if query.Error != nil {
		return 0, query.Error
	}

	return query.RowsAffected, nil
}
