package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/saveblush/reraw-search/models"
)

// dryRunDB statements are built but never sent
func dryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=postgres dbname=reraw_search sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db
}

func TestSQLRepositoryStatements(t *testing.T) {
	db := dryRunDB(t)
	r := &sqlRepository{}

	var found []*models.CacheEntry
	stmt := r.findQuery(db, "profiles.aa", 100, &found).Statement
	assert.Contains(t, stmt.SQL.String(), `"cache_entries"`)
	assert.Contains(t, stmt.SQL.String(), "key = $1 AND expires_at > $2")
	assert.Equal(t, []any{"profiles.aa", int64(100)}, stmt.Vars[:2])

	stmt = r.upsertQuery(db, &models.CacheEntry{Key: "profiles.aa", Value: []byte(`{}`), FetchedAt: 1, ExpiresAt: 2}).Statement
	assert.Contains(t, stmt.SQL.String(), `INSERT INTO "cache_entries"`)
	assert.Contains(t, stmt.SQL.String(), `ON CONFLICT ("key") DO UPDATE`)

	stmt = r.deleteQuery(db, 100).Statement
	assert.Contains(t, stmt.SQL.String(), `DELETE FROM "cache_entries"`)
	assert.Contains(t, stmt.SQL.String(), "expires_at <= $1")
}

func TestSQLRepositoryWithoutDatabase(t *testing.T) {
	r := NewSQLRepository()

	_, err := r.Find(context.Background(), "profiles.aa", 0)
	assert.ErrorIs(t, err, errNoDatabase)

	_, err = r.DeleteExpired(context.Background(), 0)
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestMemoryRepositoryCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	entry := &models.CacheEntry{Key: "k", Value: []byte(`1`), ExpiresAt: 10}
	require.NoError(t, r.Upsert(ctx, entry))
	entry.ExpiresAt = 0

	got, err := r.Find(ctx, "k", 5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 10, got.ExpiresAt)

	got, err = r.Find(ctx, "k", 10)
	require.NoError(t, err)
	assert.Nil(t, got)
}
