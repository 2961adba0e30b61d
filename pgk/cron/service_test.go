package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveblush/reraw-search/core/config"
)

type countingCache struct {
	purged atomic.Int32
}

func (c *countingCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	return false, nil
}

func (c *countingCache) Set(ctx context.Context, key string, v any) error {
	return nil
}

func (c *countingCache) PurgeExpired(ctx context.Context) (int64, error) {
	c.purged.Add(1)
	return 0, nil
}

func TestAddQueryRuns(t *testing.T) {
	s := NewService(nil)

	var runs atomic.Int32
	require.NoError(t, s.AddQuery("@every 1s", func() { runs.Add(1) }))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestAddQueryInvalidSpec(t *testing.T) {
	s := NewService(nil)

	assert.Error(t, s.AddQuery("every now and then", func() {}))
}

func TestPurgeSchedule(t *testing.T) {
	old := config.CF().Cache.PurgeSchedule
	config.CF().Cache.PurgeSchedule = "@every 1s"
	defer func() { config.CF().Cache.PurgeSchedule = old }()

	c := &countingCache{}
	s := NewService(c)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return c.purged.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestInvalidPurgeSchedule(t *testing.T) {
	old := config.CF().Cache.PurgeSchedule
	config.CF().Cache.PurgeSchedule = "whenever"
	defer func() { config.CF().Cache.PurgeSchedule = old }()

	assert.Error(t, NewService(&countingCache{}).Start())
}
