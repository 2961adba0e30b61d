package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/saveblush/reraw-search/core/config"
)

func withQueryConfig(t *testing.T, cf config.QueryConfig) {
	t.Helper()

	prev := config.CF().Query
	config.CF().Query = cf
	t.Cleanup(func() { config.CF().Query = prev })
}

func TestNewQueryRequest(t *testing.T) {
	withQueryConfig(t, config.QueryConfig{
		Relays:        []string{"wss://a.example", "wss://b.example"},
		Limit:         15,
		Timeout:       4 * time.Second,
		SearchRelays:  []string{"wss://search.example"},
		SearchLimit:   60,
		SearchTimeout: 9 * time.Second,
	})

	req := NewQueryRequest()
	assert.Equal(t, []string{"wss://a.example", "wss://b.example"}, req.Relays)
	assert.Equal(t, 1, req.Kind)
	assert.Equal(t, 15, req.Limit)
	assert.Equal(t, 4*time.Second, req.Timeout)
	assert.Empty(t, req.Author)
}

func TestNewSearchRequest(t *testing.T) {
	withQueryConfig(t, config.QueryConfig{
		Relays:        []string{"wss://a.example"},
		Limit:         15,
		Timeout:       4 * time.Second,
		SearchRelays:  []string{"wss://search.example"},
		SearchLimit:   60,
		SearchTimeout: 9 * time.Second,
	})

	req := NewSearchRequest()
	assert.Equal(t, []string{"wss://search.example"}, req.Relays)
	assert.Equal(t, 60, req.Limit)
	assert.Equal(t, 9*time.Second, req.Timeout)
	assert.Empty(t, req.Search)

	req.Relays[0] = "wss://changed.example"
	assert.Equal(t, "wss://search.example", config.CF().Query.SearchRelays[0])
}
