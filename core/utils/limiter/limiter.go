package limiter

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostRateLimiter one token bucket per relay host
type HostRateLimiter struct {
	hosts map[string]*rate.Limiter
	mu    *sync.Mutex
	limit rate.Limit
	burst int
}

// NewHostRateLimiter new host rate limiter
func NewHostRateLimiter(r rate.Limit, b int) *HostRateLimiter {
	return &HostRateLimiter{
		hosts: make(map[string]*rate.Limiter),
		mu:    &sync.Mutex{},
		limit: r,
		burst: b,
	}
}

// GetLimiter get limiter
func (r *HostRateLimiter) GetLimiter(host string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.hosts[host]
	if !exists {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.hosts[host] = limiter
	}

	return limiter
}

// Wait block until every relay in the list allows one more request
func (r *HostRateLimiter) Wait(ctx context.Context, relays []string) error {
	for _, v := range relays {
		if err := r.GetLimiter(Host(v)).Wait(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Host host part of a relay url, the raw value when it does not parse
func Host(relay string) string {
	u, err := url.Parse(relay)
	if err != nil || u.Host == "" {
		return relay
	}

	return u.Host
}
