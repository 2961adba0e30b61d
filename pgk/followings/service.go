package followings

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/nbd-wtf/go-nostr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/saveblush/reraw-search/core/config"
	"github.com/saveblush/reraw-search/core/generic"
	"github.com/saveblush/reraw-search/core/utils/limiter"
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
	"github.com/saveblush/reraw-search/pgk/cache"
	"github.com/saveblush/reraw-search/pgk/filter"
	"github.com/saveblush/reraw-search/pgk/identity"
	"github.com/saveblush/reraw-search/pgk/nips/nip19"
	"github.com/saveblush/reraw-search/pgk/query"
)

// Service service interface
type Service interface {
	Load(ctx context.Context, src string, relays []string) ([]*models.Following, error)
}

type service struct {
	config  *config.FollowingsConfig
	query   query.Service
	cache   cache.Service
	limiter *limiter.HostRateLimiter
}

// NewService new service
func NewService(q query.Service, c cache.Service) Service {
	cf := &config.CF().Followings
	burst := cf.ProfileConcurrency
	if burst <= 0 {
		burst = 1
	}

	limit := rate.Inf
	if cf.ProfileRate > 0 {
		limit = rate.Limit(cf.ProfileRate)
	}

	return &service{
		config:  cf,
		query:   q,
		cache:   c,
		limiter: limiter.NewHostRateLimiter(limit, burst),
	}
}

// Load people src follows with their profiles, in follow list order
func (s *service) Load(ctx context.Context, src string, relays []string) ([]*models.Following, error) {
	src, err := identity.Decode(src)
	if err != nil {
		return nil, err
	}
	relays = filter.SplitRelays(relays...)

	keys, err := s.followKeys(ctx, src, relays)
	if err != nil {
		return nil, err
	}
	if s.config.Limit > 0 && len(keys) > s.config.Limit {
		keys = keys[:s.config.Limit]
	}

	result := make([]*models.Following, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	if s.config.ProfileConcurrency > 0 {
		g.SetLimit(s.config.ProfileConcurrency)
	}
	for i, pk := range keys {
		g.Go(func() error {
			result[i] = s.following(gctx, pk, relays)
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}

// followKeys p tags of the newest follow list, cached per source and relays
func (s *service) followKeys(ctx context.Context, src string, relays []string) ([]string, error) {
	key := cache.FollowingsKey(src, relays)

	var keys []string
	if ok, _ := s.cache.Get(ctx, key, &keys); ok {
		return keys, nil
	}

	evts, err := s.query.QueryRelays(ctx, &models.QueryRequest{
		Relays:  relays,
		Author:  src,
		Kind:    nostr.KindFollowList,
		Limit:   1,
		Timeout: s.config.ListTimeout,
	}, nil)
	if err != nil {
		return nil, err
	}

	keys = []string{}
	if len(evts) > 0 {
		keys = pubkeys(evts[0].Tags)
	}
	logger.Log.Debugf("[followings] %s follows %d keys", src, len(keys))

	_ = s.cache.Set(ctx, key, keys)

	return keys, nil
}

// following profile of pk, cached, empty when no relay answers
func (s *service) following(ctx context.Context, pk string, relays []string) *models.Following {
	f := &models.Following{Hex: pk}
	f.Npub, _ = nip19.EncodePublicKey(pk)

	key := cache.ProfileKey(pk)
	if ok, _ := s.cache.Get(ctx, key, &f.Profile); ok {
		return f
	}

	if err := s.limiter.Wait(ctx, relays); err != nil {
		return f
	}

	evts, err := s.query.QueryRelays(ctx, &models.QueryRequest{
		Relays:  relays,
		Author:  pk,
		Kind:    nostr.KindProfileMetadata,
		Limit:   1,
		Timeout: s.config.ProfileTimeout,
	}, nil)
	if err != nil {
		logger.Log.Warnf("[followings] profile %s error: %s", pk, err)
		return f
	}
	if len(evts) > 0 {
		f.Profile = ParseProfile(evts[0].Content)
	}

	_ = s.cache.Set(ctx, key, &f.Profile)

	return f
}

// pubkeys p tag values holding a public key, deduped in tag order
func pubkeys(tags models.Tags) []string {
	result := make([]string, 0)
	for _, v := range tags.Values("p") {
		pk, err := identity.Decode(v)
		if err != nil {
			continue
		}
		result = append(result, pk)
	}

	return generic.Unique(result)
}

type metadata struct {
	DisplayName any `json:"display_name"`
	Name        any `json:"name"`
	Picture     any `json:"picture"`
}

// ParseProfile kind 0 content, fields that are not strings are left empty
func ParseProfile(content string) models.Profile {
	var m metadata
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		return models.Profile{}
	}

	return models.Profile{
		Display: strings.TrimSpace(str(m.DisplayName)),
		Nick:    strings.TrimSpace(str(m.Name)),
		Picture: str(m.Picture),
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
