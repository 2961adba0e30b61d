package query

import (
	"context"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/saveblush/reraw-search/core/config"
	"github.com/saveblush/reraw-search/core/generic"
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
	"github.com/saveblush/reraw-search/pgk/filter"
	"github.com/saveblush/reraw-search/relay"
)

// Request one aggregated query over several relays
type Request struct {
	Endpoints  []string
	Filter     nostr.Filter
	Limit      int
	Timeout    time.Duration
	OnProgress models.ProgressFunc
}

// Service service interface
type Service interface {
	Run(ctx context.Context, req *Request) []*models.Event
	QueryRelays(ctx context.Context, req *models.QueryRequest, onProgress models.ProgressFunc) ([]*models.Event, error)
	QueryBySearch(ctx context.Context, req *models.SearchRequest, onProgress models.ProgressFunc) ([]*models.Event, error)
}

// Option service option
type Option func(s *service)

// WithDialer use another transport
func WithDialer(d relay.Dialer) Option {
	return func(s *service) {
		s.dialer = d
	}
}

// WithAllowInsecure accept ws:// relays
func WithAllowInsecure(allow bool) Option {
	return func(s *service) {
		s.allowInsecure = allow
	}
}

type service struct {
	dialer        relay.Dialer
	allowInsecure bool
	filter        filter.Service
}

// NewService new service
func NewService(opts ...Option) Service {
	s := &service{
		allowInsecure: config.CF().Query.AllowInsecure,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dialer == nil {
		s.dialer = relay.NewWSDialer()
	}
	s.filter = filter.NewService(s.allowInsecure)

	return s
}

// QueryRelays validate and run a query by author, kind and tag
func (s *service) QueryRelays(ctx context.Context, req *models.QueryRequest, onProgress models.ProgressFunc) ([]*models.Event, error) {
	q, err := s.filter.BuildQuery(req)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, q, onProgress), nil
}

// QueryBySearch validate and run a search query
func (s *service) QueryBySearch(ctx context.Context, req *models.SearchRequest, onProgress models.ProgressFunc) ([]*models.Event, error) {
	q, err := s.filter.BuildSearch(req)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, q, onProgress), nil
}

func (s *service) run(ctx context.Context, q *filter.Query, onProgress models.ProgressFunc) []*models.Event {
	return s.Run(ctx, &Request{
		Endpoints:  q.Relays,
		Filter:     q.Filter,
		Limit:      q.Limit,
		Timeout:    q.Timeout,
		OnProgress: onProgress,
	})
}

// Run fan out one session per endpoint and collect records until every
// relay is done or the timeout fires, whichever comes first.
// Failed relays only show up as progress, the result may be empty.
func (s *service) Run(ctx context.Context, req *Request) []*models.Event {
	start := time.Now()
	endpoints := generic.Unique(req.Endpoints)
	records := newRecordSet()
	if len(endpoints) == 0 {
		return records.finalize(req.Limit)
	}

	notify := newNotifier(req.OnProgress)
	defer notify.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	subID := NewSubscriptionID()
	events := make(chan *models.Progress)
	for _, endpoint := range endpoints {
		sess := relay.NewSession(s.dialer, endpoint, subID, req.Filter)
		go sess.Run(ctx, events)
	}

	timer := time.NewTimer(req.Timeout)
	defer timer.Stop()

	done := make(map[string]struct{}, len(endpoints))

loop:
	for {
		select {
		case p := <-events:
			switch {
			case p.Type == models.ProgressRecord:
				records.put(p.Record)
				p.Count = records.len()

			case p.Type.Terminal():
				done[p.Endpoint] = struct{}{}
			}
			notify.send(p)

			if len(done) == len(endpoints) {
				break loop
			}

		case <-timer.C:
			logger.Log.Debugf("[query] %s timeout, %d/%d relays done", subID, len(done), len(endpoints))
			break loop

		case <-ctx.Done():
			break loop
		}
	}

	// close every session still streaming
	cancel()

	result := records.finalize(req.Limit)
	logger.Log.Debugf("[query] %s finished with %d records in %s", subID, len(result), time.Since(start))

	return result
}
