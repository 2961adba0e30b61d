package relay

import (
	"context"
	"errors"
	"sync"

	"github.com/nbd-wtf/go-nostr"

	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
)

// State session state
type State int

const (
	StateConnecting State = iota
	StateSubscribed
	StateStreaming
	StateDone
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	}

	return "unknown"
}

// Session one subscription on one relay
type Session struct {
	dialer   Dialer
	endpoint string
	subID    string
	filter   nostr.Filter

	mu    sync.RWMutex
	state State
}

// NewSession new session
func NewSession(dialer Dialer, endpoint, subID string, filter nostr.Filter) *Session {
	return &Session{
		dialer:   dialer,
		endpoint: endpoint,
		subID:    subID,
		filter:   filter,
		state:    StateConnecting,
	}
}

// Endpoint relay url
func (s *Session) Endpoint() string {
	return s.endpoint
}

// State current state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// emit send progress unless ctx is done
func (s *Session) emit(ctx context.Context, out chan<- *models.Progress, typ models.ProgressType, evt *models.Event, err error) {
	p := &models.Progress{
		Type:     typ,
		Endpoint: s.endpoint,
		Record:   evt,
		Err:      err,
	}

	select {
	case out <- p:
	case <-ctx.Done():
	}
}

// Run connect, subscribe and stream until EOSE, close or ctx done.
// Exactly one of stream-exhausted, failed or closed moves the session
// to done, a failure after the socket opened is followed by closed.
// The socket is closed once, after the terminal progress is sent.
func (s *Session) Run(ctx context.Context, out chan<- *models.Progress) {
	s.setState(StateConnecting)
	conn, err := s.dialer.Dial(ctx, s.endpoint)
	if err != nil {
		logger.Log.Debugf("[session] %s dial error: %s", s.endpoint, err)
		s.setState(StateDone)
		s.emit(ctx, out, models.ProgressFailed, nil, err)
		return
	}
	// the close handshake can take seconds, the terminal progress goes out first
	defer conn.Close()

	err = conn.Write(ctx, nostr.ReqEnvelope{
		SubscriptionID: s.subID,
		Filters:        nostr.Filters{s.filter},
	})
	if err != nil {
		logger.Log.Debugf("[session] %s write error: %s", s.endpoint, err)
		s.emit(ctx, out, models.ProgressFailed, nil, err)
		s.setState(StateDone)
		s.emit(ctx, out, models.ProgressClosed, nil, nil)
		return
	}
	s.setState(StateSubscribed)
	s.emit(ctx, out, models.ProgressOpened, nil, nil)

	for {
		msg, err := conn.Read(ctx)
		if err != nil {
			if !errors.Is(err, ErrConnClosed) && ctx.Err() == nil {
				logger.Log.Debugf("[session] %s read error: %s", s.endpoint, err)
				s.emit(ctx, out, models.ProgressFailed, nil, err)
			}
			s.setState(StateDone)
			s.emit(ctx, out, models.ProgressClosed, nil, nil)
			return
		}

		typ, evt := parseFrame(msg, s.subID)
		switch typ {
		case frameEvent:
			s.setState(StateStreaming)
			s.emit(ctx, out, models.ProgressRecord, evt, nil)

		case frameEOSE:
			s.setState(StateDone)
			s.emit(ctx, out, models.ProgressExhausted, nil, nil)
			return
		}
	}
}
