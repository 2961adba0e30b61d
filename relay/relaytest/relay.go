// Package relaytest in-process relay for tests
package relaytest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nbd-wtf/go-nostr"
)

// Option relay option
type Option func(rl *Relay)

// WithoutEOSE never answer EOSE, keep the socket open
func WithoutEOSE() Option {
	return func(rl *Relay) {
		rl.noEOSE = true
	}
}

// WithCloseAfterEvents drop the connection after the stored events, no EOSE
func WithCloseAfterEvents() Option {
	return func(rl *Relay) {
		rl.closeAfterEvents = true
	}
}

// WithDeafAfterEOSE stop reading after EOSE, a close frame from the
// client is never answered
func WithDeafAfterEOSE() Option {
	return func(rl *Relay) {
		rl.deafAfterEOSE = true
	}
}

// WithDelay wait before answering a REQ
func WithDelay(d time.Duration) Option {
	return func(rl *Relay) {
		rl.delay = d
	}
}

// WithFrames raw frames sent before the stored events,
// "{sub}" is replaced by the subscription id
func WithFrames(frames ...string) Option {
	return func(rl *Relay) {
		rl.frames = append(rl.frames, frames...)
	}
}

// Relay fake relay answering REQ from a fixed event list
type Relay struct {
	server   *httptest.Server
	upgrader websocket.Upgrader
	events   []*nostr.Event

	noEOSE           bool
	closeAfterEvents bool
	deafAfterEOSE    bool
	delay            time.Duration
	frames           []string

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	filters []nostr.Filter

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRelay start relay
func NewRelay(events []*nostr.Event, opts ...Option) *Relay {
	rl := &Relay{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		events: events,
		conns:  make(map[*websocket.Conn]struct{}),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}
	rl.server = httptest.NewServer(http.HandlerFunc(rl.handleWebsocket))

	return rl
}

// URL ws:// url of the relay
func (rl *Relay) URL() string {
	return "ws" + strings.TrimPrefix(rl.server.URL, "http")
}

// Filters filters received so far
func (rl *Relay) Filters() []nostr.Filter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return append([]nostr.Filter(nil), rl.filters...)
}

// Close close open sockets and stop the server
func (rl *Relay) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })

	rl.mu.Lock()
	for conn := range rl.conns {
		conn.Close()
	}
	rl.mu.Unlock()

	rl.server.Close()
}

func (rl *Relay) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := rl.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	rl.mu.Lock()
	rl.conns[ws] = struct{}{}
	rl.mu.Unlock()

	defer func() {
		rl.mu.Lock()
		delete(rl.conns, ws)
		rl.mu.Unlock()
		ws.Close()
	}()

	for {
		mt, msg, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		env, ok := nostr.ParseMessage(msg).(*nostr.ReqEnvelope)
		if !ok {
			continue
		}

		if !rl.onReq(ws, env) {
			return
		}
	}
}

// onReq answer one REQ, false when the connection should be dropped
func (rl *Relay) onReq(ws *websocket.Conn, env *nostr.ReqEnvelope) bool {
	rl.mu.Lock()
	rl.filters = append(rl.filters, env.Filters...)
	rl.mu.Unlock()

	if rl.delay > 0 {
		time.Sleep(rl.delay)
	}

	subID := env.SubscriptionID
	for _, frame := range rl.frames {
		frame = strings.ReplaceAll(frame, "{sub}", subID)
		if err := ws.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return false
		}
	}

	sent := 0
	for _, evt := range rl.events {
		if !env.Filters.Match(evt) {
			continue
		}
		if limit := env.Filters[0].Limit; limit > 0 && sent >= limit {
			break
		}

		if err := ws.WriteJSON(&nostr.EventEnvelope{SubscriptionID: &subID, Event: *evt}); err != nil {
			return false
		}
		sent++
	}

	if rl.closeAfterEvents {
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return false
	}
	if rl.noEOSE {
		return true
	}

	eose := nostr.EOSEEnvelope(subID)
	if err := ws.WriteJSON(&eose); err != nil {
		return false
	}
	if rl.deafAfterEOSE {
		<-rl.stop
		return false
	}

	return true
}
