package relay

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/saveblush/reraw-search/core/config"
)

const (
	defaultMessageLengthLimit = 1024 * 1024 * 0.5
	defaultHandshakeTimeout   = 15 * time.Second
)

var (
	ErrConnClosed = errors.New("error: connection closed by relay")
)

// Conn one open socket to a relay
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, v any) error
	Close() error
}

// Dialer opens sockets to relays
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WSDialer websocket dialer
type WSDialer struct {
	HandshakeTimeout   time.Duration
	MessageLengthLimit int64
	HTTPClient         *http.Client
}

// NewWSDialer new websocket dialer from config
func NewWSDialer() *WSDialer {
	d := &WSDialer{
		HandshakeTimeout:   defaultHandshakeTimeout,
		MessageLengthLimit: config.CF().Query.MaxMessageLength,
	}
	if d.MessageLengthLimit <= 0 {
		d.MessageLengthLimit = int64(defaultMessageLengthLimit)
	}

	return d
}

// Dial dial relay, ctx bounds the handshake only
func (d *WSDialer) Dial(ctx context.Context, url string) (Conn, error) {
	if d.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.HandshakeTimeout)
		defer cancel()
	}

	ws, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient: d.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	if d.MessageLengthLimit > 0 {
		ws.SetReadLimit(d.MessageLengthLimit)
	}

	return &wsConn{conn: ws}, nil
}

type wsConn struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// Read next text frame, a cancelled ctx closes the socket
func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, msg, err := c.conn.Read(ctx)
	if err != nil {
		if websocket.CloseStatus(err) != -1 {
			return nil, ErrConnClosed
		}
		return nil, err
	}

	return msg, nil
}

func (c *wsConn) Write(ctx context.Context, v any) error {
	return wsjson.Write(ctx, c.conn, v)
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close(websocket.StatusNormalClosure, "")
	})

	return c.closeErr
}
