package relay

import (
	"context"
	"github.com/goccy/go-json"
)

type scriptDialer struct {
	conn *scriptConn
	err  error
}

func (d *scriptDialer) Dial(ctx context.Context, url string) (Conn, error) {
	if d.err != nil {
		return nil, d.err
	}

	return d.conn, nil
}

// scriptConn returns frames in order then readErr, or ErrConnClosed
type scriptConn struct {
	frames   []string
	readErr  error
	writeErr error

	written []byte
	closed  int
}

func (c *scriptConn) Read(ctx context.Context) ([]byte, error) {
	if len(c.frames) == 0 {
		if c.readErr != nil {
			return nil, c.readErr
		}
		return nil, ErrConnClosed
	}

	msg := c.frames[0]
	c.frames = c.frames[1:]

	return []byte(msg), nil
}

func (c *scriptConn) Write(ctx context.Context, v any) error {
	if c.writeErr != nil {
		return c.writeErr
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.written = b

	return nil
}

func (c *scriptConn) Close() error {
	c.closed++
	return nil
}
