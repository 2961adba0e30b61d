package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/saveblush/reraw-search/relay"
)

func eventFrame(id string, createdAt int64, content string) string {
	return fmt.Sprintf(`["EVENT","{sub}",{"id":%q,"pubkey":"aa","created_at":%d,"kind":1,"tags":[],"content":%q}]`, id, createdAt, content)
}

const eoseFrame = `["EOSE","{sub}"]`

// fakeRelay scripted relay: frames in order, then hang until
// cancelled, fail with readErr or close
type fakeRelay struct {
	frames  []string
	delay   time.Duration
	hang    bool
	readErr error
	dialErr error

	closed atomic.Bool
}

type fakeDialer struct {
	mu     sync.Mutex
	relays map[string]*fakeRelay
	dials  atomic.Int32
}

func newFakeDialer(relays map[string]*fakeRelay) *fakeDialer {
	return &fakeDialer{relays: relays}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (relay.Conn, error) {
	d.dials.Add(1)

	d.mu.Lock()
	r, ok := d.relays[url]
	d.mu.Unlock()
	if !ok {
		return nil, errors.New("dial: unknown host")
	}
	if r.dialErr != nil {
		return nil, r.dialErr
	}

	return &fakeConn{relay: r, frames: append([]string(nil), r.frames...)}, nil
}

type fakeConn struct {
	relay  *fakeRelay
	frames []string
	subID  string
}

func (c *fakeConn) Write(ctx context.Context, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.subID = gjson.GetBytes(b, "1").Str

	return nil
}

func (c *fakeConn) Read(ctx context.Context) ([]byte, error) {
	if len(c.frames) > 0 {
		if c.relay.delay > 0 {
			select {
			case <-time.After(c.relay.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		frame := strings.ReplaceAll(c.frames[0], "{sub}", c.subID)
		c.frames = c.frames[1:]

		return []byte(frame), nil
	}

	switch {
	case c.relay.hang:
		<-ctx.Done()
		return nil, ctx.Err()
	case c.relay.readErr != nil:
		return nil, c.relay.readErr
	}

	return nil, relay.ErrConnClosed
}

func (c *fakeConn) Close() error {
	c.relay.closed.Store(true)
	return nil
}
