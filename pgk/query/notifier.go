package query

import (
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
)

const notifierBuffer = 256

// notifier hands progress to the caller callback on its own goroutine,
// progress is dropped when the callback falls behind
type notifier struct {
	ch chan *models.Progress
}

func newNotifier(fn models.ProgressFunc) *notifier {
	n := &notifier{}
	if fn == nil {
		return n
	}

	n.ch = make(chan *models.Progress, notifierBuffer)
	go func() {
		for p := range n.ch {
			fn(p)
		}
	}()

	return n
}

func (n *notifier) send(p *models.Progress) {
	if n.ch == nil {
		return
	}

	select {
	case n.ch <- p:
	default:
		logger.Log.Debugf("[query] progress dropped: %s %s", p.Type, p.Endpoint)
	}
}

func (n *notifier) close() {
	if n.ch != nil {
		close(n.ch)
	}
}
