package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Logger writes every notification to the logger and passes it on
func Logger(logger *zap.Logger) MiddlewareFunc {
	sugar := logger.Sugar()
	return func(next Handler) Handler {
		return HandlerFunc(func(n Notification) {
			kv := []any{"position", n.Position}
			if n.Err != nil {
				kv = append(kv, "err", n.Err)
			}
			switch n.Type {
			case Error:
				sugar.Errorw(n.Message, kv...)
			case Warning:
				sugar.Warnw(n.Message, kv...)
			case NotImplemented:
				sugar.Infow(n.Message, kv...)
			default:
				sugar.Debugw(n.Message, kv...)
			}
			next.Notify(n)
		})
	}
}

// Collector keeps every notification
type Collector struct {
	mu   sync.Mutex
	list []Notification
}

func NewCollector() *Collector {
	return &Collector{}
}

// Middleware records n and passes it on
func (c *Collector) Middleware(next Handler) Handler {
	return HandlerFunc(func(n Notification) {
		c.mu.Lock()
		c.list = append(c.list, n)
		c.mu.Unlock()
		next.Notify(n)
	})
}

// All copy of the notifications in arrival order
func (c *Collector) All() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.list...)
}

// Of notifications of one type
func (c *Collector) Of(t Type) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res []Notification
	for _, n := range c.list {
		if n.Type == t {
			res = append(res, n)
		}
	}
	return res
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.list)
}

func (c *Collector) Reset() {
	c.mu.Lock()
	c.list = nil
	c.mu.Unlock()
}
