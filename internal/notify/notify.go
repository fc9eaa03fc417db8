// Package notify advisory notification channel of the decoder.
//
// Notifications pass through a chain of middlewares; none of them may change how the
// decode proceeds.
package notify

import (
	"fmt"
	"sync"
)

// Type notification severity
type Type int

const (
	None Type = iota
	Warning
	Error
	NotImplemented
)

func (t Type) String() string {
	switch t {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case NotImplemented:
		return "not-implemented"
	default:
		return "none"
	}
}

// Notification one anomaly, Position is the stream position or -1 when unknown
type Notification struct {
	Type     Type
	Message  string
	Err      error
	Position int64
}

func (n Notification) String() string {
	s := fmt.Sprintf("[%s] %s", n.Type, n.Message)
	if n.Position >= 0 {
		s += fmt.Sprintf(" at %d", n.Position)
	}
	if n.Err != nil {
		s += ": " + n.Err.Error()
	}
	return s
}

// Handler notification receiver
type Handler interface {
	Notify(Notification)
}

// The HandlerFunc type is an adapter to allow the use of
// ordinary functions as handlers.
type HandlerFunc func(Notification)

// Notify calls f(n).
func (f HandlerFunc) Notify(n Notification) {
	f(n)
}

// MiddlewareFunc is a function which receives a Handler and returns another Handler
type MiddlewareFunc func(Handler) Handler

// middlewarer interface is anything which implements a MiddlewareFunc named Middleware
type middlewarer interface {
	Middleware(Handler) Handler
}

// Middleware allows MiddlewareFunc to implement the middlewarer interface
func (mw MiddlewareFunc) Middleware(h Handler) Handler {
	return mw(h)
}

var discard = HandlerFunc(func(Notification) {})

// Chain chain of responsibility delivering notifications, safe for concurrent use
type Chain struct {
	mu          sync.RWMutex
	middlewares []middlewarer
	h           Handler
}

func NewChain(mwf ...MiddlewareFunc) *Chain {
	c := &Chain{h: discard}
	return c.Attach(mwf...)
}

// Attach appends middlewares to the chain
func (c *Chain) Attach(mwf ...MiddlewareFunc) *Chain {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, fn := range mwf {
		c.middlewares = append(c.middlewares, fn)
	}

	var h Handler = discard
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i].Middleware(h)
	}
	c.h = h
	return c
}

// Notify delivers n, a nil chain drops it
func (c *Chain) Notify(n Notification) {
	if c == nil {
		return
	}
	c.mu.RLock()
	h := c.h
	c.mu.RUnlock()
	if h == nil {
		return
	}
	h.Notify(n)
}

func (c *Chain) Warnf(pos int64, format string, args ...any) {
	c.Notify(Notification{Type: Warning, Message: fmt.Sprintf(format, args...), Position: pos})
}

func (c *Chain) Errorf(pos int64, err error, format string, args ...any) {
	c.Notify(Notification{Type: Error, Message: fmt.Sprintf(format, args...), Err: err, Position: pos})
}

func (c *Chain) NotImplementedf(pos int64, format string, args ...any) {
	c.Notify(Notification{Type: NotImplemented, Message: fmt.Sprintf(format, args...), Position: pos})
}
