package notify

import (
	"errors"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.Logger
)

func getTestLogger() *zap.Logger {
	once.Do(func() {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			log.Fatal(err)
		}
	})

	return logger
}

func TestChain_order(t *testing.T) {
	var trace []string
	step := func(name string) MiddlewareFunc {
		return func(next Handler) Handler {
			return HandlerFunc(func(n Notification) {
				trace = append(trace, name)
				next.Notify(n)
			})
		}
	}

	c := NewChain(step("a"), step("b"))
	c.Attach(step("c"))
	c.Warnf(3, "code %d", 7)

	require.Equal(t, []string{"a", "b", "c"}, trace)
}

func TestCollector(t *testing.T) {
	col := NewCollector()
	c := NewChain(Logger(getTestLogger()), col.Middleware)

	boom := errors.New("boom")
	c.Warnf(1, "unhandled code %d", 999)
	c.Errorf(2, boom, "object failed")
	c.NotImplementedf(-1, "type %s", "MESH")

	require.Equal(t, 3, col.Len())
	errs := col.Of(Error)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0].Err, boom)
	require.EqualValues(t, 2, errs[0].Position)
	require.Equal(t, "[error] object failed at 2: boom", errs[0].String())
	require.Equal(t, "[not-implemented] type MESH", col.Of(NotImplemented)[0].String())

	col.Reset()
	require.Zero(t, col.Len())
}

func TestChain_concurrent(t *testing.T) {
	col := NewCollector()
	c := NewChain(col.Middleware)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Warnf(int64(j), "w")
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 800, col.Len())
}

func TestChain_nil(t *testing.T) {
	var c *Chain
	require.NotPanics(t, func() { c.Warnf(0, "dropped") })
	require.NotPanics(t, func() { NewChain().Warnf(0, "dropped") })
}
