package registry

import (
	"log"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcad/cadlink/internal/cad"
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

func newLine(h cad.Handle) *cad.Line {
	l := cad.NewLine()
	l.SetHandle(h)
	return l
}

// blackHeight checks the red-black properties below n
func blackHeight(t *testing.T, n *node) int {
	if n == nil {
		return 1
	}
	if n.color == red {
		require.Equal(t, black, colorOf(n.left), "red node %s with red child", n.handle)
		require.Equal(t, black, colorOf(n.right), "red node %s with red child", n.handle)
	}
	if n.left != nil {
		require.Less(t, n.left.handle, n.handle)
		require.Same(t, n, n.left.parent)
	}
	if n.right != nil {
		require.Greater(t, n.right.handle, n.handle)
		require.Same(t, n, n.right.parent)
	}
	l, r := blackHeight(t, n.left), blackHeight(t, n.right)
	require.Equal(t, l, r, "black height differs at %s", n.handle)
	if n.color == black {
		return l + 1
	}
	return l
}

func Test_handleTree_put(t *testing.T) {
	sugar := getTestLogger().Sugar()

	tree := handleTree{}
	rnd := rand.New(rand.NewSource(7))
	want := map[cad.Handle]bool{}
	for i := 0; i < 500; i++ {
		h := cad.Handle(rnd.Intn(2000) + 1)
		_, replaced := tree.put(h, newLine(h))
		require.Equal(t, want[h], replaced)
		want[h] = true
	}

	require.Equal(t, black, colorOf(tree.root))
	blackHeight(t, tree.root)
	require.Equal(t, len(want), tree.size)

	small := handleTree{}
	for h := cad.Handle(1); h <= 6; h++ {
		small.put(h, newLine(h))
	}
	sugar.Debugln(small.String())
	require.Equal(t, cad.Handle(1), small.leftmost().handle)
	require.Equal(t, cad.Handle(6), small.rightmost().handle)
	require.Nil(t, small.get(8))
}

func TestIterator(t *testing.T) {
	tree := handleTree{}
	handles := []cad.Handle{0x1F, 0x2, 0xA0, 0x10, 0x3}
	for _, h := range handles {
		tree.put(h, newLine(h))
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	it := Iterator{tree: &tree}
	var got []cad.Handle
	for it.Next() {
		got = append(got, it.Handle())
	}
	require.Equal(t, handles, got)
	require.False(t, it.Next())

	got = got[:0]
	it.End()
	for it.Prev() {
		got = append(got, it.Handle())
	}
	require.Equal(t, []cad.Handle{0xA0, 0x1F, 0x10, 0x3, 0x2}, got)

	require.True(t, it.First())
	require.Equal(t, cad.Handle(0x2), it.Handle())
	require.True(t, it.Last())
	require.Equal(t, cad.Handle(0xA0), it.Handle())
	require.Equal(t, cad.TypeLine, it.Object().ObjectName())

	empty := Iterator{tree: &handleTree{}}
	require.False(t, empty.Next())
	require.False(t, empty.Last())
}

func TestRegistry_Register(t *testing.T) {
	r := New(getTestLogger())

	replaced, err := r.Register(newLine(0x20))
	require.NoError(t, err)
	require.False(t, replaced)

	second := newLine(0x20)
	replaced, err = r.Register(second)
	require.NoError(t, err)
	require.True(t, replaced)

	got, ok := r.Lookup(0x20)
	require.True(t, ok)
	require.Same(t, second, got)

	_, err = r.Register(newLine(0))
	require.ErrorIs(t, err, ErrZeroHandle)

	_, ok = r.Lookup(0)
	require.False(t, ok)
	_, ok = r.Lookup(0x21)
	require.False(t, ok)

	_, err = r.Iterator()
	require.ErrorIs(t, err, ErrNotSealed)

	r.Seal()
	require.True(t, r.Sealed())
	_, err = r.Register(newLine(0x30))
	require.ErrorIs(t, err, ErrSealed)
	require.Equal(t, 1, r.Len())
}

func TestRegistry_sealedLookups(t *testing.T) {
	r := New(getTestLogger())
	for h := cad.Handle(1); h <= 256; h++ {
		_, err := r.Register(newLine(h))
		require.NoError(t, err)
	}
	r.Seal()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := cad.Handle(1); h <= 256; h++ {
				o, ok := r.Lookup(h)
				if !ok || o.Handle() != h {
					t.Errorf("lookup %s", h)
				}
			}
		}()
	}
	wg.Wait()

	handles := r.Handles()
	require.Len(t, handles, 256)
	require.True(t, sort.SliceIsSorted(handles, func(i, j int) bool { return handles[i] < handles[j] }))
	require.Equal(t, cad.Handle(256), r.MaxHandle())
	require.Len(t, r.Objects(), 256)

	it, err := r.Iterator()
	require.NoError(t, err)
	require.True(t, it.First())
	require.Equal(t, cad.Handle(1), it.Handle())
}
