// Package registry handle to object arena of one document.
//
// Objects are registered during the decode pass. After Seal the registry is read only
// and safe for concurrent lookups.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/smartcad/cadlink/internal/cad"
)

var (
	ErrSealed     = errors.New("registry is sealed")
	ErrZeroHandle = errors.New("handle 0 can not be registered")
	ErrNotSealed  = errors.New("registry is not sealed")
)

// Registry ordered handle index
type Registry struct {
	mu     sync.RWMutex
	tree   handleTree
	sealed atomic.Bool

	sugar *zap.SugaredLogger
}

func New(logger *zap.Logger) *Registry {
	return &Registry{sugar: logger.Sugar()}
}

// Register adds obj under its handle. A known handle is replaced and reported
// through replaced.
func (r *Registry) Register(obj cad.Object) (replaced bool, err error) {
	const msg = "Register:"
	h := obj.Handle()
	if h == 0 {
		return false, fmt.Errorf("%s %s: %w", msg, obj.ObjectName(), ErrZeroHandle)
	}
	if r.sealed.Load() {
		return false, fmt.Errorf("%s %s: %w", msg, h, ErrSealed)
	}

	r.mu.Lock()
	old, replaced := r.tree.put(h, obj)
	r.mu.Unlock()

	if replaced {
		r.sugar.Debugw(msg, "handle", h, "old", old.ObjectName(), "new", obj.ObjectName())
	}
	return replaced, nil
}

// Lookup object by handle
func (r *Registry) Lookup(h cad.Handle) (cad.Object, bool) {
	if h == 0 {
		return nil, false
	}
	if !r.sealed.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	n := r.tree.get(h)
	if n == nil {
		return nil, false
	}
	return n.obj, true
}

// Seal turns the registry read only
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.size
}

// Handles every handle, ascending
func (r *Registry) Handles() []cad.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]cad.Handle, 0, r.tree.size)
	it := r.iterator()
	for it.Next() {
		res = append(res, it.Handle())
	}
	return res
}

// Objects index of every object
func (r *Registry) Objects() map[cad.Handle]cad.Object {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make(map[cad.Handle]cad.Object, r.tree.size)
	it := r.iterator()
	for it.Next() {
		res[it.Handle()] = it.Object()
	}
	return res
}

// MaxHandle highest registered handle, 0 when empty
func (r *Registry) MaxHandle() cad.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it := r.iterator()
	if !it.Last() {
		return 0
	}
	return it.Handle()
}

// Iterator over a sealed registry, handle order
func (r *Registry) Iterator() (Iterator, error) {
	if !r.sealed.Load() {
		return Iterator{}, fmt.Errorf("Iterator: %w", ErrNotSealed)
	}
	return r.iterator(), nil
}

func (r *Registry) iterator() Iterator {
	return Iterator{tree: &r.tree, pos: begin}
}

func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.String()
}
