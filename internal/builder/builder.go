// Package builder links decoded templates into a document.
//
// Templates are added as soon as their local decode finished. Build seals the registry,
// resolves every template, possibly in parallel, then attaches children to their owners
// in ascending handle order.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/config"
	"github.com/smartcad/cadlink/internal/notify"
	"github.com/smartcad/cadlink/internal/registry"
	"github.com/smartcad/cadlink/internal/templates"
)

var ErrBuilt = errors.New("document already built")

// Builder owns the registry and the template queue of one document
type Builder struct {
	cfg       config.Config
	reg       *registry.Registry
	notes     *notify.Chain
	doc       *cad.Document
	queue     []templates.Template
	entries   map[string]cad.TableEntry
	built     bool
	sugar     *zap.SugaredLogger
	positions map[cad.Handle]int64
}

func New(cfg config.Config, notes *notify.Chain, logger *zap.Logger) *Builder {
	return &Builder{
		cfg:       cfg,
		reg:       registry.New(logger),
		notes:     notes,
		doc:       cad.NewDocument(),
		sugar:     logger.Sugar(),
		positions: make(map[cad.Handle]int64),
	}
}

// Document under construction, the readers fill its header and classes
func (b *Builder) Document() *cad.Document {
	return b.doc
}

func (b *Builder) Registry() *registry.Registry {
	return b.reg
}

// Len queued templates
func (b *Builder) Len() int {
	return len(b.queue)
}

// AddTemplate registers the template object and queues the template. pos is the
// stream position of the object, kept for notifications.
func (b *Builder) AddTemplate(t templates.Template, pos int64) error {
	const msg = "AddTemplate:"
	obj := t.Object()
	replaced, err := b.reg.Register(obj)
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	if replaced {
		b.notes.Warnf(pos, "duplicate handle %s, %s replaces the previous object", obj.Handle(), obj.ObjectName())
		for i, q := range b.queue {
			if q.Object().Handle() == obj.Handle() {
				b.queue = append(b.queue[:i], b.queue[i+1:]...)
				break
			}
		}
	}
	b.positions[obj.Handle()] = pos
	b.queue = append(b.queue, t)
	b.sugar.Debugw(msg, "handle", obj.Handle(), "type", obj.ObjectName())
	return nil
}

// Lookup implements templates.Resolver
func (b *Builder) Lookup(h cad.Handle) (cad.Object, bool) {
	return b.reg.Lookup(h)
}

// LookupEntry implements templates.Resolver
func (b *Builder) LookupEntry(typeName, name string) (cad.TableEntry, bool) {
	e, ok := b.entries[entryKey(typeName, name)]
	return e, ok
}

// Unresolved implements templates.Resolver, reported in strict mode only
func (b *Builder) Unresolved(ref, expected string, found cad.Object) {
	if !b.cfg.StrictReferences {
		return
	}
	if found != nil {
		b.notes.Warnf(-1, "reference %s resolves to %s, expected %s", ref, found.ObjectName(), expected)
		return
	}
	b.notes.Warnf(-1, "reference %s not found, expected %s", ref, expected)
}

func entryKey(typeName, name string) string {
	return typeName + "\x00" + strings.ToUpper(name)
}

// Build resolves every template and returns the linked document
func (b *Builder) Build(ctx context.Context) (*cad.Document, error) {
	const msg = "Build:"
	if b.built {
		return nil, ErrBuilt
	}
	b.built = true
	b.reg.Seal()
	b.indexEntries()

	if err := b.resolve(ctx); err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	b.queue = nil

	if err := b.link(); err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	b.sugar.Debugw(msg, "objects", b.doc.Len(), "entities", len(b.doc.Entities))
	return b.doc, nil
}

// indexEntries table entries by type and name, the lowest handle wins
func (b *Builder) indexEntries() {
	b.entries = make(map[string]cad.TableEntry)
	it, err := b.reg.Iterator()
	if err != nil {
		return
	}
	for it.Next() {
		e, ok := it.Object().(cad.TableEntry)
		if !ok {
			continue
		}
		key := entryKey(e.ObjectName(), e.EntryName())
		if _, ok := b.entries[key]; !ok {
			b.entries[key] = e
		}
	}
}

func (b *Builder) resolve(ctx context.Context) error {
	if b.cfg.Workers <= 1 {
		for _, t := range b.queue {
			if err := ctx.Err(); err != nil {
				return err
			}
			b.buildOne(t)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for _, t := range b.queue {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b.buildOne(t)
			return nil
		})
	}
	return g.Wait()
}

// buildOne runs one template, a panic only loses the links of that object
func (b *Builder) buildOne(t templates.Template) {
	defer func() {
		if r := recover(); r != nil {
			obj := t.Object()
			b.notes.Errorf(b.positions[obj.Handle()], fmt.Errorf("%v", r),
				"resolving %s %s failed", obj.ObjectName(), obj.Handle())
		}
	}()
	t.Build(b)
}
