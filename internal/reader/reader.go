// Package reader decodes DXF documents section by section.
//
// Every object read becomes a template queued in a builder. References between objects
// stay raw handles until the whole stream is consumed, then the builder links them.
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/smartcad/cadlink/internal/builder"
	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/config"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/notify"
	"github.com/smartcad/cadlink/internal/source"
	"github.com/smartcad/cadlink/internal/streamio"
	"github.com/smartcad/cadlink/internal/templates"
)

// Section names
const (
	SectionHeader   = "HEADER"
	SectionClasses  = "CLASSES"
	SectionTables   = "TABLES"
	SectionBlocks   = "BLOCKS"
	SectionEntities = "ENTITIES"
	SectionObjects  = "OBJECTS"
)

var ErrPanic = errors.New("decoder panic")

// DecodeError failure while decoding one object
type DecodeError struct {
	Section  string
	Position int64
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("reader: %s section at %d: %v", e.Section, e.Position, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DxfReader reads one document from a text or binary DXF stream.
//
// IMPORTANT: a DxfReader is used once, from a single goroutine
type DxfReader struct {
	r     dxf.Reader
	cfg   config.Config
	notes *notify.Chain
	b     *builder.Builder
	doc   *cad.Document
	sugar *zap.SugaredLogger
}

func NewDxfReader(src io.Reader, cfg config.Config, notes *notify.Chain, logger *zap.Logger) (*DxfReader, error) {
	const msg = "NewDxfReader:"
	r, err := dxf.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	if notes == nil {
		notes = notify.NewChain()
	}
	enc, _ := streamio.CodePage(cad.NewHeader().CodePage)
	r.SetEncoding(enc)

	b := builder.New(cfg, notes, logger)
	return &DxfReader{
		r:     r,
		cfg:   cfg,
		notes: notes,
		b:     b,
		doc:   b.Document(),
		sugar: logger.Sugar(),
	}, nil
}

// ReadFile reads a drawing file, compressed copies included
func ReadFile(ctx context.Context, path string, cfg config.Config, notes *notify.Chain, logger *zap.Logger) (*cad.Document, error) {
	const msg = "ReadFile:"
	rc, c, err := source.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	defer rc.Close()
	logger.Sugar().Debugw(msg, "path", path, "compression", c)

	r, err := NewDxfReader(rc, cfg, notes, logger)
	if err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	return r.Read(ctx)
}

// Read decodes every section then links the objects
func (d *DxfReader) Read(ctx context.Context) (*cad.Document, error) {
	const msg = "Read:"
	if err := d.readSections(ctx); err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	doc, err := d.b.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s %w", msg, err)
	}
	d.sugar.Infow(msg, "version", doc.Header.Version, "objects", doc.Len(), "entities", len(doc.Entities))
	return doc, nil
}

func (d *DxfReader) readSections(ctx context.Context) error {
	if err := d.r.ReadNext(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.at(dxf.BeginSection) {
			if d.at(dxf.EndOfFile) {
				return nil
			}
			d.notes.Warnf(d.r.Position(), "unexpected record %s outside of a section", d.r.Record())
			if err := d.skipObject(); err != nil {
				return d.endOfStream(err)
			}
			continue
		}

		if err := d.r.ReadNext(); err != nil {
			return err
		}
		if d.r.Code() != dxf.Name {
			d.notes.Warnf(d.r.Position(), "section without name")
			continue
		}
		name := d.r.ValueAsString()
		if err := d.r.ReadNext(); err != nil {
			return err
		}
		d.sugar.Debugw("readSections:", "section", name, "position", d.r.Position())
		if err := d.readSection(ctx, name); err != nil {
			return err
		}
		if err := d.r.ReadNext(); err != nil {
			return d.endOfStream(err)
		}
	}
}

// endOfStream tolerates a stream that stops right after a section
func (d *DxfReader) endOfStream(err error) error {
	if errors.Is(err, dxf.ErrUnexpectedEnd) {
		d.notes.Warnf(d.r.Position(), "missing %s marker", dxf.EndOfFile)
		return nil
	}
	return err
}

// readSection leaves the cursor on the ENDSEC record
func (d *DxfReader) readSection(ctx context.Context, name string) error {
	switch name {
	case SectionHeader:
		return d.readHeader()
	case SectionClasses:
		return d.readObjects(ctx, name, d.readClass)
	case SectionTables:
		return d.readTables(ctx)
	case SectionBlocks, SectionEntities:
		return d.readObjects(ctx, name, d.readEntity)
	case SectionObjects:
		return d.readObjects(ctx, name, d.readObject)
	default:
		d.notes.NotImplementedf(d.r.Position(), "section %s is not supported", name)
		return d.skipUntil(dxf.EndSection)
	}
}

type decodeFunc func() (templates.Template, error)

func (d *DxfReader) readObjects(ctx context.Context, section string, decode decodeFunc) error {
	for !d.at(dxf.EndSection) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.isolated(section, decode); err != nil {
			return err
		}
	}
	return nil
}

// isolated decodes the object under the cursor. In failsafe mode a failing object
// is reported and skipped, the stream goes on from the next object.
func (d *DxfReader) isolated(section string, decode decodeFunc) error {
	pos := d.r.Position()
	if !d.r.IsStart() {
		d.notes.Warnf(pos, "unexpected record %s in %s", d.r.Record(), section)
		if err := d.resync(pos); err != nil {
			return &DecodeError{Section: section, Position: pos, Err: err}
		}
		return nil
	}

	name := d.r.ValueAsString()
	tmpl, err := protect(decode)
	if err == nil {
		if tmpl != nil {
			d.add(tmpl, pos)
		}
		return nil
	}
	if dxf.IsStreamError(err) || !d.cfg.Failsafe {
		return &DecodeError{Section: section, Position: pos, Err: err}
	}

	d.notes.Errorf(pos, err, "%s %s skipped", section, name)
	if err := d.resync(pos); err != nil {
		return &DecodeError{Section: section, Position: pos, Err: err}
	}
	return nil
}

func protect(decode decodeFunc) (t templates.Template, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return decode()
}

func (d *DxfReader) add(t templates.Template, pos int64) {
	if err := d.b.AddTemplate(t, pos); err != nil {
		obj := t.Object()
		d.notes.Warnf(pos, "%s dropped: %v", obj.ObjectName(), err)
	}
}

// resync moves to the next object start past pos, malformed values are stepped over
func (d *DxfReader) resync(pos int64) error {
	if d.r.IsStart() && d.r.Position() != pos {
		return nil
	}
	for {
		if err := d.r.ReadNext(); err != nil && dxf.IsStreamError(err) {
			return err
		}
		if d.r.IsStart() {
			return nil
		}
	}
}

// skipObject moves past the current record to the next object start
func (d *DxfReader) skipObject() error {
	return d.resync(d.r.Position())
}

// skipUntil stops on the start record with the token value
func (d *DxfReader) skipUntil(token string) error {
	for !d.at(token) {
		if err := d.skipObject(); err != nil {
			return err
		}
	}
	return nil
}

// at reports a start record with the token value
func (d *DxfReader) at(token string) bool {
	return d.r.IsStart() && d.r.ValueAsString() == token
}
