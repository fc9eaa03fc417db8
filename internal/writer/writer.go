// Package writer encodes a linked document back to DXF text or binary.
//
// Scalar fields come from the schema maps, references are written as the handles of
// the linked objects. Reading the output gives back the same object graph.
package writer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/reader"
	"github.com/smartcad/cadlink/internal/source"
	"github.com/smartcad/cadlink/internal/streamio"
)

// Format record encoding of the output
type Format uint8

const (
	Text Format = iota
	Binary
)

var ErrUnknownFormat = errors.New("unknown format")

func (f Format) String() string {
	if f == Binary {
		return "binary"
	}
	return "text"
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "text", "ascii":
		return Text, nil
	case "binary", "bin":
		return Binary, nil
	}
	return Text, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

const classRecord = "CLASS"

// unicodeVersion first version storing text as UTF-8
const unicodeVersion = "AC1021"

// DxfWriter writes one document.
//
// IMPORTANT: the first failing record stops the writer, every later record is dropped
// and Write returns that error
type DxfWriter struct {
	w       dxf.Writer
	doc     *cad.Document
	written map[cad.Handle]bool
	err     error
	sugar   *zap.SugaredLogger
}

func NewDxfWriter(dst io.Writer, format Format, logger *zap.Logger) *DxfWriter {
	var w dxf.Writer = dxf.NewTextWriter(dst)
	if format == Binary {
		w = dxf.NewBinaryWriter(dst)
	}
	return &DxfWriter{w: w, sugar: logger.Sugar()}
}

// WriteFile writes doc to path, compressed when the suffix names a container
func WriteFile(ctx context.Context, path string, doc *cad.Document, format Format, logger *zap.Logger) (err error) {
	const msg = "WriteFile:"
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s %w", msg, cerr)
		}
	}()

	c := source.FromPath(path)
	wc, err := source.NewWriter(f, c)
	if err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	logger.Sugar().Debugw(msg, "path", path, "format", format, "compression", c)
	if err := NewDxfWriter(wc, format, logger).Write(ctx, doc); err != nil {
		return errors.Join(fmt.Errorf("%s %w", msg, err), wc.Close())
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	return nil
}

// Write encodes every section of doc and flushes the output
func (w *DxfWriter) Write(ctx context.Context, doc *cad.Document) error {
	const msg = "Write:"
	w.doc = doc
	w.written = make(map[cad.Handle]bool, doc.Len())
	w.w.SetEncoding(encodingOf(doc.Header))

	sections := []struct {
		name  string
		write func(context.Context) error
	}{
		{reader.SectionHeader, w.writeHeader},
		{reader.SectionClasses, w.writeClasses},
		{reader.SectionTables, w.writeTables},
		{reader.SectionBlocks, w.writeBlocks},
		{reader.SectionEntities, w.writeEntities},
		{reader.SectionObjects, w.writeObjects},
	}
	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s %w", msg, err)
		}
		w.put(dxf.Start, dxf.BeginSection)
		w.put(dxf.Name, s.name)
		if err := s.write(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", msg, s.name, err)
		}
		w.put(dxf.Start, dxf.EndSection)
	}
	w.put(dxf.Start, dxf.EndOfFile)
	if w.err != nil {
		return fmt.Errorf("%s %w", msg, w.err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	w.sugar.Infow(msg, "version", doc.Header.Version, "objects", len(w.written))
	return nil
}

// encodingOf drawings before AC1021 store text in their code page
func encodingOf(h *cad.Header) encoding.Encoding {
	if h.Version >= unicodeVersion {
		return nil
	}
	enc, _ := streamio.CodePage(h.CodePage)
	return enc
}

func (w *DxfWriter) put(code dxf.Code, value any) {
	if w.err != nil {
		return
	}
	if err := w.w.Write(code, value); err != nil {
		w.err = fmt.Errorf("code %d: %w", code, err)
	}
}

func (w *DxfWriter) putAll(recs []dxf.Record) {
	for _, r := range recs {
		w.put(r.Code, r.Value)
	}
}

func (w *DxfWriter) writeHeader(context.Context) error {
	h := w.doc.Header
	variable := func(name string, code dxf.Code, value any) {
		w.put(dxf.VariableName, name)
		w.put(code, value)
	}
	variable(reader.VarVersion, dxf.Text, h.Version)
	variable(reader.VarCodePage, 3, h.CodePage)
	variable(reader.VarHandleSeed, dxf.Handle, uint64(h.HandleSeed))
	if h.FingerprintGUID != uuid.Nil {
		variable(reader.VarFingerprintGUID, dxf.Name, guid(h.FingerprintGUID.String()))
	}
	if h.VersionGUID != uuid.Nil {
		variable(reader.VarVersionGUID, dxf.Name, guid(h.VersionGUID.String()))
	}
	for _, name := range h.VariableNames() {
		recs, _ := h.Variable(name)
		w.put(dxf.VariableName, name)
		w.putAll(recs)
	}
	return w.err
}

func guid(s string) string {
	return "{" + strings.ToUpper(s) + "}"
}

func (w *DxfWriter) writeClasses(context.Context) error {
	for _, c := range w.doc.Classes.List() {
		w.put(dxf.Start, classRecord)
		w.put(1, c.DxfName)
		w.put(2, c.CppClassName)
		w.put(3, c.ApplicationName)
		w.put(90, c.ProxyFlags)
		w.put(91, c.InstanceCount)
		w.put(280, c.WasZombie)
		w.put(281, c.IsEntity)
	}
	return w.err
}

func (w *DxfWriter) writeTables(context.Context) error {
	doc := w.doc
	if doc.Layers != nil {
		writeTable(w, doc.Layers)
	}
	if doc.DimensionStyles != nil {
		writeTable(w, doc.DimensionStyles)
	}
	if doc.BlockRecords != nil {
		writeTable(w, doc.BlockRecords)
	}
	return w.err
}

// writeTable the table header, its entries and the closing record
func writeTable[T cad.TableEntry](w *DxfWriter, t *cad.Table[T]) {
	w.put(dxf.Start, dxf.BeginTable)
	w.put(dxf.Name, t.Name)
	w.putAll(encodeHead(t))
	w.put(dxf.Subclass, cad.MarkerSymbolTable)
	w.put(70, int16(t.Len()))
	if t.Name == cad.TypeDimStyle {
		w.put(dxf.Subclass, markerDimStyleTable)
		w.put(71, int16(t.Len()))
		for _, e := range t.Entries() {
			w.put(340, uint64(e.Handle()))
		}
	}
	w.written[t.Handle()] = true

	for _, e := range t.Entries() {
		w.writeObject(e)
	}
	w.put(dxf.Start, dxf.EndTable)
}

const markerDimStyleTable = "AcDbDimStyleTable"

// writeBlocks every block definition, model space keeps its entities in ENTITIES
func (w *DxfWriter) writeBlocks(ctx context.Context) error {
	if w.doc.BlockRecords == nil {
		return w.err
	}
	for _, br := range w.doc.BlockRecords.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if br.Begin != nil {
			w.writeObject(br.Begin)
		}
		if !br.IsModelSpace() {
			for _, e := range br.Entities {
				w.writeObject(e)
			}
		}
		if br.End != nil {
			w.writeObject(br.End)
		}
	}
	return w.err
}

// writeEntities every entity not written as part of a block, in handle order
func (w *DxfWriter) writeEntities(ctx context.Context) error {
	for _, h := range w.doc.Handles() {
		if err := ctx.Err(); err != nil {
			return err
		}
		obj, _ := w.doc.Object(h)
		if e, ok := obj.(cad.Entity); ok && !w.written[h] {
			w.writeObject(e)
		}
	}
	return w.err
}

// writeObjects the root dictionary first, then the remaining objects in handle order.
// Table entries outside the document tables cannot be written.
func (w *DxfWriter) writeObjects(ctx context.Context) error {
	if root := w.doc.RootDictionary; root != nil {
		w.writeObject(root)
	}
	var skipped int
	for _, h := range w.doc.Handles() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.written[h] {
			continue
		}
		obj, _ := w.doc.Object(h)
		if _, ok := obj.(cad.TableEntry); ok || obj.ObjectName() == cad.TypeTable {
			skipped++
			continue
		}
		w.writeObject(obj)
	}
	if skipped > 0 {
		w.sugar.Warnw("writeObjects: table objects outside the document tables skipped", "count", skipped)
	}
	return w.err
}

func (w *DxfWriter) writeObject(obj cad.Object) {
	w.put(dxf.Start, obj.ObjectName())
	w.putAll(encode(obj))
	w.written[obj.Handle()] = true
}
