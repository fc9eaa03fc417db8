package cad

import (
	"sort"

	"github.com/google/uuid"

	"github.com/smartcad/cadlink/internal/dxf"
)

// Header header variables, the typed ones plus every other variable kept raw
type Header struct {
	Version         string
	CodePage        string
	HandleSeed      Handle
	FingerprintGUID uuid.UUID
	VersionGUID     uuid.UUID

	names     []string
	variables map[string][]dxf.Record
}

// NewHeader header of a new drawing, the GUIDs stay nil until a reader or the
// builder sets them
func NewHeader() *Header {
	return &Header{
		Version:   "AC1032",
		CodePage:  "ANSI_1252",
		variables: make(map[string][]dxf.Record),
	}
}

// SetVariable keeps a raw variable, the first assignment fixes its position
func (h *Header) SetVariable(name string, recs []dxf.Record) {
	if h.variables == nil {
		h.variables = make(map[string][]dxf.Record)
	}
	if _, ok := h.variables[name]; !ok {
		h.names = append(h.names, name)
	}
	h.variables[name] = recs
}

func (h *Header) Variable(name string) ([]dxf.Record, bool) {
	v, ok := h.variables[name]
	return v, ok
}

// VariableNames raw variables in file order
func (h *Header) VariableNames() []string {
	return h.names
}

// Document linked drawing
type Document struct {
	Header  *Header
	Classes ClassCollection

	Layers          *Table[*Layer]
	DimensionStyles *Table[*DimensionStyle]
	BlockRecords    *Table[*BlockRecord]

	RootDictionary *Dictionary
	// Entities model space entities and entities with no owner, in handle order
	Entities []Entity

	objects map[Handle]Object
	handles []Handle
}

func NewDocument() *Document {
	return &Document{
		Header:  NewHeader(),
		objects: make(map[Handle]Object),
	}
}

// SetObjects replaces the object index
func (d *Document) SetObjects(objects map[Handle]Object) {
	d.objects = objects
	d.handles = d.handles[:0]
	for h := range objects {
		d.handles = append(d.handles, h)
	}
	sort.Slice(d.handles, func(i, j int) bool { return d.handles[i] < d.handles[j] })
}

// Object by handle
func (d *Document) Object(h Handle) (Object, bool) {
	o, ok := d.objects[h]
	return o, ok
}

// Handles every object handle, ascending
func (d *Document) Handles() []Handle {
	return d.handles
}

func (d *Document) Len() int {
	return len(d.objects)
}

// ModelSpace model space block record, nil when the document has none
func (d *Document) ModelSpace() *BlockRecord {
	if d.BlockRecords == nil {
		return nil
	}
	b, _ := d.BlockRecords.Get(ModelSpaceName)
	return b
}
