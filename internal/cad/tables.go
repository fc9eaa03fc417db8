package cad

import "strings"

// TableEntry named record of a symbol table
type TableEntry interface {
	Object
	EntryName() string
}

// EntryBase data common to every table entry
type EntryBase struct {
	ObjectBase

	Name  string
	Flags int16
}

func (e *EntryBase) EntryName() string {
	return e.Name
}

// EntryAdder owner accepting table entries
type EntryAdder interface {
	AddEntry(TableEntry) bool
}

// Table symbol table holding entries of one kind, names are case insensitive
type Table[T TableEntry] struct {
	ObjectBase

	Name    string
	entries []T
	byName  map[string]T
}

func NewTable[T TableEntry](name string) *Table[T] {
	return &Table[T]{Name: name, byName: make(map[string]T)}
}

func (*Table[T]) ObjectName() string     { return TypeTable }
func (*Table[T]) SubclassMarker() string { return MarkerSymbolTable }

// AddEntry adds an entry of the table kind, false for any other kind.
// An entry with an already known name replaces the previous one in the name index.
func (t *Table[T]) AddEntry(e TableEntry) bool {
	entry, ok := e.(T)
	if !ok {
		return false
	}
	t.entries = append(t.entries, entry)
	t.byName[strings.ToUpper(entry.EntryName())] = entry
	entry.Base().Owner = t
	return true
}

// Get entry by name
func (t *Table[T]) Get(name string) (T, bool) {
	e, ok := t.byName[strings.ToUpper(name)]
	return e, ok
}

// Entries in insertion order
func (t *Table[T]) Entries() []T {
	return t.entries
}

func (t *Table[T]) Len() int {
	return len(t.entries)
}

// Layer layer table entry
type Layer struct {
	EntryBase

	Color        int16
	LinetypeName string
	IsPlottable  bool
	LineWeight   int16
	TrueColor    int32
	PlotStyle    Object
}

func NewLayer(name string) *Layer {
	return &Layer{EntryBase: EntryBase{Name: name}, Color: 7, LinetypeName: "Continuous", IsPlottable: true, LineWeight: -3}
}

func (*Layer) ObjectName() string     { return TypeLayer }
func (*Layer) SubclassMarker() string { return MarkerLayer }

// DimensionStyle dimension style table entry, only the common variables are kept
type DimensionStyle struct {
	EntryBase

	Scale         float64
	ArrowSize     float64
	ExtLineOffset float64
	TextHeight    float64
	TextGap       float64
	Precision     int16
	PostFix       string
}

func NewDimensionStyle(name string) *DimensionStyle {
	return &DimensionStyle{
		EntryBase:     EntryBase{Name: name},
		Scale:         1,
		ArrowSize:     0.18,
		ExtLineOffset: 0.0625,
		TextHeight:    0.18,
		TextGap:       0.09,
		Precision:     4,
	}
}

func (*DimensionStyle) ObjectName() string     { return TypeDimStyle }
func (*DimensionStyle) SubclassMarker() string { return MarkerDimStyle }

// BlockRecord block table entry owning the entities of a block or a space
type BlockRecord struct {
	EntryBase

	Units        int16
	IsExplodable bool
	CanScale     bool
	Layout       *Layout
	Entities     []Entity
	SortEntities *SortEntitiesTable
	Begin        *Block
	End          *BlockEnd
}

func NewBlockRecord(name string) *BlockRecord {
	return &BlockRecord{EntryBase: EntryBase{Name: name}, IsExplodable: true, CanScale: true}
}

func (*BlockRecord) ObjectName() string     { return TypeBlockRecord }
func (*BlockRecord) SubclassMarker() string { return MarkerBlockRecord }

// IsModelSpace reports the model space record
func (b *BlockRecord) IsModelSpace() bool {
	return strings.EqualFold(b.Name, ModelSpaceName)
}

// AddEntity appends an owned entity
func (b *BlockRecord) AddEntity(e Entity) {
	b.Entities = append(b.Entities, e)
	e.Base().Owner = b
}
