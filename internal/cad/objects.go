package cad

import (
	"github.com/smartcad/cadlink/internal/dxf"
)

// DictionaryEntry named reference held by a dictionary
type DictionaryEntry struct {
	Name   string
	Object Object
}

// Dictionary named object container
type Dictionary struct {
	ObjectBase

	IsHardOwner bool
	Cloning     int16
	entries     []DictionaryEntry
	index       map[string]int
}

func NewDictionary() *Dictionary {
	return &Dictionary{Cloning: 1, index: make(map[string]int)}
}

func (*Dictionary) ObjectName() string     { return TypeDictionary }
func (*Dictionary) SubclassMarker() string { return MarkerDictionary }

// Add puts the entry, an existing name is replaced in place
func (d *Dictionary) Add(name string, o Object) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[name]; ok {
		d.entries[i].Object = o
		return
	}
	d.index[name] = len(d.entries)
	d.entries = append(d.entries, DictionaryEntry{Name: name, Object: o})
}

func (d *Dictionary) Get(name string) (Object, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.entries[i].Object, true
}

// Entries in insertion order
func (d *Dictionary) Entries() []DictionaryEntry {
	return d.entries
}

func (d *Dictionary) Len() int {
	return len(d.entries)
}

// DictionaryHolder objects behaving as a dictionary
type DictionaryHolder interface {
	Object
	Dict() *Dictionary
}

func (d *Dictionary) Dict() *Dictionary { return d }

// DictionaryWithDefault dictionary returning a default object for missing names
type DictionaryWithDefault struct {
	Dictionary

	Default Object
}

func NewDictionaryWithDefault() *DictionaryWithDefault {
	return &DictionaryWithDefault{Dictionary: *NewDictionary()}
}

func (*DictionaryWithDefault) ObjectName() string     { return TypeDictionaryWithDefault }
func (*DictionaryWithDefault) SubclassMarker() string { return MarkerDictionaryWithDefault }

// Lookup entry by name or the default
func (d *DictionaryWithDefault) Lookup(name string) Object {
	if o, ok := d.Get(name); ok {
		return o
	}
	return d.Default
}

// DictionaryVariable named string variable
type DictionaryVariable struct {
	ObjectBase

	SchemaNumber int16
	Value        string
}

func (*DictionaryVariable) ObjectName() string     { return TypeDictionaryVar }
func (*DictionaryVariable) SubclassMarker() string { return MarkerDictionaryVar }

// XRecord arbitrary record list
type XRecord struct {
	ObjectBase

	Cloning int16
	Entries []dxf.Record
}

func (*XRecord) ObjectName() string     { return TypeXRecord }
func (*XRecord) SubclassMarker() string { return MarkerXRecord }

// Layout paper or model layout with its plot settings
type Layout struct {
	ObjectBase

	PageName       string
	PrinterName    string
	PaperSize      string
	PlotFlags      int16
	PaperUnits     int16
	PaperRotation  int16
	PaperWidth     float64
	PaperHeight    float64
	Name           string
	Flags          int16
	TabOrder       int16
	MinLimits      XYZ
	MaxLimits      XYZ
	InsertionBase  XYZ
	MinExtents     XYZ
	MaxExtents     XYZ
	Elevation      float64
	BlockRecord    *BlockRecord
	ActiveViewport Object
}

func (*Layout) ObjectName() string     { return TypeLayout }
func (*Layout) SubclassMarker() string { return MarkerLayout }

// Scale annotation scale
type Scale struct {
	ObjectBase

	Name         string
	PaperUnits   float64
	DrawingUnits float64
	IsUnitScale  bool
	ClassVersion int16
}

func (*Scale) ObjectName() string     { return TypeScale }
func (*Scale) SubclassMarker() string { return MarkerScale }

// VisualStyle named visual style, only identity data is kept
type VisualStyle struct {
	ObjectBase

	Description string
	Type        int16
}

func (*VisualStyle) ObjectName() string     { return TypeVisualStyle }
func (*VisualStyle) SubclassMarker() string { return MarkerVisualStyle }

// Sorter draw order of one entity
type Sorter struct {
	Entity     Entity
	SortHandle Handle
}

// SortEntitiesTable draw order overrides for a block
type SortEntitiesTable struct {
	ObjectBase

	BlockOwner *BlockRecord
	Sorters    []Sorter
}

func (*SortEntitiesTable) ObjectName() string     { return TypeSortEntsTable }
func (*SortEntitiesTable) SubclassMarker() string { return MarkerSortEntsTable }

// OsnapPointRef object snap reference of an associative dimension
type OsnapPointRef struct {
	SnapType        int16
	Geometry        Entity
	SubentType      int16
	GsMarker        int32
	IntersectObject Entity
	Parameter       float64
	Point           XYZ
	HasLastPointRef bool
}

// DimensionAssociativity links a dimension to the geometry it measures
type DimensionAssociativity struct {
	ObjectBase

	Dimension       DimensionEntity
	AssociativeFlag int32
	IsTransSpace    bool
	RotatedType     int16
	PointRefs       []*OsnapPointRef
}

func (*DimensionAssociativity) ObjectName() string     { return TypeDimAssoc }
func (*DimensionAssociativity) SubclassMarker() string { return MarkerDimAssoc }

// BookColor named color from a color book
type BookColor struct {
	ObjectBase

	Color     int16
	TrueColor int32
	BookName  string
	ColorName string
}

func (*BookColor) ObjectName() string     { return TypeBookColor }
func (*BookColor) SubclassMarker() string { return MarkerBookColor }

// SubBlock named entity set of a visibility state
type SubBlock struct {
	Name     string
	Entities []Entity
}

// BlockVisibilityParameter dynamic block visibility states
type BlockVisibilityParameter struct {
	ObjectBase

	EvalID         int32
	ElementName    string
	BasePoint      XYZ
	Name           string
	Description    string
	ShowProperties bool
	Entities       []Entity
	SubBlocks      []*SubBlock
}

func (*BlockVisibilityParameter) ObjectName() string     { return TypeBlockVisibilityParameter }
func (*BlockVisibilityParameter) SubclassMarker() string { return MarkerBlockVisibilityParameter }

// UnknownObject placeholder for an object type with no decoder
type UnknownObject struct {
	ObjectBase

	Name  string
	Class *DxfClass
	// Records type specific records kept verbatim
	Records []dxf.Record
}

func (u *UnknownObject) ObjectName() string { return u.Name }
func (*UnknownObject) SubclassMarker() string {
	return MarkerObject
}
