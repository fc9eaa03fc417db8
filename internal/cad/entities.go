package cad

import "github.com/smartcad/cadlink/internal/dxf"

// Line straight segment
type Line struct {
	EntityCommon

	Start     XYZ
	End       XYZ
	Thickness float64
	Normal    XYZ
}

func NewLine() *Line {
	return &Line{EntityCommon: newEntityCommon(), Normal: ZAxis}
}

func (*Line) ObjectName() string     { return TypeLine }
func (*Line) SubclassMarker() string { return MarkerLine }

// Circle full circle
type Circle struct {
	EntityCommon

	Center    XYZ
	Radius    float64
	Thickness float64
	Normal    XYZ
}

func NewCircle() *Circle {
	return &Circle{EntityCommon: newEntityCommon(), Normal: ZAxis}
}

func (*Circle) ObjectName() string     { return TypeCircle }
func (*Circle) SubclassMarker() string { return MarkerCircle }

// Point single location
type Point struct {
	EntityCommon

	Location  XYZ
	Thickness float64
	Normal    XYZ
	// Rotation angle of the x axis of the ucs
	Rotation float64
}

func NewPoint() *Point {
	return &Point{EntityCommon: newEntityCommon(), Normal: ZAxis}
}

func (*Point) ObjectName() string     { return TypePoint }
func (*Point) SubclassMarker() string { return MarkerPoint }

// DimensionEntity any dimension variant
type DimensionEntity interface {
	Entity
	Dim() *Dimension
}

// Dimension data shared by every dimension variant. A bare Dimension is what the
// reader holds until a subclass marker tells which variant the record describes.
type Dimension struct {
	EntityCommon

	Version         int16
	Block           *BlockRecord
	Style           *DimensionStyle
	DefinitionPoint XYZ
	TextMiddlePoint XYZ
	InsertionPoint  XYZ
	Normal          XYZ
	Flags           int16
	AttachmentPoint int16
	LineSpacing     int16
	Measurement     float64
	Text            string
	TextRotation    float64
	HorizontalAngle float64
}

func NewDimension() *Dimension {
	return &Dimension{EntityCommon: newEntityCommon(), Normal: ZAxis}
}

func (*Dimension) ObjectName() string     { return TypeDimension }
func (*Dimension) SubclassMarker() string { return MarkerDimension }
func (d *Dimension) Dim() *Dimension      { return d }

// DimensionAligned dimension measured along the line of its two points
type DimensionAligned struct {
	Dimension

	FirstPoint      XYZ
	SecondPoint     XYZ
	ExtLineRotation float64
}

func NewDimensionAligned(base *Dimension) *DimensionAligned {
	return &DimensionAligned{Dimension: *base}
}

func (*DimensionAligned) SubclassMarker() string       { return MarkerAlignedDimension }
func (d *DimensionAligned) Aligned() *DimensionAligned { return d }

// AlignedDimension aligned dimension or a variant of it
type AlignedDimension interface {
	DimensionEntity
	Aligned() *DimensionAligned
}

// DimensionLinear aligned dimension with a fixed rotation
type DimensionLinear struct {
	DimensionAligned

	Rotation float64
}

func NewDimensionLinear(aligned *DimensionAligned) *DimensionLinear {
	return &DimensionLinear{DimensionAligned: *aligned}
}

func (*DimensionLinear) SubclassMarker() string { return MarkerRotatedDimension }

// DimensionArc arc length dimension
type DimensionArc struct {
	Dimension

	FirstPoint  XYZ
	SecondPoint XYZ
	Center      XYZ
	LeaderStart XYZ
	LeaderEnd   XYZ
	StartAngle  float64
	EndAngle    float64
	IsPartial   bool
	HasLeader   bool
	SymbolType  int16
}

func NewDimensionArc() *DimensionArc {
	return &DimensionArc{Dimension: *NewDimension()}
}

func (*DimensionArc) ObjectName() string     { return TypeArcDimension }
func (*DimensionArc) SubclassMarker() string { return MarkerArcDimension }

// BoundaryPath one loop of a hatch
type BoundaryPath struct {
	Flags int32
	// Geometry edge and polyline records kept verbatim
	Geometry []dxf.Record
	// Entities source boundary objects of an associative hatch
	Entities []Entity
}

// Hatch filled area
type Hatch struct {
	EntityCommon

	Elevation     XYZ
	Normal        XYZ
	PatternName   string
	IsSolid       bool
	IsAssociative bool
	Style         int16
	PatternType   int16
	PatternAngle  float64
	PatternScale  float64
	SeedPoints    []XYZ
	Paths         []*BoundaryPath
	// PatternData pattern line and gradient records kept verbatim
	PatternData []dxf.Record
}

func NewHatch() *Hatch {
	return &Hatch{EntityCommon: newEntityCommon(), Normal: ZAxis, PatternScale: 1}
}

func (*Hatch) ObjectName() string     { return TypeHatch }
func (*Hatch) SubclassMarker() string { return MarkerHatch }

// Block opening marker of a block definition, linked to its record
type Block struct {
	EntityCommon

	Name        string
	Flags       int16
	BasePoint   XYZ
	XrefPath    string
	Description string
}

func NewBlock() *Block {
	return &Block{EntityCommon: newEntityCommon()}
}

func (*Block) ObjectName() string     { return TypeBlock }
func (*Block) SubclassMarker() string { return MarkerBlockBegin }

// BlockEnd closing marker of a block definition
type BlockEnd struct {
	EntityCommon
}

func NewBlockEnd() *BlockEnd {
	return &BlockEnd{EntityCommon: newEntityCommon()}
}

func (*BlockEnd) ObjectName() string     { return TypeEndBlock }
func (*BlockEnd) SubclassMarker() string { return MarkerBlockEnd }

// UnknownEntity placeholder for an entity type with no decoder
type UnknownEntity struct {
	EntityCommon

	Name    string
	Class   *DxfClass
	Records []dxf.Record
}

func NewUnknownEntity(name string, class *DxfClass) *UnknownEntity {
	return &UnknownEntity{EntityCommon: newEntityCommon(), Name: name, Class: class}
}

func (u *UnknownEntity) ObjectName() string { return u.Name }
func (*UnknownEntity) SubclassMarker() string {
	return MarkerEntity
}
