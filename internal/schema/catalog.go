package schema

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/smartcad/cadlink/internal/cad"
)

// Catalog maps built once on first use
type Catalog struct {
	m        sync.Map
	sfg      singleflight.Group
	builders map[string]func() *Map
}

func NewCatalog(builders map[string]func() *Map) *Catalog {
	return &Catalog{builders: builders}
}

// Lookup map of the type name
func (c *Catalog) Lookup(name string) (*Map, error) {
	if m, ok := c.m.Load(name); ok {
		return m.(*Map), nil
	}
	res, err, _ := c.sfg.Do(name, func() (interface{}, error) {
		if m, ok := c.m.Load(name); ok {
			return m, nil
		}
		build, ok := c.builders[name]
		if !ok {
			return nil, ErrUnknownMap
		}
		m := build()
		c.m.Store(name, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Map), nil
}

// Names every type with a map
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.builders))
	for n := range c.builders {
		names = append(names, n)
	}
	return names
}

var std = NewCatalog(map[string]func() *Map{
	cad.TypeLine:                     lineMap,
	cad.TypeCircle:                   circleMap,
	cad.TypePoint:                    pointMap,
	cad.TypeDimension:                dimensionMap,
	cad.TypeArcDimension:             arcDimensionMap,
	cad.TypeHatch:                    hatchMap,
	cad.TypeBlock:                    blockMap,
	cad.TypeEndBlock:                 endBlockMap,
	cad.TypeLayer:                    layerMap,
	cad.TypeDimStyle:                 dimStyleMap,
	cad.TypeBlockRecord:              blockRecordMap,
	cad.TypeDictionary:               dictionaryMap,
	cad.TypeDictionaryWithDefault:    dictionaryWithDefaultMap,
	cad.TypeDictionaryVar:            dictionaryVarMap,
	cad.TypeLayout:                   layoutMap,
	cad.TypeScale:                    scaleMap,
	cad.TypeVisualStyle:              visualStyleMap,
	cad.TypeXRecord:                  xrecordMap,
	cad.TypeSortEntsTable:            sortEntsMap,
	cad.TypeDimAssoc:                 dimAssocMap,
	cad.TypeBookColor:                bookColorMap,
	cad.TypeBlockVisibilityParameter: blockVisibilityMap,
})

// Lookup map of the type name in the standard catalog
func Lookup(name string) (*Map, error) {
	return std.Lookup(name)
}

// Default standard catalog
func Default() *Catalog {
	return std
}

func objectSub() *SubClass {
	return Sub(cad.MarkerObject)
}

func entitySub() *SubClass {
	return Sub(cad.MarkerEntity,
		String(6, "LinetypeName", func(e cad.Entity) *string { return &e.Common().LinetypeName }),
		Int16(62, "Color", func(e cad.Entity) *int16 { return &e.Common().Color }),
		Int16(370, "LineWeight", func(e cad.Entity) *int16 { return &e.Common().LineWeight }),
		Double(48, "LinetypeScale", func(e cad.Entity) *float64 { return &e.Common().LinetypeScale }),
		Bool(60, "Invisible", func(e cad.Entity) *bool { return &e.Common().Invisible }),
		Int32(440, "Transparency", func(e cad.Entity) *int32 { return &e.Common().Transparency }),
		Bool(67, "PaperSpace", func(e cad.Entity) *bool { return &e.Common().PaperSpace }),
	)
}

func lineMap() *Map {
	return NewMap(cad.TypeLine, objectSub(), entitySub(),
		Sub(cad.MarkerLine,
			Double(39, "Thickness", func(l *cad.Line) *float64 { return &l.Thickness }),
			Point(10, "Start", func(l *cad.Line) *cad.XYZ { return &l.Start }),
			Point(11, "End", func(l *cad.Line) *cad.XYZ { return &l.End }),
			Point(210, "Normal", func(l *cad.Line) *cad.XYZ { return &l.Normal }),
		))
}

func circleMap() *Map {
	return NewMap(cad.TypeCircle, objectSub(), entitySub(),
		Sub(cad.MarkerCircle,
			Double(39, "Thickness", func(c *cad.Circle) *float64 { return &c.Thickness }),
			Point(10, "Center", func(c *cad.Circle) *cad.XYZ { return &c.Center }),
			Double(40, "Radius", func(c *cad.Circle) *float64 { return &c.Radius }),
			Point(210, "Normal", func(c *cad.Circle) *cad.XYZ { return &c.Normal }),
		))
}

func pointMap() *Map {
	return NewMap(cad.TypePoint, objectSub(), entitySub(),
		Sub(cad.MarkerPoint,
			Point(10, "Location", func(p *cad.Point) *cad.XYZ { return &p.Location }),
			Double(39, "Thickness", func(p *cad.Point) *float64 { return &p.Thickness }),
			Point(210, "Normal", func(p *cad.Point) *cad.XYZ { return &p.Normal }),
			Double(50, "Rotation", func(p *cad.Point) *float64 { return &p.Rotation }),
		))
}

func dimensionSub() *SubClass {
	dim := func(d cad.DimensionEntity) *cad.Dimension { return d.Dim() }
	return Sub(cad.MarkerDimension,
		Int16(280, "Version", func(d cad.DimensionEntity) *int16 { return &dim(d).Version }),
		Point(10, "DefinitionPoint", func(d cad.DimensionEntity) *cad.XYZ { return &dim(d).DefinitionPoint }),
		Point(11, "TextMiddlePoint", func(d cad.DimensionEntity) *cad.XYZ { return &dim(d).TextMiddlePoint }),
		Point(12, "InsertionPoint", func(d cad.DimensionEntity) *cad.XYZ { return &dim(d).InsertionPoint }),
		Int16(70, "Flags", func(d cad.DimensionEntity) *int16 { return &dim(d).Flags }),
		Int16(71, "AttachmentPoint", func(d cad.DimensionEntity) *int16 { return &dim(d).AttachmentPoint }),
		Int16(72, "LineSpacing", func(d cad.DimensionEntity) *int16 { return &dim(d).LineSpacing }),
		Double(42, "Measurement", func(d cad.DimensionEntity) *float64 { return &dim(d).Measurement }),
		String(1, "Text", func(d cad.DimensionEntity) *string { return &dim(d).Text }),
		Double(53, "TextRotation", func(d cad.DimensionEntity) *float64 { return &dim(d).TextRotation }),
		Double(51, "HorizontalAngle", func(d cad.DimensionEntity) *float64 { return &dim(d).HorizontalAngle }),
		Point(210, "Normal", func(d cad.DimensionEntity) *cad.XYZ { return &dim(d).Normal }),
	)
}

func dimensionMap() *Map {
	return NewMap(cad.TypeDimension, objectSub(), entitySub(), dimensionSub(),
		Sub(cad.MarkerAlignedDimension,
			Point(13, "FirstPoint", func(d cad.AlignedDimension) *cad.XYZ { return &d.Aligned().FirstPoint }),
			Point(14, "SecondPoint", func(d cad.AlignedDimension) *cad.XYZ { return &d.Aligned().SecondPoint }),
			Double(52, "ExtLineRotation", func(d cad.AlignedDimension) *float64 { return &d.Aligned().ExtLineRotation }),
		),
		Sub(cad.MarkerRotatedDimension,
			Double(50, "Rotation", func(d *cad.DimensionLinear) *float64 { return &d.Rotation }),
		))
}

func arcDimensionMap() *Map {
	return NewMap(cad.TypeArcDimension, objectSub(), entitySub(), dimensionSub(),
		Sub(cad.MarkerArcDimension,
			Point(13, "FirstPoint", func(d *cad.DimensionArc) *cad.XYZ { return &d.FirstPoint }),
			Point(14, "SecondPoint", func(d *cad.DimensionArc) *cad.XYZ { return &d.SecondPoint }),
			Point(15, "Center", func(d *cad.DimensionArc) *cad.XYZ { return &d.Center }),
			Point(16, "LeaderStart", func(d *cad.DimensionArc) *cad.XYZ { return &d.LeaderStart }),
			Point(17, "LeaderEnd", func(d *cad.DimensionArc) *cad.XYZ { return &d.LeaderEnd }),
			Double(40, "StartAngle", func(d *cad.DimensionArc) *float64 { return &d.StartAngle }),
			Double(41, "EndAngle", func(d *cad.DimensionArc) *float64 { return &d.EndAngle }),
			Bool(70, "IsPartial", func(d *cad.DimensionArc) *bool { return &d.IsPartial }),
			Bool(71, "HasLeader", func(d *cad.DimensionArc) *bool { return &d.HasLeader }),
			Int16(72, "SymbolType", func(d *cad.DimensionArc) *int16 { return &d.SymbolType }),
		))
}

func hatchMap() *Map {
	return NewMap(cad.TypeHatch, objectSub(), entitySub(),
		Sub(cad.MarkerHatch,
			Point(10, "Elevation", func(h *cad.Hatch) *cad.XYZ { return &h.Elevation }),
			Point(210, "Normal", func(h *cad.Hatch) *cad.XYZ { return &h.Normal }),
			String(2, "PatternName", func(h *cad.Hatch) *string { return &h.PatternName }),
			Bool(70, "IsSolid", func(h *cad.Hatch) *bool { return &h.IsSolid }),
			Bool(71, "IsAssociative", func(h *cad.Hatch) *bool { return &h.IsAssociative }),
			Int16(75, "Style", func(h *cad.Hatch) *int16 { return &h.Style }),
			Int16(76, "PatternType", func(h *cad.Hatch) *int16 { return &h.PatternType }),
			Double(52, "PatternAngle", func(h *cad.Hatch) *float64 { return &h.PatternAngle }),
			Double(41, "PatternScale", func(h *cad.Hatch) *float64 { return &h.PatternScale }),
		))
}

func blockMap() *Map {
	return NewMap(cad.TypeBlock, objectSub(), entitySub(),
		Sub(cad.MarkerBlockBegin,
			String(2, "Name", func(b *cad.Block) *string { return &b.Name }),
			Int16(70, "Flags", func(b *cad.Block) *int16 { return &b.Flags }),
			Point(10, "BasePoint", func(b *cad.Block) *cad.XYZ { return &b.BasePoint }),
			String(1, "XrefPath", func(b *cad.Block) *string { return &b.XrefPath }),
			String(4, "Description", func(b *cad.Block) *string { return &b.Description }),
		))
}

func endBlockMap() *Map {
	return NewMap(cad.TypeEndBlock, objectSub(), entitySub(), Sub(cad.MarkerBlockEnd))
}

func entrySub() *SubClass {
	return Sub(cad.MarkerSymbolTableRecord)
}

func layerMap() *Map {
	return NewMap(cad.TypeLayer, objectSub(), entrySub(),
		Sub(cad.MarkerLayer,
			String(2, "Name", func(l *cad.Layer) *string { return &l.Name }),
			Int16(70, "Flags", func(l *cad.Layer) *int16 { return &l.Flags }),
			Int16(62, "Color", func(l *cad.Layer) *int16 { return &l.Color }),
			String(6, "LinetypeName", func(l *cad.Layer) *string { return &l.LinetypeName }),
			Bool(290, "IsPlottable", func(l *cad.Layer) *bool { return &l.IsPlottable }),
			Int16(370, "LineWeight", func(l *cad.Layer) *int16 { return &l.LineWeight }),
			Int32(420, "TrueColor", func(l *cad.Layer) *int32 { return &l.TrueColor }),
		))
}

func dimStyleMap() *Map {
	return NewMap(cad.TypeDimStyle, objectSub(), entrySub(),
		Sub(cad.MarkerDimStyle,
			String(2, "Name", func(s *cad.DimensionStyle) *string { return &s.Name }),
			Int16(70, "Flags", func(s *cad.DimensionStyle) *int16 { return &s.Flags }),
			String(3, "PostFix", func(s *cad.DimensionStyle) *string { return &s.PostFix }),
			Double(40, "Scale", func(s *cad.DimensionStyle) *float64 { return &s.Scale }),
			Double(41, "ArrowSize", func(s *cad.DimensionStyle) *float64 { return &s.ArrowSize }),
			Double(42, "ExtLineOffset", func(s *cad.DimensionStyle) *float64 { return &s.ExtLineOffset }),
			Double(140, "TextHeight", func(s *cad.DimensionStyle) *float64 { return &s.TextHeight }),
			Double(147, "TextGap", func(s *cad.DimensionStyle) *float64 { return &s.TextGap }),
			Int16(271, "Precision", func(s *cad.DimensionStyle) *int16 { return &s.Precision }),
		))
}

func blockRecordMap() *Map {
	return NewMap(cad.TypeBlockRecord, objectSub(), entrySub(),
		Sub(cad.MarkerBlockRecord,
			String(2, "Name", func(b *cad.BlockRecord) *string { return &b.Name }),
			Int16(70, "Units", func(b *cad.BlockRecord) *int16 { return &b.Units }),
			Bool(280, "IsExplodable", func(b *cad.BlockRecord) *bool { return &b.IsExplodable }),
			Bool(281, "CanScale", func(b *cad.BlockRecord) *bool { return &b.CanScale }),
		))
}

func dictionarySub() *SubClass {
	return Sub(cad.MarkerDictionary,
		Bool(280, "IsHardOwner", func(d cad.DictionaryHolder) *bool { return &d.Dict().IsHardOwner }),
		Int16(281, "Cloning", func(d cad.DictionaryHolder) *int16 { return &d.Dict().Cloning }),
	)
}

func dictionaryMap() *Map {
	return NewMap(cad.TypeDictionary, objectSub(), dictionarySub())
}

func dictionaryWithDefaultMap() *Map {
	return NewMap(cad.TypeDictionaryWithDefault, objectSub(), dictionarySub(), Sub(cad.MarkerDictionaryWithDefault))
}

func dictionaryVarMap() *Map {
	return NewMap(cad.TypeDictionaryVar, objectSub(),
		Sub(cad.MarkerDictionaryVar,
			Int16(280, "SchemaNumber", func(v *cad.DictionaryVariable) *int16 { return &v.SchemaNumber }),
			String(1, "Value", func(v *cad.DictionaryVariable) *string { return &v.Value }),
		))
}

func layoutMap() *Map {
	return NewMap(cad.TypeLayout, objectSub(),
		Sub(cad.MarkerPlotSettings,
			String(1, "PageName", func(l *cad.Layout) *string { return &l.PageName }),
			String(2, "PrinterName", func(l *cad.Layout) *string { return &l.PrinterName }),
			String(4, "PaperSize", func(l *cad.Layout) *string { return &l.PaperSize }),
			Double(44, "PaperWidth", func(l *cad.Layout) *float64 { return &l.PaperWidth }),
			Double(45, "PaperHeight", func(l *cad.Layout) *float64 { return &l.PaperHeight }),
			Int16(70, "PlotFlags", func(l *cad.Layout) *int16 { return &l.PlotFlags }),
			Int16(72, "PaperUnits", func(l *cad.Layout) *int16 { return &l.PaperUnits }),
			Int16(73, "PaperRotation", func(l *cad.Layout) *int16 { return &l.PaperRotation }),
		),
		Sub(cad.MarkerLayout,
			String(1, "Name", func(l *cad.Layout) *string { return &l.Name }),
			Int16(70, "Flags", func(l *cad.Layout) *int16 { return &l.Flags }),
			Int16(71, "TabOrder", func(l *cad.Layout) *int16 { return &l.TabOrder }),
			Point2D(10, "MinLimits", func(l *cad.Layout) *cad.XYZ { return &l.MinLimits }),
			Point2D(11, "MaxLimits", func(l *cad.Layout) *cad.XYZ { return &l.MaxLimits }),
			Point(12, "InsertionBase", func(l *cad.Layout) *cad.XYZ { return &l.InsertionBase }),
			Point(14, "MinExtents", func(l *cad.Layout) *cad.XYZ { return &l.MinExtents }),
			Point(15, "MaxExtents", func(l *cad.Layout) *cad.XYZ { return &l.MaxExtents }),
			Double(146, "Elevation", func(l *cad.Layout) *float64 { return &l.Elevation }),
		))
}

func scaleMap() *Map {
	return NewMap(cad.TypeScale, objectSub(),
		Sub(cad.MarkerScale,
			Int16(70, "ClassVersion", func(s *cad.Scale) *int16 { return &s.ClassVersion }),
			String(300, "Name", func(s *cad.Scale) *string { return &s.Name }),
			Double(140, "PaperUnits", func(s *cad.Scale) *float64 { return &s.PaperUnits }),
			Double(141, "DrawingUnits", func(s *cad.Scale) *float64 { return &s.DrawingUnits }),
			Bool(290, "IsUnitScale", func(s *cad.Scale) *bool { return &s.IsUnitScale }),
		))
}

func visualStyleMap() *Map {
	return NewMap(cad.TypeVisualStyle, objectSub(),
		Sub(cad.MarkerVisualStyle,
			String(2, "Description", func(v *cad.VisualStyle) *string { return &v.Description }),
			Int16(70, "Type", func(v *cad.VisualStyle) *int16 { return &v.Type }),
		))
}

func xrecordMap() *Map {
	return NewMap(cad.TypeXRecord, objectSub(),
		Sub(cad.MarkerXRecord,
			Int16(280, "Cloning", func(x *cad.XRecord) *int16 { return &x.Cloning }),
		))
}

func sortEntsMap() *Map {
	return NewMap(cad.TypeSortEntsTable, objectSub(), Sub(cad.MarkerSortEntsTable))
}

func dimAssocMap() *Map {
	return NewMap(cad.TypeDimAssoc, objectSub(),
		Sub(cad.MarkerDimAssoc,
			Int32(90, "AssociativeFlag", func(d *cad.DimensionAssociativity) *int32 { return &d.AssociativeFlag }),
			Bool(70, "IsTransSpace", func(d *cad.DimensionAssociativity) *bool { return &d.IsTransSpace }),
			Int16(71, "RotatedType", func(d *cad.DimensionAssociativity) *int16 { return &d.RotatedType }),
		))
}

func bookColorMap() *Map {
	return NewMap(cad.TypeBookColor, objectSub(),
		Sub(cad.MarkerBookColor,
			Int16(62, "Color", func(c *cad.BookColor) *int16 { return &c.Color }),
			Int32(420, "TrueColor", func(c *cad.BookColor) *int32 { return &c.TrueColor }),
		))
}

func blockVisibilityMap() *Map {
	type param = *cad.BlockVisibilityParameter
	return NewMap(cad.TypeBlockVisibilityParameter, objectSub(),
		Sub(cad.MarkerEvalExpr,
			Int32(90, "EvalID", func(p param) *int32 { return &p.EvalID }),
		),
		Sub(cad.MarkerBlockElement,
			String(300, "ElementName", func(p param) *string { return &p.ElementName }),
		),
		Sub(cad.MarkerBlockParameter,
			Bool(280, "ShowProperties", func(p param) *bool { return &p.ShowProperties }),
		),
		Sub(cad.MarkerBlock1PtParameter,
			Point(1010, "BasePoint", func(p param) *cad.XYZ { return &p.BasePoint }),
		),
		Sub(cad.MarkerBlockVisibilityParameter,
			String(301, "Name", func(p param) *string { return &p.Name }),
			String(302, "Description", func(p param) *string { return &p.Description }),
		))
}
