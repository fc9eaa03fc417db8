package templates

import "github.com/smartcad/cadlink/internal/cad"

// EntityTemplate entity with its layer, by handle or by name
type EntityTemplate struct {
	ObjectTemplate

	LayerHandle cad.Handle
	LayerName   string
}

func NewEntityTemplate(e cad.Entity) *EntityTemplate {
	return &EntityTemplate{ObjectTemplate: ObjectTemplate{obj: e}}
}

// EntityRefs layer references, promoted to every entity template
func (t *EntityTemplate) EntityRefs() *EntityTemplate {
	return t
}

func (t *EntityTemplate) Build(r Resolver) {
	t.ObjectTemplate.Build(r)
	if l, ok := TryGetEntry[*cad.Layer](r, t.LayerHandle, cad.TypeLayer, t.LayerName); ok {
		t.obj.(cad.Entity).Common().Layer = l
	}
}

// DimensionTemplate dimension with its style and block
type DimensionTemplate struct {
	EntityTemplate

	StyleHandle cad.Handle
	StyleName   string
	BlockHandle cad.Handle
	BlockName   string
}

func NewDimensionTemplate(d cad.DimensionEntity) *DimensionTemplate {
	return &DimensionTemplate{EntityTemplate: EntityTemplate{ObjectTemplate: ObjectTemplate{obj: d}}}
}

// Dimension current target
func (t *DimensionTemplate) Dimension() cad.DimensionEntity {
	return t.obj.(cad.DimensionEntity)
}

func (t *DimensionTemplate) Build(r Resolver) {
	t.EntityTemplate.Build(r)
	d := t.Dimension().Dim()
	if s, ok := TryGetEntry[*cad.DimensionStyle](r, t.StyleHandle, cad.TypeDimStyle, t.StyleName); ok {
		d.Style = s
	}
	if b, ok := TryGetEntry[*cad.BlockRecord](r, t.BlockHandle, cad.TypeBlockRecord, t.BlockName); ok {
		d.Block = b
	}
}

// BoundaryPathTemplate one hatch loop and the handles of its source objects
type BoundaryPathTemplate struct {
	Path    *cad.BoundaryPath
	Handles []cad.Handle
}

// HatchTemplate hatch with its boundary paths
type HatchTemplate struct {
	EntityTemplate

	Paths []*BoundaryPathTemplate
}

func NewHatchTemplate(h *cad.Hatch) *HatchTemplate {
	return &HatchTemplate{EntityTemplate: EntityTemplate{ObjectTemplate: ObjectTemplate{obj: h}}}
}

// AddPath starts a new loop
func (t *HatchTemplate) AddPath(flags int32) *BoundaryPathTemplate {
	p := &BoundaryPathTemplate{Path: &cad.BoundaryPath{Flags: flags}}
	t.Paths = append(t.Paths, p)
	return p
}

func (t *HatchTemplate) Build(r Resolver) {
	t.EntityTemplate.Build(r)
	h := t.obj.(*cad.Hatch)
	h.Paths = h.Paths[:0]
	for _, p := range t.Paths {
		for _, handle := range p.Handles {
			if e, ok := TryGet[cad.Entity](r, handle); ok {
				p.Path.Entities = append(p.Path.Entities, e)
			}
		}
		h.Paths = append(h.Paths, p.Path)
	}
}
