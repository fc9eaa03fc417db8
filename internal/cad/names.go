package cad

// Record type names
const (
	TypeLine                     = "LINE"
	TypeCircle                   = "CIRCLE"
	TypePoint                    = "POINT"
	TypeDimension                = "DIMENSION"
	TypeArcDimension             = "ARC_DIMENSION"
	TypeHatch                    = "HATCH"
	TypeBlock                    = "BLOCK"
	TypeEndBlock                 = "ENDBLK"
	TypeTable                    = "TABLE"
	TypeLayer                    = "LAYER"
	TypeDimStyle                 = "DIMSTYLE"
	TypeBlockRecord              = "BLOCK_RECORD"
	TypeDictionary               = "DICTIONARY"
	TypeDictionaryWithDefault    = "ACDBDICTIONARYWDFLT"
	TypeDictionaryVar            = "DICTIONARYVAR"
	TypeLayout                   = "LAYOUT"
	TypeScale                    = "SCALE"
	TypeVisualStyle              = "VISUALSTYLE"
	TypeXRecord                  = "XRECORD"
	TypeSortEntsTable            = "SORTENTSTABLE"
	TypeDimAssoc                 = "DIMASSOC"
	TypeBookColor                = "DBCOLOR"
	TypeBlockVisibilityParameter = "BLOCKVISIBILITYPARAMETER"
)

// Subclass markers
const (
	MarkerObject                   = "AcDbObject"
	MarkerEntity                   = "AcDbEntity"
	MarkerLine                     = "AcDbLine"
	MarkerCircle                   = "AcDbCircle"
	MarkerPoint                    = "AcDbPoint"
	MarkerDimension                = "AcDbDimension"
	MarkerAlignedDimension         = "AcDbAlignedDimension"
	MarkerRotatedDimension         = "AcDbRotatedDimension"
	MarkerArcDimension             = "AcDbArcDimension"
	MarkerHatch                    = "AcDbHatch"
	MarkerBlockBegin               = "AcDbBlockBegin"
	MarkerBlockEnd                 = "AcDbBlockEnd"
	MarkerSymbolTable              = "AcDbSymbolTable"
	MarkerSymbolTableRecord        = "AcDbSymbolTableRecord"
	MarkerLayer                    = "AcDbLayerTableRecord"
	MarkerDimStyle                 = "AcDbDimStyleTableRecord"
	MarkerBlockRecord              = "AcDbBlockTableRecord"
	MarkerDictionary               = "AcDbDictionary"
	MarkerDictionaryWithDefault    = "AcDbDictionaryWithDefault"
	MarkerDictionaryVar            = "DictionaryVariables"
	MarkerPlotSettings             = "AcDbPlotSettings"
	MarkerLayout                   = "AcDbLayout"
	MarkerScale                    = "AcDbScale"
	MarkerVisualStyle              = "AcDbVisualStyle"
	MarkerXRecord                  = "AcDbXrecord"
	MarkerSortEntsTable            = "AcDbSortentsTable"
	MarkerDimAssoc                 = "AcDbDimAssoc"
	MarkerOsnapPointRef            = "AcDbOsnapPointRef"
	MarkerBookColor                = "AcDbColor"
	MarkerEvalExpr                 = "AcDbEvalExpr"
	MarkerBlockElement             = "AcDbBlockElement"
	MarkerBlockParameter           = "AcDbBlockParameter"
	MarkerBlock1PtParameter        = "AcDbBlock1PtParameter"
	MarkerBlockVisibilityParameter = "AcDbBlockVisibilityParameter"
)

// Defaults
const (
	DefaultLayerName        = "0"
	ModelSpaceName          = "*Model_Space"
	PaperSpaceName          = "*Paper_Space"
	ColorByLayer      int16 = 256
	LineWeightByLayer int16 = -1
)
