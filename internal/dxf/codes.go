// Package dxf tagged (code, value) record streams in text and binary form.
//
// The value type of every record is derived from its group code alone, see ClassifyCode.
package dxf

import "fmt"

// Code group code
type Code int

const (
	Start             Code = 0
	Text              Code = 1
	Name              Code = 2
	Handle            Code = 5
	VariableName      Code = 9
	XCoordinate       Code = 10
	YCoordinate       Code = 20
	ZCoordinate       Code = 30
	Subclass          Code = 100
	ControlString     Code = 102
	DimStyleHandle    Code = 105
	SoftPointer       Code = 330
	HardOwner         Code = 360
	Comment           Code = 999
	ExtendedDataStart Code = 1001
)

// Tokens used as record values
const (
	BeginSection   = "SECTION"
	EndSection     = "ENDSEC"
	EndOfFile      = "EOF"
	BeginTable     = "TABLE"
	EndTable       = "ENDTAB"
	BeginBlock     = "BLOCK"
	EndBlock       = "ENDBLK"
	XDictionary    = "{ACAD_XDICTIONARY"
	Reactors       = "{ACAD_REACTORS"
	GroupEnd       = "}"
	BinarySentinel = "AutoCAD Binary DXF\r\n\x1a\x00"
)

// ValueType value class of a group code
type ValueType byte

const (
	None ValueType = iota
	String
	Point
	Double
	Int16
	Int32
	Int64
	Bool
	HandleValue
	Chunk
	CommentValue
)

func (v ValueType) String() string {
	switch v {
	case String:
		return "string"
	case Point:
		return "point"
	case Double:
		return "double"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	case HandleValue:
		return "handle"
	case Chunk:
		return "chunk"
	case CommentValue:
		return "comment"
	default:
		return "none"
	}
}

// ClassifyCode returns the value type of code from its numeric range.
func ClassifyCode(code Code) ValueType {
	switch {
	case code == Handle, code == DimStyleHandle:
		return HandleValue
	case code >= 0 && code <= 9:
		return String
	case code >= 10 && code <= 39:
		return Point
	case code >= 40 && code <= 59:
		return Double
	case code >= 60 && code <= 79:
		return Int16
	case code >= 90 && code <= 99:
		return Int32
	case code >= 100 && code <= 102:
		return String
	case code >= 110 && code <= 139:
		return Point
	case code >= 140 && code <= 149:
		return Double
	case code >= 160 && code <= 169:
		return Int64
	case code >= 170 && code <= 179:
		return Int16
	case code >= 210 && code <= 239:
		return Point
	case code >= 270 && code <= 289:
		return Int16
	case code >= 290 && code <= 299:
		return Bool
	case code >= 300 && code <= 309:
		return String
	case code >= 310 && code <= 319:
		return Chunk
	case code >= 320 && code <= 369:
		return HandleValue
	case code >= 370 && code <= 389:
		return Int16
	case code >= 390 && code <= 399:
		return HandleValue
	case code >= 400 && code <= 409:
		return Int16
	case code >= 410 && code <= 419:
		return String
	case code >= 420 && code <= 429:
		return Int32
	case code >= 430 && code <= 439:
		return String
	case code >= 440 && code <= 459:
		return Int32
	case code >= 460 && code <= 469:
		return Double
	case code >= 470 && code <= 479:
		return String
	case code == 480, code == 481:
		return HandleValue
	case code == Comment:
		return CommentValue
	case code >= 1000 && code <= 1003:
		return String
	case code == 1004:
		return Chunk
	case code == 1005:
		return HandleValue
	case code >= 1006 && code <= 1009:
		return String
	case code >= 1010 && code <= 1059:
		return Double
	case code >= 1060 && code <= 1070:
		return Int16
	case code == 1071:
		return Int32
	default:
		return None
	}
}

// IsPointX reports whether code is the X component of a point, Y and Z follow at +10 and +20.
func IsPointX(code Code) bool {
	return (code >= 10 && code <= 18) || (code >= 110 && code <= 112) ||
		code == 210 || (code >= 1010 && code <= 1013)
}

func (c Code) String() string {
	return fmt.Sprintf("%d", int(c))
}
