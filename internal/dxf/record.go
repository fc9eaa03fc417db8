package dxf

import (
	"fmt"
	"strconv"
	"strings"
)

// Record one (code, value) pair. Value holds string, float64, int16, int32, int64,
// bool, uint64 (handles) or []byte (chunks).
type Record struct {
	Code  Code
	Value any
}

// R shorthand constructor
func R(code Code, value any) Record {
	return Record{Code: code, Value: value}
}

func (r Record) String() string {
	return fmt.Sprintf("%d=%v", r.Code, r.Value)
}

// Type value type of the record code
func (r Record) Type() ValueType {
	return ClassifyCode(r.Code)
}

// AsString value formatted as text
func (r Record) AsString() string {
	switch v := r.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case uint64:
		return strings.ToUpper(strconv.FormatUint(v, 16))
	case []byte:
		return strings.ToUpper(fmt.Sprintf("%x", v))
	default:
		return fmt.Sprint(v)
	}
}

// AsHandle value as handle, 0 when the value is not a handle
func (r Record) AsHandle() uint64 {
	switch v := r.Value.(type) {
	case uint64:
		return v
	case string:
		h, err := strconv.ParseUint(strings.TrimSpace(v), 16, 64)
		if err != nil {
			return 0
		}
		return h
	default:
		return uint64(r.AsLong())
	}
}

func (r Record) AsDouble() float64 {
	switch v := r.Value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (r Record) AsLong() int64 {
	switch v := r.Value.(type) {
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case uint64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func (r Record) AsInt() int32 {
	return int32(r.AsLong())
}

func (r Record) AsShort() int16 {
	return int16(r.AsLong())
}

func (r Record) AsBool() bool {
	if b, ok := r.Value.(bool); ok {
		return b
	}
	return r.AsLong() != 0
}

func (r Record) AsBytes() []byte {
	switch v := r.Value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}
