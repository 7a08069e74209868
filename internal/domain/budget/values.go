package budget

import (
	"encoding/json"
	"math"
	"time"
)

type fieldKind int

const (
	kindNumber fieldKind = iota // any finite number; derived fields
	kindAmount                  // finite number >= 0
	kindCount                   // whole number >= 0
	kindPct                     // number in [0, 100]
	kindString
	kindTime // RFC 3339 string
)

// maxCount bounds whole-number fields so they always fit an int.
const maxCount = math.MaxInt32

type fieldSpec struct {
	key  string
	kind fieldKind
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// checkValue validates a single leaf. A nil value stands for a missing field
// and is always accepted.
func checkValue(field string, kind fieldKind, v any) error {
	if v == nil {
		return nil
	}
	switch kind {
	case kindString:
		if _, ok := v.(string); !ok {
			return invalid(field, "expected a string, got %T", v)
		}
		return nil
	case kindTime:
		s, ok := v.(string)
		if !ok {
			return invalid(field, "expected an RFC 3339 timestamp, got %T", v)
		}
		if s == "" {
			return nil
		}
		if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
			return invalid(field, "expected an RFC 3339 timestamp")
		}
		return nil
	}

	f, ok := numberOf(v)
	if !ok {
		return invalid(field, "expected a number, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return invalid(field, "must be a finite number")
	}
	switch kind {
	case kindAmount:
		if f < 0 {
			return invalid(field, "must be >= 0")
		}
	case kindCount:
		if f < 0 {
			return invalid(field, "must be >= 0")
		}
		if f != math.Trunc(f) {
			return invalid(field, "must be a whole number")
		}
		if f > maxCount {
			return invalid(field, "must be <= %d", maxCount)
		}
	case kindPct:
		if f < 0 || f > 100 {
			return invalid(field, "must be between 0 and 100")
		}
	}
	return nil
}

func asFloat(field string, kind fieldKind, v any) (float64, error) {
	if v == nil {
		return 0, invalid(field, "value is required")
	}
	if err := checkValue(field, kind, v); err != nil {
		return 0, err
	}
	f, _ := numberOf(v)
	return f, nil
}

func asInt(field string, v any) (int, error) {
	f, err := asFloat(field, kindCount, v)
	return int(f), err
}

func asString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid(field, "expected a string, got %T", v)
	}
	return s, nil
}
