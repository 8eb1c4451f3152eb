// Package convert provides type conversion utilities.
package convert

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ToFloat64 converts various numeric types to float64.
// Returns 0 for unsupported types or parse failures.
func ToFloat64(v any) float64 {
	f, _ := ToFloat64Ok(v)
	return f
}

// ToFloat64Ok reports whether the conversion actually succeeded, so callers
// can distinguish "missing" from "legitimately zero".
func ToFloat64Ok(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(t, "%")), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Clamp 将 v 限制在 [lo, hi] 区间内。
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 等价于 Clamp(v, 0, 1)。
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
