package statsapi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one provider row keyed by column name.
type Record map[string]interface{}

// Float returns the numeric value of key, or 0 when it is missing or not numeric.
func (r Record) Float(key string) float64 {
	v, _ := r.LookupFloat(key)
	return v
}

func (r Record) LookupFloat(key string) (float64, bool) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Int truncates the numeric value of key toward zero.
func (r Record) Int(key string) int64 {
	v, _ := r.LookupInt(key)
	return v
}

func (r Record) LookupInt(key string) (int64, bool) {
	if n, ok := r[key].(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := r.LookupFloat(key)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// String renders the value of key as text; numbers keep their shortest form.
func (r Record) String(key string) string {
	v, _ := r.LookupString(key)
	return v
}

func (r Record) LookupString(key string) (string, bool) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}
