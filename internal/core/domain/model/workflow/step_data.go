package workflow

import (
	"encoding/json"
	"strings"
	"time"
)

// StepData is the opaque payload captured when a step is completed:
// photos, signatures, timestamps, seal numbers and override flags.
type StepData map[string]any

// Clone returns a deep copy of nested maps and slices.
func (d StepData) Clone() StepData {
	if d == nil {
		return nil
	}
	out := make(StepData, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(StepData(t).Clone())
	case StepData:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// Bool reports whether key holds boolean true.
func (d StepData) Bool(key string) bool {
	b, ok := d[key].(bool)
	return ok && b
}

// Text returns the trimmed string under key. time.Time values are rendered
// as RFC 3339.
func (d StepData) Text(key string) (string, bool) {
	switch t := d[key].(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case time.Time:
		if t.IsZero() {
			return "", false
		}
		return t.Format(time.RFC3339), true
	default:
		return "", false
	}
}

// Len returns the length of a list value, -1 when key is not a list.
func (d StepData) Len(key string) int {
	switch t := d[key].(type) {
	case []any:
		return len(t)
	case []string:
		return len(t)
	default:
		return -1
	}
}

// Number returns a numeric value decoded from JSON or set in code.
func (d StepData) Number(key string) (float64, bool) {
	switch t := d[key].(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
