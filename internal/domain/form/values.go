package form

import (
	"strconv"
	"strings"
)

// ValueRecord maps field keys to entered values. Value shape depends on the
// field kind: string, float64, bool, or []string. Records accumulate across
// wizard steps; merging only adds or overwrites keys, never clears others.
type ValueRecord map[string]any

// Clone returns a shallow copy of the record.
func (r ValueRecord) Clone() ValueRecord {
	out := make(ValueRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge copies every key of other into r, overwriting on conflict.
// POST: keys absent from other are untouched
func (r ValueRecord) Merge(other ValueRecord) {
	for k, v := range other {
		r[k] = v
	}
}

// IsEmptyValue reports whether a value counts as "not filled in" for the
// required check: nil, empty/whitespace string, false, or an empty slice.
// Zero numbers are NOT empty; 0 is a legitimate numeric answer.
func IsEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return !t
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// ParseSubmitted converts raw urlencoded values into the typed value a field
// collects. Multi-value fields keep every submitted value, checkbox toggles
// become booleans, number fields parse to float64 (falling back to the raw
// string when unparseable so validation can still report on it).
func ParseSubmitted(f Field, raw []string) any {
	if f.IsMultiValue() {
		vals := make([]string, 0, len(raw))
		for _, v := range raw {
			if strings.TrimSpace(v) != "" {
				vals = append(vals, v)
			}
		}
		return vals
	}
	if len(raw) == 0 {
		if f.Kind == FieldKindCheckbox {
			return false
		}
		return ""
	}
	v := raw[0]
	switch f.Kind {
	case FieldKindCheckbox:
		return v == "on" || v == "true" || v == "1"
	case FieldKindNumber:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n
		}
		return v
	}
	return v
}

// numericValue extracts a float64 from the shapes a number answer can take.
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n, err == nil
	}
	return 0, false
}

// stringValue extracts the string form of a scalar answer.
func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}
