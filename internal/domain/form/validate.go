package form

import (
	"fmt"
	"regexp"
	"strconv"
)

// ValidationErrors maps field keys to their single error message. A field
// reports at most one violation (first rule that fails wins) and errors are
// independent across fields; there are no cross-field rules.
type ValidationErrors map[string]string

// HasErrors reports whether any field failed validation.
func (e ValidationErrors) HasErrors() bool { return len(e) > 0 }

// ValidateField checks one value against its field's declared constraints.
// Pure function of (field, value); returns "" when the value passes.
// PRE: value was produced by ParseSubmitted or restored from a draft
// POST: at most one message, required beats every constraint
func ValidateField(f Field, v any) string {
	if f.Required && IsEmptyValue(v) {
		return fmt.Sprintf("%s wajib diisi", f.Label)
	}
	if f.Rules == nil || IsEmptyValue(v) {
		return ""
	}
	r := f.Rules

	if r.Min != nil || r.Max != nil {
		if n, ok := numericValue(v); ok {
			if r.Min != nil && n < *r.Min {
				return ruleMessage(r, fmt.Sprintf("%s minimal %s", f.Label, trimFloat(*r.Min)))
			}
			if r.Max != nil && n > *r.Max {
				return ruleMessage(r, fmt.Sprintf("%s maksimal %s", f.Label, trimFloat(*r.Max)))
			}
		} else if f.Kind == FieldKindNumber {
			return ruleMessage(r, fmt.Sprintf("%s harus berupa angka", f.Label))
		}
	}

	if s, ok := stringValue(v); ok {
		length := len([]rune(s))
		if r.MinLength != nil && length < *r.MinLength {
			return ruleMessage(r, fmt.Sprintf("%s minimal %d karakter", f.Label, *r.MinLength))
		}
		if r.MaxLength != nil && length > *r.MaxLength {
			return ruleMessage(r, fmt.Sprintf("%s maksimal %d karakter", f.Label, *r.MaxLength))
		}
		if r.Pattern != "" {
			re, err := regexp.Compile(r.Pattern)
			// An uncompilable pattern cannot block submission; the backend
			// re-validates everything anyway.
			if err == nil && !re.MatchString(s) {
				return ruleMessage(r, fmt.Sprintf("%s tidak sesuai format", f.Label))
			}
		}
	}
	return ""
}

// ValidateSection validates every field of a section against the record.
// Hidden and disabled fields are skipped; the user cannot correct them.
func ValidateSection(sec Section, rec ValueRecord) ValidationErrors {
	errs := make(ValidationErrors)
	for _, f := range sec.Fields {
		if f.Hidden || f.Disabled {
			continue
		}
		if msg := ValidateField(f, rec[f.Key]); msg != "" {
			errs[f.Key] = msg
		}
	}
	return errs
}

func ruleMessage(r *Rules, fallback string) string {
	if r.CustomMessage != "" {
		return r.CustomMessage
	}
	return fallback
}

func trimFloat(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
