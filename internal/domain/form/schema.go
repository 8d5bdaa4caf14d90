package form

import (
	"errors"
	"strings"
)

// FieldKind is the closed set of input kinds a schema can ask for.
// Unknown kinds coming from the backend are normalized to FieldKindText at
// the JSON boundary (see UnmarshalJSON) so the renderer can match
// exhaustively without a silent default case.
type FieldKind string

const (
	FieldKindText        FieldKind = "text"
	FieldKindTextarea    FieldKind = "textarea"
	FieldKindNumber      FieldKind = "number"
	FieldKindDropdown    FieldKind = "dropdown"
	FieldKindMultiselect FieldKind = "multiselect"
	FieldKindRadio       FieldKind = "radio"
	FieldKindCheckbox    FieldKind = "checkbox"
	FieldKindDate        FieldKind = "date"
)

// ValidKinds contains all renderable field kinds.
var ValidKinds = []FieldKind{
	FieldKindText, FieldKindTextarea, FieldKindNumber, FieldKindDropdown,
	FieldKindMultiselect, FieldKindRadio, FieldKindCheckbox, FieldKindDate,
}

// Domain errors
var (
	ErrEmptySchema      = errors.New("form schema has no sections")
	ErrEmptySectionName = errors.New("form section name cannot be empty")
	ErrEmptyFieldKey    = errors.New("form field key cannot be empty")
	ErrDuplicateKey     = errors.New("form field keys must be unique across all sections")
)

// KindFromString maps a backend type tag to a FieldKind. "select" is an
// accepted alias for dropdown; anything unrecognized falls back to a plain
// text input, which keeps required-checking but no other constraints.
func KindFromString(s string) FieldKind {
	switch s {
	case "select":
		return FieldKindDropdown
	}
	for _, k := range ValidKinds {
		if s == string(k) {
			return k
		}
	}
	return FieldKindText
}

// Option is one selectable choice of a dropdown/multiselect/radio/checkbox
// field. Slice order is display order.
type Option struct {
	Label    string
	Value    string
	Disabled bool
}

// Rules carries the optional per-field constraints. Nil pointers mean
// "no bound declared".
type Rules struct {
	Min           *float64
	Max           *float64
	MinLength     *int
	MaxLength     *int
	Pattern       string
	CustomMessage string
}

// Field is one input of a section.
type Field struct {
	Key          string
	Label        string
	Placeholder  string
	HelpText     string
	Kind         FieldKind
	Required     bool
	Options      []Option
	Rules        *Rules
	DefaultValue any
	Hidden       bool
	Disabled     bool
}

// IsMultiValue reports whether the field collects a []string rather than a
// scalar. This is the single place encoding the checkbox overload inherited
// from the schema format: a checkbox WITH options is a multi-value group, a
// checkbox WITHOUT options is one boolean toggle. Schema authors: prefer
// multiselect for new multi-value fields.
func (f Field) IsMultiValue() bool {
	if f.Kind == FieldKindMultiselect {
		return true
	}
	return f.Kind == FieldKindCheckbox && len(f.Options) > 0
}

// IsChoice reports whether the field draws its values from Options.
func (f Field) IsChoice() bool {
	switch f.Kind {
	case FieldKindDropdown, FieldKindMultiselect, FieldKindRadio:
		return true
	case FieldKindCheckbox:
		return len(f.Options) > 0
	}
	return false
}

// Section is one page of a multi-step form.
type Section struct {
	Name   string
	Fields []Field
}

// Schema is the declarative description of a form, sourced from the backend.
// The first section is conventionally the profile/identity section.
type Schema struct {
	Sections []Section
}

// Empty reports whether the schema requires no form at all.
func (s Schema) Empty() bool {
	return len(s.Sections) == 0
}

// Validate checks structural invariants of a schema.
// PRE: schema decoded from the backend envelope
// POST: returns nil if every section is named and field keys are globally unique
func (s Schema) Validate() error {
	seen := make(map[string]bool)
	for _, sec := range s.Sections {
		if sec.Name == "" {
			return ErrEmptySectionName
		}
		for _, f := range sec.Fields {
			if f.Key == "" {
				return ErrEmptyFieldKey
			}
			if seen[f.Key] {
				return ErrDuplicateKey
			}
			seen[f.Key] = true
		}
	}
	return nil
}

// FieldByKey finds a field anywhere in the schema.
func (s Schema) FieldByKey(key string) (Field, bool) {
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return Field{}, false
}

// profileSectionNames are the section names the backend uses for the
// profile/identity step.
var profileSectionNames = map[string]bool{
	"profile":      true,
	"profil":       true,
	"profile_data": true,
	"data_diri":    true,
}

// IsProfileSection reports whether a section is the profile/identity step.
// Only the schema's first section is ever treated as one; callers enforce
// that positional rule.
func IsProfileSection(sec Section) bool {
	name := strings.ReplaceAll(strings.ToLower(sec.Name), " ", "_")
	return profileSectionNames[name]
}
