package form

import "encoding/json"

// JSON wire names follow the backend's form_schema payload.

type schemaJSON struct {
	Sections []sectionJSON `json:"sections"`
}

type sectionJSON struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

type optionJSON struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

type rulesJSON struct {
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	MinLength     *int     `json:"minLength,omitempty"`
	MaxLength     *int     `json:"maxLength,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	CustomMessage string   `json:"customMessage,omitempty"`
}

type fieldJSON struct {
	Key          string       `json:"key"`
	Label        string       `json:"label"`
	Placeholder  string       `json:"placeholder,omitempty"`
	Description  string       `json:"description,omitempty"`
	HelpText     string       `json:"helpText,omitempty"`
	Type         string       `json:"type"`
	Required     bool         `json:"required"`
	Options      []optionJSON `json:"options,omitempty"`
	Validation   *rulesJSON   `json:"validation,omitempty"`
	DefaultValue any          `json:"defaultValue,omitempty"`
	Hidden       bool         `json:"hidden,omitempty"`
	Disabled     bool         `json:"disabled,omitempty"`
}

// UnmarshalJSON decodes a backend field definition, normalizing the type tag
// to a FieldKind. Both "description" and "helpText" are accepted for the help
// line; description wins when both are present.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	help := raw.Description
	if help == "" {
		help = raw.HelpText
	}
	*f = Field{
		Key:          raw.Key,
		Label:        raw.Label,
		Placeholder:  raw.Placeholder,
		HelpText:     help,
		Kind:         KindFromString(raw.Type),
		Required:     raw.Required,
		DefaultValue: raw.DefaultValue,
		Hidden:       raw.Hidden,
		Disabled:     raw.Disabled,
	}
	for _, o := range raw.Options {
		f.Options = append(f.Options, Option{Label: o.Label, Value: o.Value, Disabled: o.Disabled})
	}
	if raw.Validation != nil {
		f.Rules = &Rules{
			Min:           raw.Validation.Min,
			Max:           raw.Validation.Max,
			MinLength:     raw.Validation.MinLength,
			MaxLength:     raw.Validation.MaxLength,
			Pattern:       raw.Validation.Pattern,
			CustomMessage: raw.Validation.CustomMessage,
		}
	}
	return nil
}

// UnmarshalJSON decodes a backend form_schema payload. A null or missing
// sections array decodes to an empty schema, which means no form is required.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw schemaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Sections = nil
	for _, sec := range raw.Sections {
		s.Sections = append(s.Sections, Section{Name: sec.Name, Fields: sec.Fields})
	}
	return nil
}
