package web

import (
	"fmt"
	"html/template"
	"strings"

	"portal/internal/domain/form"
)

// FieldView is one field prepared for the wizard template: the input widget
// plus its label, help text, and validation error.
type FieldView struct {
	Field  form.Field
	Widget template.HTML
	Error  string
}

// renderField renders one field's input widget for the current value. The
// switch is exhaustive over the field kinds; unknown kinds were already
// normalized to text at the JSON boundary.
func renderField(f form.Field, value any) template.HTML {
	var b strings.Builder
	switch f.Kind {
	case form.FieldKindText:
		writeInput(&b, f, "text", scalarString(value))
	case form.FieldKindDate:
		writeInput(&b, f, "date", scalarString(value))
	case form.FieldKindNumber:
		writeNumberInput(&b, f, value)
	case form.FieldKindTextarea:
		writeTextarea(&b, f, scalarString(value))
	case form.FieldKindDropdown:
		writeSelect(&b, f, scalarString(value))
	case form.FieldKindRadio:
		writeChoiceGroup(&b, f, "radio", selectedSet(value))
	case form.FieldKindMultiselect:
		writeChoiceGroup(&b, f, "checkbox", selectedSet(value))
	case form.FieldKindCheckbox:
		if f.IsMultiValue() {
			writeChoiceGroup(&b, f, "checkbox", selectedSet(value))
		} else {
			writeToggle(&b, f, value)
		}
	}
	return template.HTML(b.String())
}

func esc(s string) string { return template.HTMLEscapeString(s) }

func commonAttrs(f form.Field) string {
	var b strings.Builder
	if f.Required {
		b.WriteString(" required")
	}
	if f.Disabled {
		b.WriteString(" disabled")
	}
	return b.String()
}

func writeInput(b *strings.Builder, f form.Field, inputType, value string) {
	fmt.Fprintf(b, `<input type=%q id=%q name=%q value=%q placeholder=%q%s>`,
		inputType, esc(f.Key), esc(f.Key), esc(value), esc(f.Placeholder), commonAttrs(f))
}

func writeNumberInput(b *strings.Builder, f form.Field, value any) {
	bounds := ""
	if f.Rules != nil {
		if f.Rules.Min != nil {
			bounds += fmt.Sprintf(` min="%v"`, *f.Rules.Min)
		}
		if f.Rules.Max != nil {
			bounds += fmt.Sprintf(` max="%v"`, *f.Rules.Max)
		}
	}
	fmt.Fprintf(b, `<input type="number" id=%q name=%q value=%q placeholder=%q%s%s>`,
		esc(f.Key), esc(f.Key), esc(scalarString(value)), esc(f.Placeholder), bounds, commonAttrs(f))
}

func writeTextarea(b *strings.Builder, f form.Field, value string) {
	fmt.Fprintf(b, `<textarea id=%q name=%q placeholder=%q rows="4"%s>%s</textarea>`,
		esc(f.Key), esc(f.Key), esc(f.Placeholder), commonAttrs(f), esc(value))
}

func writeSelect(b *strings.Builder, f form.Field, value string) {
	fmt.Fprintf(b, `<select id=%q name=%q%s>`, esc(f.Key), esc(f.Key), commonAttrs(f))
	fmt.Fprintf(b, `<option value="">%s</option>`, esc(placeholderOr(f, "Pilih salah satu")))
	for _, opt := range f.Options {
		selected := ""
		if opt.Value == value {
			selected = " selected"
		}
		disabled := ""
		if opt.Disabled {
			disabled = " disabled"
		}
		fmt.Fprintf(b, `<option value=%q%s%s>%s</option>`, esc(opt.Value), selected, disabled, esc(opt.Label))
	}
	b.WriteString(`</select>`)
}

func writeChoiceGroup(b *strings.Builder, f form.Field, inputType string, selected map[string]bool) {
	fmt.Fprintf(b, `<div class="choice-group" role="group" aria-labelledby="%s-label">`, esc(f.Key))
	for i, opt := range f.Options {
		id := fmt.Sprintf("%s-%d", f.Key, i)
		checked := ""
		if selected[opt.Value] {
			checked = " checked"
		}
		disabled := ""
		if opt.Disabled || f.Disabled {
			disabled = " disabled"
		}
		fmt.Fprintf(b, `<label for=%q><input type=%q id=%q name=%q value=%q%s%s> %s</label>`,
			esc(id), inputType, esc(id), esc(f.Key), esc(opt.Value), checked, disabled, esc(opt.Label))
	}
	b.WriteString(`</div>`)
}

func writeToggle(b *strings.Builder, f form.Field, value any) {
	checked := ""
	if v, ok := value.(bool); ok && v {
		checked = " checked"
	}
	fmt.Fprintf(b, `<label for=%q><input type="checkbox" id=%q name=%q value="true"%s%s> %s</label>`,
		esc(f.Key), esc(f.Key), esc(f.Key), checked, commonAttrs(f), esc(f.Label))
}

func placeholderOr(f form.Field, fallback string) string {
	if f.Placeholder != "" {
		return f.Placeholder
	}
	return fallback
}

// scalarString renders a stored scalar value back into an input attribute.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	case bool:
		if t {
			return "true"
		}
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// selectedSet collects the chosen option values of a multi-value or radio
// answer, whatever shape it was stored in.
func selectedSet(v any) map[string]bool {
	set := map[string]bool{}
	switch t := v.(type) {
	case string:
		if t != "" {
			set[t] = true
		}
	case []string:
		for _, s := range t {
			set[s] = true
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				set[s] = true
			}
		}
	}
	return set
}
