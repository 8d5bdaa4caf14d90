package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"portal/internal/domain/form"
	"portal/internal/domain/registration"
)

// CustomForm is the backend's form envelope around a schema.
type CustomForm struct {
	ID              int64       `json:"id"`
	FormName        string      `json:"form_name"`
	FormDescription string      `json:"form_description"` // markdown
	FeatureType     string      `json:"feature_type"`
	FeatureID       int64       `json:"feature_id"`
	Schema          form.Schema `json:"form_schema"`
	IsActive        bool        `json:"is_active"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// FetchCustomForm loads the form attached to a feature. An absent (404) or
// inactive form is reported as (zero, false, nil): the feature simply has no
// additional form. Any other failure wraps ErrSchemaUnavailable.
func (c *Client) FetchCustomForm(ctx context.Context, target registration.Target) (CustomForm, bool, error) {
	q := url.Values{"feature_type": {target.Type}}
	if target.FeatureID > 0 {
		q.Set("feature_id", strconv.FormatInt(target.FeatureID, 10))
	}

	var cf CustomForm
	err := c.do(ctx, http.MethodGet, "/custom-forms/by-feature", q, nil, &cf)
	if err != nil {
		if IsNotFound(err) {
			return CustomForm{}, false, nil
		}
		return CustomForm{}, false, joinSchemaUnavailable(err)
	}
	if !cf.IsActive {
		return CustomForm{}, false, nil
	}
	if err := cf.Schema.Validate(); err != nil {
		return CustomForm{}, false, joinSchemaUnavailable(err)
	}
	return cf, true, nil
}

// ListIndependentForms returns the active standalone forms.
func (c *Client) ListIndependentForms(ctx context.Context) ([]CustomForm, error) {
	q := url.Values{"feature_type": {registration.FeatureIndependent}}
	var out struct {
		Data []CustomForm `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/custom-forms", q, nil, &out); err != nil {
		return nil, err
	}
	active := out.Data[:0]
	for _, cf := range out.Data {
		if cf.IsActive {
			active = append(active, cf)
		}
	}
	return active, nil
}

// GetIndependentForm loads one standalone form by its form id.
func (c *Client) GetIndependentForm(ctx context.Context, formID int64) (CustomForm, bool, error) {
	var cf CustomForm
	err := c.do(ctx, http.MethodGet, "/custom-forms/"+strconv.FormatInt(formID, 10), nil, nil, &cf)
	if err != nil {
		if IsNotFound(err) {
			return CustomForm{}, false, nil
		}
		return CustomForm{}, false, joinSchemaUnavailable(err)
	}
	if !cf.IsActive {
		return CustomForm{}, false, nil
	}
	return cf, true, nil
}

func joinSchemaUnavailable(err error) error {
	return &schemaUnavailableError{cause: err}
}

type schemaUnavailableError struct{ cause error }

func (e *schemaUnavailableError) Error() string { return ErrSchemaUnavailable.Error() }
func (e *schemaUnavailableError) Is(target error) bool {
	return target == ErrSchemaUnavailable
}
func (e *schemaUnavailableError) Unwrap() error { return e.cause }
