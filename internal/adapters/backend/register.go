package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"portal/internal/domain/form"
	"portal/internal/domain/registration"
)

type registerRequest struct {
	FeatureType     string           `json:"feature_type"`
	FeatureID       int64            `json:"feature_id,omitempty"`
	ProfileData     form.ValueRecord `json:"profile_data"`
	CustomFormData  form.ValueRecord `json:"custom_form_data"`
	ClientRequestID string           `json:"client_request_id,omitempty"`
}

type registerResponse struct {
	Message string `json:"message"`
	Data    struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Register posts an accumulated submission. A duplicate registration maps to
// registration.ErrAlreadyRegistered so callers can show a softer notice; all
// other rejections surface as a *StatusError. Never retried automatically.
func (c *Client) Register(ctx context.Context, sub registration.Submission) (registration.Confirmation, error) {
	body := registerRequest{
		FeatureType:     sub.Target.Type,
		FeatureID:       sub.Target.FeatureID,
		ProfileData:     nonNil(sub.ProfileData),
		CustomFormData:  nonNil(sub.CustomFormData),
		ClientRequestID: sub.ClientRequestID,
	}

	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/custom-forms/register", nil, body, &resp); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			if se.Code == http.StatusConflict || strings.Contains(strings.ToLower(se.Message), "sudah terdaftar") {
				return registration.Confirmation{}, registration.ErrAlreadyRegistered
			}
		}
		return registration.Confirmation{}, err
	}
	return registration.Confirmation{SubmissionID: resp.Data.ID, Message: resp.Message}, nil
}

func nonNil(rec form.ValueRecord) form.ValueRecord {
	if rec == nil {
		return form.ValueRecord{}
	}
	return rec
}
