package orchestrators

import (
	"context"
	"errors"
	"time"

	"portal/internal/domain/counseling"
)

// CounselingService submits counseling session requests to the backend.
type CounselingService interface {
	RequestCounseling(ctx context.Context, req counseling.Request) (string, error)
}

// ErrInvalidPreferredDate reports a preferred date that is not a calendar
// date in YYYY-MM-DD form.
var ErrInvalidPreferredDate = errors.New("jadwal yang diinginkan tidak sesuai format")

// RequestCounselingInput carries the raw form values for a counseling
// request.
type RequestCounselingInput struct {
	Topic         string
	Mode          string
	PreferredDate string
	Notes         string
}

// RequestCounselingDeps holds dependencies for RequestCounseling.
type RequestCounselingDeps struct {
	Counseling CounselingService
}

// ExecuteRequestCounseling validates and submits a counseling request,
// returning the backend's reference id.
func ExecuteRequestCounseling(ctx context.Context, input RequestCounselingInput, deps RequestCounselingDeps) (string, error) {
	if input.PreferredDate == "" {
		return "", counseling.ErrMissingSchedule
	}
	when, err := time.Parse("2006-01-02", input.PreferredDate)
	if err != nil {
		return "", ErrInvalidPreferredDate
	}

	req := counseling.Request{
		Topic:         input.Topic,
		Mode:          input.Mode,
		PreferredDate: when,
		Notes:         input.Notes,
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	return deps.Counseling.RequestCounseling(ctx, req)
}
