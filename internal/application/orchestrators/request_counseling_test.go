package orchestrators

import (
	"context"
	"errors"
	"testing"

	"portal/internal/domain/counseling"
)

// TestExecuteRequestCounseling_Valid tests a complete counseling request.
func TestExecuteRequestCounseling_Valid(t *testing.T) {
	svc := &mockCounselingService{id: "cs-001"}
	id, err := ExecuteRequestCounseling(context.Background(), RequestCounselingInput{
		Topic:         "manajemen stres",
		Mode:          counseling.ModeOnline,
		PreferredDate: "2026-03-10",
		Notes:         "sore hari",
	}, RequestCounselingDeps{Counseling: svc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "cs-001" {
		t.Errorf("expected cs-001, got %q", id)
	}
	req := svc.requests[0]
	if req.PreferredDate.Format("2006-01-02") != "2026-03-10" {
		t.Errorf("unexpected preferred date: %v", req.PreferredDate)
	}
}

// TestExecuteRequestCounseling_Invalid tests the validation failures.
func TestExecuteRequestCounseling_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   RequestCounselingInput
		wantErr error
	}{
		{
			name:    "missing date",
			input:   RequestCounselingInput{Topic: "stres", Mode: counseling.ModeOnline},
			wantErr: counseling.ErrMissingSchedule,
		},
		{
			name:    "malformed date",
			input:   RequestCounselingInput{Topic: "stres", Mode: counseling.ModeOnline, PreferredDate: "10/03/2026"},
			wantErr: ErrInvalidPreferredDate,
		},
		{
			name:    "empty topic",
			input:   RequestCounselingInput{Mode: counseling.ModeOnline, PreferredDate: "2026-03-10"},
			wantErr: counseling.ErrEmptyTopic,
		},
		{
			name:    "bad mode",
			input:   RequestCounselingInput{Topic: "stres", Mode: "telepati", PreferredDate: "2026-03-10"},
			wantErr: counseling.ErrInvalidMode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCounselingService{}
			_, err := ExecuteRequestCounseling(context.Background(), tt.input, RequestCounselingDeps{Counseling: svc})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(svc.requests) != 0 {
				t.Error("invalid requests must not reach the backend")
			}
		})
	}
}
