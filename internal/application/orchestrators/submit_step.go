package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	draftDomain "portal/internal/domain/draft"
	"portal/internal/domain/form"
	"portal/internal/domain/registration"
	"portal/internal/domain/wizard"
)

// Registrar submits final registrations to the backend.
type Registrar interface {
	Register(ctx context.Context, sub registration.Submission) (registration.Confirmation, error)
}

// ErrNoEditableStep reports a step submission against a session that has no
// current section to accept values.
var ErrNoEditableStep = errors.New("no editable step")

// SubmitStepInput carries one step's submitted values.
type SubmitStepInput struct {
	VisitorID string
	Target    registration.Target
	Session   *wizard.Session
	Values    form.ValueRecord
}

// SubmitStepDeps holds dependencies for SubmitStep.
type SubmitStepDeps struct {
	Profiles   ProfileService
	Drafts     DraftStore
	Registrar  Registrar
	Now        func() time.Time
	GenerateID func() string
}

// SubmitStepResult reports where the session ended up.
type SubmitStepResult struct {
	Errors       form.ValidationErrors
	Submitted    bool
	Confirmation registration.Confirmation
}

// ExecuteSubmitStep validates one step's values and moves the wizard
// forward. Intermediate steps persist a draft; the final step registers and
// clears the draft.
// POST: on validation errors the session has not moved
// POST: on a rejected registration the session is back on its last step
func ExecuteSubmitStep(ctx context.Context, input SubmitStepInput, deps SubmitStepDeps) (SubmitStepResult, error) {
	session := input.Session
	section, ok := session.CurrentSection()
	if !ok {
		return SubmitStepResult{}, ErrNoEditableStep
	}

	if verrs := form.ValidateSection(section, input.Values); verrs.HasErrors() {
		return SubmitStepResult{Errors: verrs}, nil
	}

	// Profile values belong to the backend profile, not the registration
	// payload. Persist them before advancing.
	if session.OnProfileStep() {
		if err := deps.Profiles.UpdateProfile(ctx, input.Values); err != nil {
			return SubmitStepResult{}, err
		}
	}

	submitNow, err := session.Advance(input.Values)
	if err != nil {
		return SubmitStepResult{}, err
	}

	key, err := draftDomain.NewKey(input.VisitorID, input.Target)
	if err != nil {
		return SubmitStepResult{}, err
	}

	if !submitNow {
		d := draftDomain.New(key, session.CombinedRecord(), session.StepIndex(), deps.Now())
		if err := deps.Drafts.Save(ctx, d); err != nil {
			return SubmitStepResult{}, err
		}
		return SubmitStepResult{}, nil
	}

	sub := registration.Submission{
		Target:          input.Target,
		ProfileData:     form.ValueRecord{},
		CustomFormData:  session.Record.Clone(),
		ClientRequestID: deps.GenerateID(),
		SubmittedAt:     deps.Now(),
	}
	conf, err := deps.Registrar.Register(ctx, sub)
	if err != nil {
		session.FailSubmit()
		return SubmitStepResult{}, err
	}

	session.MarkDone()
	// The registration is already in; a leftover draft only lingers until
	// its TTL, so a failed clear must not turn success into an error page.
	if err := deps.Drafts.Clear(ctx, key); err != nil {
		slog.Warn("draft_clear_failed", "error", err.Error())
	}
	return SubmitStepResult{Submitted: true, Confirmation: conf}, nil
}
