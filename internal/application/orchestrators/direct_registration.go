package orchestrators

import (
	"context"
	"log/slog"
	"time"

	draftDomain "portal/internal/domain/draft"
	"portal/internal/domain/form"
	"portal/internal/domain/registration"
)

// DirectRegistrationInput registers for a feature that carries no custom
// form. The user confirmed on a plain confirmation screen.
type DirectRegistrationInput struct {
	VisitorID string
	Target    registration.Target
}

// DirectRegistrationDeps holds dependencies for DirectRegistration.
type DirectRegistrationDeps struct {
	Drafts     DraftStore
	Registrar  Registrar
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteDirectRegistration sends an empty-record registration and clears
// any stale draft left from a previously active form.
func ExecuteDirectRegistration(ctx context.Context, input DirectRegistrationInput, deps DirectRegistrationDeps) (registration.Confirmation, error) {
	if err := input.Target.Validate(); err != nil {
		return registration.Confirmation{}, err
	}

	sub := registration.Submission{
		Target:          input.Target,
		ProfileData:     form.ValueRecord{},
		CustomFormData:  form.ValueRecord{},
		ClientRequestID: deps.GenerateID(),
		SubmittedAt:     deps.Now(),
	}
	conf, err := deps.Registrar.Register(ctx, sub)
	if err != nil {
		return registration.Confirmation{}, err
	}

	if key, kerr := draftDomain.NewKey(input.VisitorID, input.Target); kerr == nil {
		if cerr := deps.Drafts.Clear(ctx, key); cerr != nil {
			slog.Warn("stale_draft_clear_failed", "error", cerr.Error())
		}
	}
	return conf, nil
}
