package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"portal/internal/adapters/backend"
	draftDomain "portal/internal/domain/draft"
	"portal/internal/domain/form"
	"portal/internal/domain/profile"
	"portal/internal/domain/registration"
	"portal/internal/domain/wizard"
)

// FormFetcher loads custom form schemas from the backend. Feature-attached
// forms resolve by feature; independent forms resolve by their own form id.
type FormFetcher interface {
	FetchCustomForm(ctx context.Context, target registration.Target) (backend.CustomForm, bool, error)
	GetIndependentForm(ctx context.Context, formID int64) (backend.CustomForm, bool, error)
}

// ProfileService reads and writes the member profile owned by the backend.
type ProfileService interface {
	GetMyProfile(ctx context.Context) (profile.Profile, error)
	UpdateProfile(ctx context.Context, rec form.ValueRecord) error
}

// DraftStore persists wizard drafts.
type DraftStore interface {
	Load(ctx context.Context, key draftDomain.Key, now time.Time) (draftDomain.Draft, bool, error)
	Save(ctx context.Context, d draftDomain.Draft) error
	Clear(ctx context.Context, key draftDomain.Key) error
}

// StartWizardInput carries input for the orchestrator.
type StartWizardInput struct {
	VisitorID string
	Target    registration.Target
}

// StartWizardDeps holds dependencies for StartWizard.
type StartWizardDeps struct {
	Forms    FormFetcher
	Profiles ProfileService
	Drafts   DraftStore
	Now      func() time.Time
}

// StartWizardResult is the prepared form session, or HasForm=false when the
// feature needs no form and registration is a single confirmation.
type StartWizardResult struct {
	Form     backend.CustomForm
	HasForm  bool
	Session  *wizard.Session
	Restored bool
}

// ExecuteStartWizard prepares a wizard session for a feature: fetches the
// schema, pre-fills the profile step, and restores an unexpired draft.
// PRE: target validates; visitorID is non-empty
// POST: session positioned at the draft's step, or the first step
func ExecuteStartWizard(ctx context.Context, input StartWizardInput, deps StartWizardDeps) (StartWizardResult, error) {
	if err := input.Target.Validate(); err != nil {
		return StartWizardResult{}, err
	}

	cf, hasForm, err := fetchForm(ctx, deps.Forms, input.Target)
	if err != nil {
		return StartWizardResult{}, err
	}
	if !hasForm || cf.Schema.Empty() {
		return StartWizardResult{Form: cf, HasForm: false}, nil
	}

	session := wizard.NewSession(cf.Schema)

	// Pre-fill the profile step from the backend profile. Best effort: a
	// missing profile just means empty inputs.
	if session.HasProfile {
		if p, err := deps.Profiles.GetMyProfile(ctx); err == nil {
			profileRec, _ := splitRecord(cf.Schema, session.HasProfile, p.Record())
			session.Profile.Merge(profileRec)
		} else {
			slog.Warn("profile_prefill_failed", "error", err.Error())
		}
	}

	restored := false
	key, err := draftDomain.NewKey(input.VisitorID, input.Target)
	if err != nil {
		return StartWizardResult{}, err
	}
	if d, ok, err := deps.Drafts.Load(ctx, key, deps.Now()); err != nil {
		return StartWizardResult{}, err
	} else if ok {
		profileRec, customRec := splitRecord(cf.Schema, session.HasProfile, d.Data)
		session.Profile.Merge(profileRec)
		session.Record.Merge(customRec)
		session.RestoreStep(d.CurrentStep)
		restored = true
	}

	return StartWizardResult{Form: cf, HasForm: true, Session: session, Restored: restored}, nil
}

// fetchForm resolves the schema for a target. An independent form is its own
// feature, so its id addresses the form directly instead of a by-feature
// lookup that could match any standalone form.
func fetchForm(ctx context.Context, forms FormFetcher, target registration.Target) (backend.CustomForm, bool, error) {
	if target.Type == registration.FeatureIndependent && target.FeatureID > 0 {
		return forms.GetIndependentForm(ctx, target.FeatureID)
	}
	return forms.FetchCustomForm(ctx, target)
}

// splitRecord partitions a flat record into profile-section keys and the
// rest. Keys not present anywhere in the schema are dropped.
func splitRecord(schema form.Schema, hasProfile bool, rec form.ValueRecord) (form.ValueRecord, form.ValueRecord) {
	profileRec := form.ValueRecord{}
	customRec := form.ValueRecord{}
	profileKeys := map[string]bool{}
	if hasProfile {
		for _, f := range schema.Sections[0].Fields {
			profileKeys[f.Key] = true
		}
	}
	for k, v := range rec {
		if _, ok := schema.FieldByKey(k); !ok {
			continue
		}
		if profileKeys[k] {
			profileRec[k] = v
		} else {
			customRec[k] = v
		}
	}
	return profileRec, customRec
}
