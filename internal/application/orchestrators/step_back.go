package orchestrators

import (
	"context"
	"time"

	draftDomain "portal/internal/domain/draft"
	"portal/internal/domain/registration"
	"portal/internal/domain/wizard"
)

// StepBackInput identifies the session stepping backwards.
type StepBackInput struct {
	VisitorID string
	Target    registration.Target
	Session   *wizard.Session
}

// StepBackDeps holds dependencies for StepBack.
type StepBackDeps struct {
	Drafts DraftStore
	Now    func() time.Time
}

// ExecuteStepBack moves the session to the previous step and records the new
// position in the draft. Values already entered are kept.
// POST: wizard.ErrAtFirstStep when there is no previous step; the caller
// leaves the wizard instead
func ExecuteStepBack(ctx context.Context, input StepBackInput, deps StepBackDeps) error {
	if err := input.Session.Back(); err != nil {
		return err
	}

	key, err := draftDomain.NewKey(input.VisitorID, input.Target)
	if err != nil {
		return err
	}
	d := draftDomain.New(key, input.Session.CombinedRecord(), input.Session.StepIndex(), deps.Now())
	return deps.Drafts.Save(ctx, d)
}
