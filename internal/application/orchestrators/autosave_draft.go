package orchestrators

import (
	"context"
	"time"

	draftDomain "portal/internal/domain/draft"
	"portal/internal/domain/form"
	"portal/internal/domain/registration"
)

// AutosaveDraftInput carries a partial value update from an in-progress step.
type AutosaveDraftInput struct {
	VisitorID   string
	Target      registration.Target
	Values      form.ValueRecord
	CurrentStep int
}

// AutosaveDraftDeps holds dependencies for AutosaveDraft.
type AutosaveDraftDeps struct {
	Drafts DraftStore
	Now    func() time.Time
}

// ExecuteAutosaveDraft merges the incoming values into the stored draft and
// refreshes its expiry. Concurrent autosaves are last-writer-wins per key.
func ExecuteAutosaveDraft(ctx context.Context, input AutosaveDraftInput, deps AutosaveDraftDeps) error {
	key, err := draftDomain.NewKey(input.VisitorID, input.Target)
	if err != nil {
		return err
	}

	now := deps.Now()
	data := form.ValueRecord{}
	if existing, ok, err := deps.Drafts.Load(ctx, key, now); err != nil {
		return err
	} else if ok {
		data = existing.Data
	}
	data.Merge(input.Values)

	return deps.Drafts.Save(ctx, draftDomain.New(key, data, input.CurrentStep, now))
}
