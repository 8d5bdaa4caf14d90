package orchestrators

import (
	"context"
	"errors"
	"testing"

	draftDomain "portal/internal/domain/draft"
	"portal/internal/domain/form"
	"portal/internal/domain/wizard"
)

// TestExecuteStepBack_SavesPosition tests that stepping back persists the
// new position while keeping entered values.
func TestExecuteStepBack_SavesPosition(t *testing.T) {
	session := wizard.NewSession(twoSectionSchema())
	session.Advance(form.ValueRecord{"full_name": "Siti", "email": "siti@example.ac.id"})

	drafts := newMockDraftStore()
	err := ExecuteStepBack(context.Background(), StepBackInput{
		VisitorID: "v-001",
		Target:    activityTarget(),
		Session:   session,
	}, StepBackDeps{Drafts: drafts, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.State.Phase != wizard.PhaseProfile {
		t.Errorf("expected profile phase, got %+v", session.State)
	}

	key, _ := draftDomain.NewKey("v-001", activityTarget())
	d, ok, _ := drafts.Load(context.Background(), key, fixedTime)
	if !ok {
		t.Fatal("expected a saved draft")
	}
	if d.CurrentStep != 0 {
		t.Errorf("expected draft step 0, got %d", d.CurrentStep)
	}
	if d.Data["full_name"] != "Siti" {
		t.Error("stepping back must keep entered values")
	}
}

// TestExecuteStepBack_AtFirstStep tests that backing out of the first step
// is surfaced as ErrAtFirstStep without touching the draft.
func TestExecuteStepBack_AtFirstStep(t *testing.T) {
	session := wizard.NewSession(twoSectionSchema())
	drafts := newMockDraftStore()
	err := ExecuteStepBack(context.Background(), StepBackInput{
		VisitorID: "v-001",
		Target:    activityTarget(),
		Session:   session,
	}, StepBackDeps{Drafts: drafts, Now: fixedNow})
	if !errors.Is(err, wizard.ErrAtFirstStep) {
		t.Fatalf("expected ErrAtFirstStep, got %v", err)
	}
	if len(drafts.drafts) != 0 {
		t.Error("no draft should be written when there is no previous step")
	}
}
