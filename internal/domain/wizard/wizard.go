package wizard

import (
	"errors"

	"portal/internal/domain/form"
)

// Phase names the wizard states. Using named states instead of raw step
// arithmetic makes the single-section shortcut and the back-to-profile edge
// explicit.
const (
	PhaseProfile    = "profile"
	PhaseSection    = "section"
	PhaseSubmitting = "submitting"
	PhaseDone       = "done"
)

// Domain errors
var (
	ErrSessionClosed = errors.New("wizard session is already submitting or done")
	ErrAtFirstStep   = errors.New("already at the first step")
	ErrNotSubmitting = errors.New("wizard session is not in the submitting phase")
)

// State is the wizard position. Section is the index into the custom (non
// profile) sections and only meaningful in PhaseSection.
type State struct {
	Phase   string
	Section int
}

// Session is one active form-filling session. All mutable state (accumulated
// record, position) is owned by a single session; callers rebuild it per
// request from the schema plus the stored draft.
type Session struct {
	Schema     form.Schema
	HasProfile bool

	State State

	// Profile holds the profile step's values. They are persisted through
	// the profile endpoint when that step advances, and are NOT repeated in
	// the final submission payload.
	Profile form.ValueRecord

	// Record accumulates the custom sections' values. Later steps only add
	// or overwrite their own keys.
	Record form.ValueRecord
}

// NewSession starts a session at the first step. A schema with no sections
// starts directly in the submitting phase; no form is required.
func NewSession(schema form.Schema) *Session {
	s := &Session{
		Schema:  schema,
		Profile: form.ValueRecord{},
		Record:  form.ValueRecord{},
	}
	s.HasProfile = len(schema.Sections) > 0 && form.IsProfileSection(schema.Sections[0])
	switch {
	case schema.Empty():
		s.State = State{Phase: PhaseSubmitting}
	case s.HasProfile:
		s.State = State{Phase: PhaseProfile}
	default:
		s.State = State{Phase: PhaseSection, Section: 0}
	}
	return s
}

// customSections returns the sections after the profile step, if any.
func (s *Session) customSections() []form.Section {
	if s.HasProfile {
		return s.Schema.Sections[1:]
	}
	return s.Schema.Sections
}

// CurrentSection returns the section being edited, or false when the session
// is past its last editable step.
func (s *Session) CurrentSection() (form.Section, bool) {
	switch s.State.Phase {
	case PhaseProfile:
		return s.Schema.Sections[0], true
	case PhaseSection:
		cs := s.customSections()
		if s.State.Section < len(cs) {
			return cs[s.State.Section], true
		}
	}
	return form.Section{}, false
}

// Advance merges the current step's values and moves forward. It returns
// true when the session reached the submitting phase, i.e. the caller must
// now hand off to the submission gateway.
// PRE: values passed section validation
// POST: previously entered values for other sections are untouched
func (s *Session) Advance(values form.ValueRecord) (bool, error) {
	switch s.State.Phase {
	case PhaseProfile:
		s.Profile.Merge(values)
		if len(s.customSections()) == 0 {
			// Single-section shortcut: profile-only schemas submit directly.
			s.State = State{Phase: PhaseSubmitting}
			return true, nil
		}
		s.State = State{Phase: PhaseSection, Section: 0}
		return false, nil
	case PhaseSection:
		s.Record.Merge(values)
		if s.State.Section >= len(s.customSections())-1 {
			s.State = State{Phase: PhaseSubmitting}
			return true, nil
		}
		s.State = State{Phase: PhaseSection, Section: s.State.Section + 1}
		return false, nil
	}
	return false, ErrSessionClosed
}

// Back re-displays the previous step. Values already merged stay merged; the
// target step re-renders pre-filled from the accumulated record. Backing out
// of the very first step is the caller's escape, not a transition.
func (s *Session) Back() error {
	switch s.State.Phase {
	case PhaseProfile:
		return ErrAtFirstStep
	case PhaseSection:
		if s.State.Section == 0 {
			if s.HasProfile {
				s.State = State{Phase: PhaseProfile}
				return nil
			}
			return ErrAtFirstStep
		}
		s.State = State{Phase: PhaseSection, Section: s.State.Section - 1}
		return nil
	}
	return ErrSessionClosed
}

// FailSubmit returns a session whose submission was rejected to its last
// editable step so the user can correct and resubmit.
func (s *Session) FailSubmit() {
	cs := s.customSections()
	switch {
	case len(cs) > 0:
		s.State = State{Phase: PhaseSection, Section: len(cs) - 1}
	case s.HasProfile:
		s.State = State{Phase: PhaseProfile}
	}
}

// MarkDone completes the session after a successful submission.
func (s *Session) MarkDone() error {
	if s.State.Phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.State = State{Phase: PhaseDone}
	return nil
}

// StepIndex flattens the position into the integer persisted with a draft:
// the profile step counts as 0 when present.
func (s *Session) StepIndex() int {
	offset := 0
	if s.HasProfile {
		offset = 1
	}
	switch s.State.Phase {
	case PhaseProfile:
		return 0
	case PhaseSection:
		return offset + s.State.Section
	}
	return s.TotalSteps() - 1
}

// RestoreStep positions the session from a persisted step index, clamping
// out-of-range values to the nearest editable step.
func (s *Session) RestoreStep(idx int) {
	if s.Schema.Empty() {
		return
	}
	if idx <= 0 {
		if s.HasProfile {
			s.State = State{Phase: PhaseProfile}
		} else {
			s.State = State{Phase: PhaseSection, Section: 0}
		}
		return
	}
	cs := s.customSections()
	offset := 0
	if s.HasProfile {
		offset = 1
	}
	sec := idx - offset
	if sec < 0 {
		sec = 0
	}
	if sec >= len(cs) {
		sec = len(cs) - 1
	}
	if len(cs) == 0 {
		s.State = State{Phase: PhaseProfile}
		return
	}
	s.State = State{Phase: PhaseSection, Section: sec}
}

// TotalSteps counts the editable steps.
func (s *Session) TotalSteps() int {
	return len(s.Schema.Sections)
}

// AtFirstStep reports whether back navigation would leave the wizard.
func (s *Session) AtFirstStep() bool {
	if s.State.Phase == PhaseProfile {
		return true
	}
	return s.State.Phase == PhaseSection && s.State.Section == 0 && !s.HasProfile
}

// OnProfileStep reports whether the current step is the profile section.
func (s *Session) OnProfileStep() bool {
	return s.State.Phase == PhaseProfile
}

// CombinedRecord merges profile and custom values for pre-filling inputs.
// Keys are unique across the schema, so the merge cannot clash.
func (s *Session) CombinedRecord() form.ValueRecord {
	out := s.Profile.Clone()
	out.Merge(s.Record)
	return out
}
